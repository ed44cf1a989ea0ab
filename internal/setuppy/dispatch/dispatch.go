// Package dispatch implements the Dispatcher (spec.md §4.4): it reads
// pyproject.toml, if present, to pick a backend and exposes the three
// public build-requirements/metadata operations.
package dispatch

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/reader"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/record"
)

const pyprojectFilename = "pyproject.toml"

// legacyBackend is the only backend this dispatcher's table recognizes, per
// spec.md's Non-goal excluding other backends' algorithmic content ("thin
// declarative backends... have no algorithmic content worth specifying").
const legacyBackend = "setuptools.build_meta:__legacy__"

// Builder and Wheeler name the packages the legacy backend always requires,
// matching the `["<builder>", ...]` / `["<builder>", "<wheeler>", ...]`
// shape of §4.4.
const (
	Builder = "setuptools"
	Wheeler = "wheel"
)

// ErrUnsupportedBackend is returned when pyproject.toml names a backend
// other than the legacy one (§7).
var ErrUnsupportedBackend = errors.New("unsupported build backend")

type pyprojectFile struct {
	BuildSystem struct {
		Requires      []string `toml:"requires"`
		BuildBackend  string   `toml:"build-backend"`
	} `toml:"build-system"`
}

// Dispatcher holds the resolved backend and extra TOML-declared requires for
// one source tree.
type Dispatcher struct {
	root    string
	backend string
	requires []string
}

// New reads pyproject.toml (if present) under root and returns a Dispatcher
// defaulting to the legacy backend when absent or when no backend key is
// declared.
func New(root string) (*Dispatcher, error) {
	d := &Dispatcher{root: root, backend: legacyBackend}

	path := filepath.Join(root, pyprojectFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var parsed pyprojectFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if parsed.BuildSystem.BuildBackend != "" {
		d.backend = parsed.BuildSystem.BuildBackend
	}
	d.requires = parsed.BuildSystem.Requires
	return d, nil
}

func (d *Dispatcher) checkSupported() error {
	if d.backend != legacyBackend && d.backend != "" {
		return errors.Wrapf(ErrUnsupportedBackend, "%q", d.backend)
	}
	return nil
}

// RequiresForBuildSdist returns the sdist build requirements: the TOML
// `requires` list, the legacy builder, and the record's setup_requires.
func (d *Dispatcher) RequiresForBuildSdist() ([]string, error) {
	if err := d.checkSupported(); err != nil {
		return nil, err
	}
	rec, err := reader.Read(d.root)
	if err != nil {
		return nil, err
	}
	return concat(d.requires, append([]string{Builder}, rec.SetupRequires...)), nil
}

// RequiresForBuildWheel returns the wheel build requirements.
func (d *Dispatcher) RequiresForBuildWheel() ([]string, error) {
	if err := d.checkSupported(); err != nil {
		return nil, err
	}
	rec, err := reader.Read(d.root)
	if err != nil {
		return nil, err
	}
	return concat(d.requires, append([]string{Builder, Wheeler}, rec.SetupRequires...)), nil
}

// Metadata returns the fully merged, laid-out MetadataRecord.
func (d *Dispatcher) Metadata() (*record.MetadataRecord, error) {
	if err := d.checkSupported(); err != nil {
		return nil, err
	}
	return reader.Read(d.root)
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
