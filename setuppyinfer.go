package setuppyinfer

import (
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/dispatch"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/record"
)

// Analyzer is the library's sole entry point: a directory-scoped handle
// exposing the three PEP 517 build-backend questions (spec.md §4.4).
type Analyzer struct {
	d *dispatch.Dispatcher
}

// New reads pyproject.toml under path (if present) to pick a build backend.
// It returns dispatch.ErrUnsupportedBackend from the Requires*/Metadata
// methods, not from New itself, if the declared backend isn't the legacy
// setuptools one.
func New(path string) (*Analyzer, error) {
	d, err := dispatch.New(path)
	if err != nil {
		return nil, err
	}
	return &Analyzer{d: d}, nil
}

// RequiresForBuildSdist returns the sdist build requirements, filtered by
// matcher per the requirement-string filtering contract (spec.md §6). A nil
// matcher passes every requirement through unfiltered.
func (a *Analyzer) RequiresForBuildSdist(matcher MarkerMatcher) ([]string, error) {
	reqs, err := a.d.RequiresForBuildSdist()
	if err != nil {
		return nil, err
	}
	return FilterByMarker(reqs, matcher), nil
}

// RequiresForBuildWheel returns the wheel build requirements, filtered by
// matcher per the requirement-string filtering contract (spec.md §6).
func (a *Analyzer) RequiresForBuildWheel(matcher MarkerMatcher) ([]string, error) {
	reqs, err := a.d.RequiresForBuildWheel()
	if err != nil {
		return nil, err
	}
	return FilterByMarker(reqs, matcher), nil
}

// Metadata returns the fully merged MetadataRecord (spec.md §3-4.3).
func (a *Analyzer) Metadata() (*record.MetadataRecord, error) {
	return a.d.Metadata()
}

// AsDict renders a MetadataRecord the way the library's JSON output does:
// empty/falsey slots omitted, except the explicitly-set-false booleans that
// must round-trip (spec.md §3, supplemented feature 6).
func AsDict(rec *record.MetadataRecord) map[string]any {
	return rec.AsDict()
}
