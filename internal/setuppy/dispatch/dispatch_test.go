package dispatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDispatchDefaultsToLegacyWithoutPyproject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "setup.cfg"), `[metadata]
name=foo
[options]
install_requires=abc
setup_requires=def
`)
	d, err := New(root)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	sdist, err := d.RequiresForBuildSdist()
	if err != nil {
		t.Fatalf("RequiresForBuildSdist() error: %v", err)
	}
	if diff := cmp.Diff([]string{"setuptools", "def"}, sdist); diff != "" {
		t.Errorf("RequiresForBuildSdist mismatch (-want +got):\n%s", diff)
	}
	wheel, err := d.RequiresForBuildWheel()
	if err != nil {
		t.Fatalf("RequiresForBuildWheel() error: %v", err)
	}
	if diff := cmp.Diff([]string{"setuptools", "wheel", "def"}, wheel); diff != "" {
		t.Errorf("RequiresForBuildWheel mismatch (-want +got):\n%s", diff)
	}
	rec, err := d.Metadata()
	if err != nil {
		t.Fatalf("Metadata() error: %v", err)
	}
	if rec.Name != "foo" {
		t.Errorf("Metadata().Name = %q, want foo", rec.Name)
	}
}

func TestDispatchConcatenatesTomlRequires(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), `[build-system]
requires = ["setuptools>=61", "wheel"]
build-backend = "setuptools.build_meta:__legacy__"
`)
	writeFile(t, filepath.Join(root, "setup.cfg"), `[options]
setup_requires=extra
`)
	d, err := New(root)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	sdist, err := d.RequiresForBuildSdist()
	if err != nil {
		t.Fatalf("RequiresForBuildSdist() error: %v", err)
	}
	want := []string{"setuptools>=61", "wheel", "setuptools", "extra"}
	if diff := cmp.Diff(want, sdist); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchUnsupportedBackend(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), `[build-system]
build-backend = "poetry.core.masonry.api"
`)
	d, err := New(root)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := d.Metadata(); err == nil {
		t.Fatal("Metadata() expected ErrUnsupportedBackend")
	}
}

func TestDispatchNoPyprojectNoSetupCfg(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "setup.py"), `setup(name="bare")
`)
	d, err := New(root)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	rec, err := d.Metadata()
	if err != nil {
		t.Fatalf("Metadata() error: %v", err)
	}
	if rec.Name != "bare" {
		t.Errorf("Name = %q, want bare", rec.Name)
	}
}
