package setuppyinfer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzerRequiresForBuildSdist(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "setup.cfg", "[metadata]\nname = demo\n\n[options]\nsetup_requires =\n\twheel-builder\n")

	a, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got, err := a.RequiresForBuildSdist(nil)
	if err != nil {
		t.Fatalf("RequiresForBuildSdist() error: %v", err)
	}
	want := []string{"setuptools", "wheel-builder"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RequiresForBuildSdist() mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzerMetadataAndAsDict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "setup.cfg", "[metadata]\nname = demo\nversion = 1.2.3\n")

	a, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	rec, err := a.Metadata()
	if err != nil {
		t.Fatalf("Metadata() error: %v", err)
	}
	if rec.Name != "demo" || rec.Version != "1.2.3" {
		t.Fatalf("Metadata() = %+v", rec)
	}
	dict := AsDict(rec)
	if dict["name"] != "demo" {
		t.Errorf("AsDict()[name] = %v, want demo", dict["name"])
	}
	if _, present := dict["description"]; present {
		t.Errorf("AsDict() should omit empty description, got %v", dict["description"])
	}
}

type stubMatcher struct{ allow map[string]bool }

func (s stubMatcher) Match(marker string) bool { return s.allow[marker] }

func TestFilterByMarkerDropsFalseMarkers(t *testing.T) {
	reqs := []string{
		"foo>=1.0",
		"bar; sys_platform == \"win32\"",
		"baz; sys_platform == \"linux\"",
	}
	matcher := stubMatcher{allow: map[string]bool{`sys_platform == "linux"`: true}}
	got := FilterByMarker(reqs, matcher)
	want := []string{"foo>=1.0", "baz"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterByMarker() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterByMarkerNilMatcherPassesThrough(t *testing.T) {
	reqs := []string{"foo", "bar; extra == \"dev\""}
	got := FilterByMarker(reqs, nil)
	if diff := cmp.Diff(reqs, got); diff != "" {
		t.Errorf("FilterByMarker() mismatch (-want +got):\n%s", diff)
	}
}
