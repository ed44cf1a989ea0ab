package iniread

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/record"
)

func TestAnalyzeS1(t *testing.T) {
	input := `[metadata]
name=foo
[options]
install_requires=abc
setup_requires=def
`
	got, err := Analyze(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if got.Name != "foo" {
		t.Errorf("Name = %q, want foo", got.Name)
	}
	if diff := cmp.Diff([]string{"abc"}, got.RequiresDist); diff != "" {
		t.Errorf("RequiresDist mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"def"}, got.SetupRequires); diff != "" {
		t.Errorf("SetupRequires mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeDashUnderscoreNormalization(t *testing.T) {
	input := `[metadata]
author-email = jane@example.org
`
	got, err := Analyze(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if got.AuthorEmail != "jane@example.org" {
		t.Errorf("AuthorEmail = %q, want jane@example.org", got.AuthorEmail)
	}
}

func TestAnalyzeFindMarker(t *testing.T) {
	input := `[options]
packages = find:
`
	got, err := Analyze(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if got.Packages.Kind != record.PackagesFindMarker {
		t.Errorf("Packages.Kind = %v, want PackagesFindMarker", got.Packages.Kind)
	}
}

func TestAnalyzeEntryPointsSection(t *testing.T) {
	input := `[options.entry_points]
console_scripts =
    foo = foo.cli:main
`
	got, err := Analyze(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	want := []string{"foo = foo.cli:main"}
	if diff := cmp.Diff(want, got.EntryPoints["console_scripts"]); diff != "" {
		t.Errorf("EntryPoints mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeProjectURLs(t *testing.T) {
	input := `[metadata]
project_urls =
    Source=https://example.org
    Tracker=https://example.org/issues
`
	got, err := Analyze(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if len(got.ProjectURLs) != 2 {
		t.Fatalf("ProjectURLs = %v, want 2 entries", got.ProjectURLs)
	}
}

func TestAnalyzeZipSafeFalseIsExplicit(t *testing.T) {
	input := `[options]
zip_safe = false
`
	got, err := Analyze(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if !got.ZipSafe.Set || got.ZipSafe.Value {
		t.Errorf("ZipSafe = %+v, want {Set:true Value:false}", got.ZipSafe)
	}
}
