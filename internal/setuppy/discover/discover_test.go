package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mkPkg(t *testing.T, root, rel string) {
	t.Helper()
	dir := filepath.Join(root, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "__init__.py"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPackagesS5(t *testing.T) {
	root := t.TempDir()
	mkPkg(t, root, "src/pkg")
	mkPkg(t, root, "src/pkg/sub")
	mkPkg(t, root, "src/pkg/tests")

	got, err := Packages(root, "src", []string{"pkg.sub"}, nil)
	if err != nil {
		t.Fatalf("Packages() error: %v", err)
	}
	want := []string{"pkg", "pkg.tests"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Packages() mismatch (-want +got):\n%s", diff)
	}
}

func TestPackagesExcludeIsPermissiveAboutDescendants(t *testing.T) {
	// Open Question preserved per spec.md §9: an exclude pattern only drops
	// its own exact dotted match, not descendants that happen to nest
	// under it, unless the pattern itself is written to span them (e.g.
	// "pkg.sub*").
	root := t.TempDir()
	mkPkg(t, root, "src/pkg")
	mkPkg(t, root, "src/pkg/sub")
	mkPkg(t, root, "src/pkg/sub/deep")

	got, err := Packages(root, "src", []string{"pkg.sub"}, nil)
	if err != nil {
		t.Fatalf("Packages() error: %v", err)
	}
	want := []string{"pkg", "pkg.sub.deep"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Packages() mismatch (-want +got):\n%s", diff)
	}
}

func TestPackagesNoInitFileSkipped(t *testing.T) {
	root := t.TempDir()
	mkPkg(t, root, "src/pkg")
	if err := os.MkdirAll(filepath.Join(root, "src/pkg/notapackage"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Packages(root, "src", nil, nil)
	if err != nil {
		t.Fatalf("Packages() error: %v", err)
	}
	want := []string{"pkg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Packages() mismatch (-want +got):\n%s", diff)
	}
}

func TestPackagesSortedDeterministic(t *testing.T) {
	root := t.TempDir()
	mkPkg(t, root, "src/zeta")
	mkPkg(t, root, "src/alpha")

	got, err := Packages(root, "src", nil, nil)
	if err != nil {
		t.Fatalf("Packages() error: %v", err)
	}
	want := []string{"alpha", "zeta"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Packages() mismatch (-want +got):\n%s", diff)
	}
}
