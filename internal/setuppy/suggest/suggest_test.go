package suggest

import "testing"

func TestNameMismatchFlagsUnrelatedNames(t *testing.T) {
	note := NameMismatch("/src/totally-different-thing", "acme-widgets")
	if note == "" {
		t.Fatal("expected a mismatch note, got none")
	}
}

func TestNameMismatchIgnoresDashUnderscoreVariants(t *testing.T) {
	note := NameMismatch("/src/my_pkg", "my-pkg")
	if note != "" {
		t.Fatalf("expected no mismatch note, got %q", note)
	}
}

func TestNameMismatchEmptyDeclaredName(t *testing.T) {
	if note := NameMismatch("/src/anything", ""); note != "" {
		t.Fatalf("expected no note for empty declared name, got %q", note)
	}
}
