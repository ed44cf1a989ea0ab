package record

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAsDictOmitsEmpty(t *testing.T) {
	r := New()
	got := r.AsDict()
	if len(got) != 0 {
		t.Errorf("AsDict() of a fresh record = %v, want empty map", got)
	}
}

func TestAsDictKeepsExplicitFalseBools(t *testing.T) {
	r := New()
	r.ZipSafe = SetBool(false)
	r.IncludePackageData = SetBool(false)
	got := r.AsDict()
	want := map[string]any{
		"zip_safe":             false,
		"include_package_data": false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AsDict() mismatch (-want +got):\n%s", diff)
	}
}

func TestAsDictDiscoverVariant(t *testing.T) {
	r := New()
	r.Packages = Packages{
		Kind:    PackagesDiscover,
		Where:   "src",
		Exclude: []string{"tests"},
		Include: []string{"*"},
	}
	got := r.AsDict()
	want := map[string]any{
		"where":   "src",
		"exclude": []string{"tests"},
		"include": []string{"*"},
	}
	if diff := cmp.Diff(want, got["packages"]); diff != "" {
		t.Errorf("packages mismatch (-want +got):\n%s", diff)
	}
}

func TestValueTruthyInfectious(t *testing.T) {
	if Unresolvable.Truthy() {
		t.Error("Unresolvable must never be truthy")
	}
	if !Literal("abc").Truthy() {
		t.Error("non-empty literal string should be truthy")
	}
	if Literal("").Truthy() {
		t.Error("empty literal string should not be truthy")
	}
}

func TestValueAccessorsRejectWrongType(t *testing.T) {
	v := Literal("abc")
	if _, ok := v.Int(); ok {
		t.Error("Int() should fail on a string literal")
	}
	if _, ok := Unresolvable.String(); ok {
		t.Error("String() should fail on Unresolvable")
	}
}
