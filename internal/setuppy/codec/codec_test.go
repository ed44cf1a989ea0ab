package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListRoundTrip(t *testing.T) {
	tests := [][]string{
		nil,
		{"a"},
		{"a", "b", "c"},
	}
	for _, want := range tests {
		raw := EncodeList(want)
		got := DecodeList(raw)
		if len(want) == 0 && len(got) == 0 {
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip of %v mismatch (-want +got):\n%s", want, diff)
		}
	}
}

func TestListNewlineCompatAcceptsScalar(t *testing.T) {
	raw := EncodeListCompat("solo")
	got := DecodeList(raw)
	want := []string{"solo"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scalar round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestListDropsBlankLines(t *testing.T) {
	got := DecodeList("\n  a  \n\n  b\n")
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeList mismatch (-want +got):\n%s", diff)
	}
}

func TestDictRoundTrip(t *testing.T) {
	want := map[string]string{
		"Source":  "https://example.org",
		"Tracker": "https://example.org/issues",
	}
	raw := EncodeDict(want)
	got := DecodeDict(raw)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDictSkipsMalformedLines(t *testing.T) {
	got := DecodeDict("key = value\nno-equals-sign\n= missingkey\n")
	want := map[string]string{"key": "value"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeDict mismatch (-want +got):\n%s", diff)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	for _, want := range []bool{true, false} {
		raw := EncodeBool(want)
		got, ok := DecodeBool(raw)
		if !ok {
			t.Fatalf("DecodeBool(%q) missed", raw)
		}
		if got != want {
			t.Errorf("DecodeBool(EncodeBool(%v)) = %v", want, got)
		}
	}
}

func TestBoolCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"True", "TRUE", "false", "False"} {
		if _, ok := DecodeBool(raw); !ok {
			t.Errorf("DecodeBool(%q) should parse", raw)
		}
	}
	if _, ok := DecodeBool("yes"); ok {
		t.Error(`DecodeBool("yes") should miss, setup.cfg bools are true/false only`)
	}
}

func TestStrIsIdentity(t *testing.T) {
	for _, v := range []string{"", "a", "  spaced  "} {
		if got := DecodeStr(EncodeStr(v)); got != v {
			t.Errorf("Str round trip of %q = %q", v, got)
		}
	}
}
