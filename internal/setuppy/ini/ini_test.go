package ini

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *File
		wantErr bool
	}{
		{
			name: "simple key-value pairs",
			input: `key1 = value1
key2 = value2`,
			want: &File{
				Sections: map[string]*Section{
					"": {
						Name: "",
						Values: map[string]string{
							"key1": "value1",
							"key2": "value2",
						},
					},
				},
			},
		},
		{
			name: "section with key-value pairs",
			input: `[section1]
key1 = value1
key2 = value2`,
			want: &File{
				Sections: map[string]*Section{
					"section1": {
						Name: "section1",
						Values: map[string]string{
							"key1": "value1",
							"key2": "value2",
						},
					},
				},
			},
		},
		{
			name: "multiple sections",
			input: `[section1]
key1 = value1

[section2]
key2 = value2`,
			want: &File{
				Sections: map[string]*Section{
					"section1": {
						Name: "section1",
						Values: map[string]string{
							"key1": "value1",
						},
					},
					"section2": {
						Name: "section2",
						Values: map[string]string{
							"key2": "value2",
						},
					},
				},
			},
		},
		{
			name: "multiline values",
			input: `[section]
description = This is a long
    description that spans
    multiple lines`,
			want: &File{
				Sections: map[string]*Section{
					"section": {
						Name: "section",
						Values: map[string]string{
							"description": "This is a long\ndescription that spans\nmultiple lines",
						},
					},
				},
			},
		},
		{
			name: "comments",
			input: `# This is a comment
; This is also a comment
[section]
key1 = value1  # inline comment
key2 = value2  ; another inline comment`,
			want: &File{
				Sections: map[string]*Section{
					"section": {
						Name: "section",
						Values: map[string]string{
							"key1": "value1",
							"key2": "value2",
						},
					},
				},
			},
		},
		{
			name: "colon separator",
			input: `[section]
key1: value1
key2: value2`,
			want: &File{
				Sections: map[string]*Section{
					"section": {
						Name: "section",
						Values: map[string]string{
							"key1": "value1",
							"key2": "value2",
						},
					},
				},
			},
		},
		{
			name: "empty values",
			input: `[section]
key1 =
key2 = value2`,
			want: &File{
				Sections: map[string]*Section{
					"section": {
						Name: "section",
						Values: map[string]string{
							"key1": "",
							"key2": "value2",
						},
					},
				},
			},
		},
		{
			name: "section names with dots",
			input: `[options.extras_require]
dev = pytest`,
			want: &File{
				Sections: map[string]*Section{
					"options.extras_require": {
						Name: "options.extras_require",
						Values: map[string]string{
							"dev": "pytest",
						},
					},
				},
			},
		},
		{
			name:    "unclosed section header",
			input:   `[section`,
			wantErr: true,
		},
		{
			name:    "no separator",
			input:   `key without separator`,
			wantErr: true,
		},
		{
			name:    "empty key",
			input:   `= value`,
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tc.input))
			if (err != nil) != tc.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tc.wantErr)
				return
			}
			if tc.wantErr {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetValueOptionFolding(t *testing.T) {
	input := `[metadata]
author-email = jane@example.org
Home_Page = https://example.org`
	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if v, ok := file.GetValue("metadata", "author_email"); !ok || v != "jane@example.org" {
		t.Errorf("GetValue(author_email) = %q, %v, want jane@example.org, true", v, ok)
	}
	if v, ok := file.GetValue("metadata", "home-page"); !ok || v != "https://example.org" {
		t.Errorf("GetValue(home-page) = %q, %v, want https://example.org, true", v, ok)
	}
	if v, ok := file.GetValue("metadata", "HOME-PAGE"); !ok || v != "https://example.org" {
		t.Errorf("GetValue(HOME-PAGE) = %q, %v, want https://example.org, true", v, ok)
	}
	if _, ok := file.GetValue("metadata", "nonexistent"); ok {
		t.Error("GetValue(nonexistent) should miss")
	}
}

func TestParse_PythonSetupCfgExample(t *testing.T) {
	input := `[metadata]
name = my-package
version = 1.2.3
author = John Doe
long_description = This is a package that
    does amazing things
    across multiple lines

[options]
packages = find:
python_requires = >=3.6
install_requires =
    numpy>=1.19.0
    scipy>=1.5.0

[options.extras_require]
dev =
    pytest>=6.0
    black
test =
    pytest>=6.0
    coverage`
	want := &File{
		Sections: map[string]*Section{
			"metadata": {
				Name: "metadata",
				Values: map[string]string{
					"name":             "my-package",
					"version":          "1.2.3",
					"author":           "John Doe",
					"long_description": "This is a package that\ndoes amazing things\nacross multiple lines",
				},
			},
			"options": {
				Name: "options",
				Values: map[string]string{
					"packages":         "find:",
					"python_requires":  ">=3.6",
					"install_requires": "\nnumpy>=1.19.0\nscipy>=1.5.0",
				},
			},
			"options.extras_require": {
				Name: "options.extras_require",
				Values: map[string]string{
					"dev":  "\npytest>=6.0\nblack",
					"test": "\npytest>=6.0\ncoverage",
				},
			},
		},
	}
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}
