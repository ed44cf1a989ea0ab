// Package schema holds the static Field Schema (spec.md §4.1): a flat,
// ordered table mapping each recognized installer keyword to its INI
// section/key and the codec used to move between INI text and a typed
// value.
package schema

// Codec names the reader/writer pair used for a field's INI representation.
// Round-trip laws (from_ini ∘ to_ini = id) hold for every codec over the
// canonical form of its domain.
type Codec int

const (
	// Str is the identity codec.
	Str Codec = iota
	// ListNewline encodes a list one element per line, 2-space indented,
	// with a leading newline before the first element.
	ListNewline
	// ListNewlineCompat reads identically to ListNewline but also accepts a
	// single scalar string on write, treating it as a 1-element list.
	ListNewlineCompat
	// Dict encodes `key=value` lines, whitespace-trimmed around `=`.
	Dict
	// Bool encodes `true`/`false`, case-insensitive on read.
	Bool
	// Section reads an entire INI subsection as a mapping of key to a
	// newline-split list of values.
	Section
)

// Field is one immutable entry of the Field Schema.
type Field struct {
	// Keyword is the installer-call argument name, e.g. "install_requires".
	Keyword string
	// INISection and INIKey locate the field within setup.cfg. Both empty
	// means the field has no direct INI representation (it is only ever
	// set by the installer script, e.g. "cmdclass").
	INISection string
	INIKey     string
	Codec      Codec
	// StorageSlot names the MetadataRecord field when it differs from
	// Keyword; most fields don't need this.
	StorageSlot string
	// Sample is an example value in the field's codec domain. No code or
	// test in this module reads it.
	Sample string
}

// Slot returns the record storage-slot name for f: StorageSlot if set,
// otherwise Keyword.
func (f Field) Slot() string {
	if f.StorageSlot != "" {
		return f.StorageSlot
	}
	return f.Keyword
}

// Fields is the ordered Field Schema. Order matches the conventional layout
// of a setup.cfg: [metadata] fields first, then [options].
var Fields = []Field{
	{Keyword: "name", INISection: "metadata", INIKey: "name", Codec: Str, Sample: "foo"},
	{Keyword: "version", INISection: "metadata", INIKey: "version", Codec: Str, Sample: "1.0.0"},
	{Keyword: "description", INISection: "metadata", INIKey: "description", Codec: Str, Sample: "a short summary"},
	{Keyword: "long_description", INISection: "metadata", INIKey: "long_description", Codec: Str, Sample: "a longer description"},
	{Keyword: "long_description_content_type", INISection: "metadata", INIKey: "long_description_content_type", Codec: Str, Sample: "text/markdown"},
	{Keyword: "url", INISection: "metadata", INIKey: "url", Codec: Str, Sample: "https://example.org"},
	{Keyword: "license", INISection: "metadata", INIKey: "license", Codec: Str, Sample: "MIT"},
	{Keyword: "license_file", INISection: "metadata", INIKey: "license_file", Codec: Str, StorageSlot: "license_file", Sample: "LICENSE"},
	{Keyword: "license_files", INISection: "metadata", INIKey: "license_files", Codec: ListNewlineCompat, Sample: "LICENSE"},
	{Keyword: "author", INISection: "metadata", INIKey: "author", Codec: Str, Sample: "Jane Doe"},
	{Keyword: "author_email", INISection: "metadata", INIKey: "author_email", Codec: Str, Sample: "jane@example.org"},
	{Keyword: "maintainer", INISection: "metadata", INIKey: "maintainer", Codec: Str, Sample: "John Roe"},
	{Keyword: "maintainer_email", INISection: "metadata", INIKey: "maintainer_email", Codec: Str, Sample: "john@example.org"},
	{Keyword: "keywords", INISection: "metadata", INIKey: "keywords", Codec: ListNewlineCompat, Sample: "abc"},
	{Keyword: "classifiers", INISection: "metadata", INIKey: "classifiers", Codec: ListNewline, Sample: "123"},
	{Keyword: "project_urls", INISection: "metadata", INIKey: "project_urls", Codec: Dict, Sample: "Source=https://example.org"},

	{Keyword: "install_requires", INISection: "options", INIKey: "install_requires", Codec: ListNewlineCompat, StorageSlot: "requires_dist", Sample: "abc"},
	{Keyword: "python_requires", INISection: "options", INIKey: "python_requires", Codec: Str, StorageSlot: "requires_python", Sample: ">=3.8"},
	{Keyword: "setup_requires", INISection: "options", INIKey: "setup_requires", Codec: ListNewlineCompat, Sample: "def"},
	{Keyword: "tests_require", INISection: "options", INIKey: "tests_require", Codec: ListNewlineCompat, Sample: "pytest"},
	{Keyword: "extras_require", INISection: "options.extras_require", Codec: Section, Sample: "dev"},
	{Keyword: "entry_points", INISection: "options.entry_points", Codec: Section, Sample: "console_scripts"},
	{Keyword: "packages", INISection: "options", INIKey: "packages", Codec: ListNewlineCompat, StorageSlot: "packages_raw", Sample: "pkg"},
	{Keyword: "packages_find", INISection: "options.packages.find", Codec: Section, StorageSlot: "packages_find", Sample: "where"},
	{Keyword: "package_dir", INISection: "options", INIKey: "package_dir", Codec: Dict, StorageSlot: "package_dir", Sample: "=src"},
	{Keyword: "py_modules", INISection: "options", INIKey: "py_modules", Codec: ListNewlineCompat, Sample: "a"},
	{Keyword: "package_data", INISection: "options.package_data", Codec: Section, StorageSlot: "package_data", Sample: "*"},
	{Keyword: "exclude_package_data", INISection: "options.exclude_package_data", Codec: Section, StorageSlot: "exclude_package_data", Sample: "*"},
	{Keyword: "data_files", INISection: "options.data_files", Codec: Section, StorageSlot: "data_files", Sample: "share/doc"},

	{Keyword: "zip_safe", INISection: "options", INIKey: "zip_safe", Codec: Bool, StorageSlot: "zip_safe", Sample: "false"},
	{Keyword: "include_package_data", INISection: "options", INIKey: "include_package_data", Codec: Bool, StorageSlot: "include_package_data", Sample: "true"},
	{Keyword: "use_scm_version", Codec: Bool, StorageSlot: "use_scm_version", Sample: "true"},
	{Keyword: "pbr", Codec: Bool, StorageSlot: "pbr", Sample: "true"},
	{Keyword: "cmdclass", Codec: Dict, StorageSlot: "cmdclass"},

	{Keyword: "pbr_packages_root", INISection: "files", INIKey: "packages_root", Codec: Str, StorageSlot: "pbr_packages_root", Sample: "src"},
	{Keyword: "pbr_packages", INISection: "files", INIKey: "packages", Codec: ListNewline, StorageSlot: "pbr_packages", Sample: "pkg"},
	{Keyword: "pbr_skip_authors", Codec: Bool, StorageSlot: "pbr_skip_authors", Sample: "true"},
	{Keyword: "pbr_skip_changelog", Codec: Bool, StorageSlot: "pbr_skip_changelog", Sample: "true"},
}
