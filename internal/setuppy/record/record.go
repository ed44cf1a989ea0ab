package record

// PackagesKind discriminates the three ways a package list can have been
// specified, plus the Unresolvable case. Modeled as a sum type rather than
// an untyped list, per the core spec's design notes.
type PackagesKind int

const (
	// PackagesExplicit holds a literal list of dotted package names.
	PackagesExplicit PackagesKind = iota
	// PackagesDiscover holds the arguments to the package-discovery helper.
	PackagesDiscover
	// PackagesFindMarker is the `packages=["find:"]` legacy marker, which
	// defers to the `[options.packages.find]` INI subsection.
	PackagesFindMarker
	// PackagesUnresolvable means the analyzer could not determine how
	// packages were specified at all.
	PackagesUnresolvable
)

// Packages is the `packages` slot of a MetadataRecord.
type Packages struct {
	Kind PackagesKind

	// Valid when Kind == PackagesExplicit.
	Explicit []string

	// Valid when Kind == PackagesDiscover.
	Where   string
	Exclude []string
	Include []string
}

// IsSet reports whether Packages carries any information beyond the default
// empty-Explicit value.
func (p Packages) IsSet() bool {
	return p.Kind != PackagesExplicit || len(p.Explicit) > 0
}

// EntryPoints maps a console/GUI entry-point group name to its `name =
// target` lines, as read from `[options.entry_points]` or the `entry_points`
// keyword.
type EntryPoints map[string][]string

// ProjectURL is a single "label=url" pair, matching the external metadata
// representation of `project_urls`.
type ProjectURL struct {
	Label string
	URL   string
}

// OptBool is a tri-state boolean: unset, or explicitly true/false. Needed
// because `zip_safe=False` and `include_package_data=False` are meaningful
// and must still appear in as_dict (see SPEC_FULL.md's additional
// invariant), unlike most other empty/falsey fields.
type OptBool struct {
	Set   bool
	Value bool
}

// SetBool constructs a set OptBool.
func SetBool(v bool) OptBool { return OptBool{Set: true, Value: v} }

// MetadataRecord is the sparse aggregate accumulated by every analyzer. Every
// field is either unset (its typed empty/zero value) or carries a value; see
// spec.md §3 for the full invariant list.
type MetadataRecord struct {
	Name            string
	Version         string
	Summary         string
	Description     string
	License         string
	HomePage        string
	MetadataVersion string

	DescriptionContentType string
	Author                 string
	AuthorEmail            string
	Maintainer             string
	MaintainerEmail        string

	Keywords      []string
	Classifiers   []string
	RequiresDist  []string
	RequiresPython string
	ProvidesExtra []string

	ProjectURLs []ProjectURL

	EntryPoints EntryPoints

	Packages    Packages
	PackageDir  map[string]string
	PackageDirUnresolvable bool
	PackagesDict map[string]string

	// FindPackages carries the `[options.packages.find]` subsection (§6),
	// consulted by the Reader when Packages.Kind == PackagesFindMarker.
	FindPackagesWhere   string
	FindPackagesExclude []string
	FindPackagesInclude []string

	PyModules []string

	SetupRequires []string
	TestsRequire  []string
	ExtrasRequire map[string][]string

	ZipSafe             OptBool
	IncludePackageData  OptBool
	UseSCMVersion       OptBool
	PBR                 OptBool

	// SourceMapping is install-POSIX-path -> source-POSIX-path. A nil map
	// with SourceMappingSet == false means "unset" (I/O failure during
	// materialization, per §7); a non-nil empty map means "computed, empty".
	SourceMapping    map[string]string
	SourceMappingSet bool

	// Legacy-backend (pbr) compatibility fields, read from the `[files]`
	// INI section.
	PBRPackagesRoot string
	PBRPackages     []string

	// Supplemented fields (SPEC_FULL.md "Supplemented features"), not part
	// of the core spec's required-slot table but consistent with it.
	PackageData        map[string][]string
	ExcludePackageData map[string][]string
	DataFiles          map[string][]string
	LicenseFiles        []string
	PBRSkipAuthors      OptBool
	PBRSkipChangelog    OptBool
	CmdClass            Value
}

// New returns an empty MetadataRecord with defaults per spec.md §3: Packages
// defaults to Explicit([]).
func New() *MetadataRecord {
	return &MetadataRecord{
		Packages: Packages{Kind: PackagesExplicit},
	}
}
