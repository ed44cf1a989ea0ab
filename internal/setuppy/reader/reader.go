// Package reader implements the Reader (spec.md §4.3): composes the INI
// Analyzer and Script Analyzer, applies legacy-backend (pbr) compatibility,
// remaps package_dir, populates packages_dict, and materializes
// source_mapping.
package reader

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/discover"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/iniread"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/record"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/script"
)

const (
	iniFilename    = "setup.cfg"
	scriptFilename = "setup.py"
	// LegacyMetadataVersion is the metadata_version the legacy backend
	// always reports (§3 invariant a).
	LegacyMetadataVersion = "2.1"
)

// Read runs the full Reader algorithm against the directory at root and
// returns the merged, laid-out MetadataRecord.
func Read(root string) (*record.MetadataRecord, error) {
	rec, err := mergeAnalyzers(root)
	if err != nil {
		return nil, err
	}
	rec.MetadataVersion = LegacyMetadataVersion

	applyPBRCompat(rec)
	packageDir := normalizedPackageDir(rec)
	populatePackagesDict(rec, root, packageDir)
	materializeSourceMapping(rec, root, packageDir)

	return rec, nil
}

// mergeAnalyzers implements steps 1-2: run the INI Analyzer if setup.cfg
// exists, run the Script Analyzer if setup.py exists, and overlay every
// truthy slot of the script record onto the INI record.
func mergeAnalyzers(root string) (*record.MetadataRecord, error) {
	rec := record.New()

	iniPath := filepath.Join(root, iniFilename)
	if data, err := os.ReadFile(iniPath); err == nil {
		parsed, err := iniread.Analyze(strings.NewReader(string(data)))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", iniPath)
		}
		rec = parsed
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading %s", iniPath)
	}

	scriptPath := filepath.Join(root, scriptFilename)
	if data, err := os.ReadFile(scriptPath); err == nil {
		scriptRec, err := script.Analyze(scriptPath, data)
		if err != nil {
			return nil, errors.Wrapf(err, "analyzing %s", scriptPath)
		}
		Overlay(rec, scriptRec)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading %s", scriptPath)
	}

	return rec, nil
}

// Overlay copies every truthy slot of src onto dst, per §4.3 step 2 and
// Testable Property 2 (override monotonicity): an all-unset src is a no-op.
func Overlay(dst, src *record.MetadataRecord) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Version != "" {
		dst.Version = src.Version
	}
	if src.Summary != "" {
		dst.Summary = src.Summary
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.DescriptionContentType != "" {
		dst.DescriptionContentType = src.DescriptionContentType
	}
	if src.HomePage != "" {
		dst.HomePage = src.HomePage
	}
	if src.License != "" {
		dst.License = src.License
	}
	if src.Author != "" {
		dst.Author = src.Author
	}
	if src.AuthorEmail != "" {
		dst.AuthorEmail = src.AuthorEmail
	}
	if src.Maintainer != "" {
		dst.Maintainer = src.Maintainer
	}
	if src.MaintainerEmail != "" {
		dst.MaintainerEmail = src.MaintainerEmail
	}
	if src.RequiresPython != "" {
		dst.RequiresPython = src.RequiresPython
	}
	if len(src.Keywords) > 0 {
		dst.Keywords = src.Keywords
	}
	if len(src.Classifiers) > 0 {
		dst.Classifiers = src.Classifiers
	}
	if len(src.RequiresDist) > 0 {
		dst.RequiresDist = src.RequiresDist
	}
	if len(src.ProjectURLs) > 0 {
		dst.ProjectURLs = src.ProjectURLs
	}
	if len(src.EntryPoints) > 0 {
		dst.EntryPoints = src.EntryPoints
	}
	if src.Packages.IsSet() && src.Packages.Kind != record.PackagesUnresolvable {
		dst.Packages = src.Packages
	}
	if len(src.PackageDir) > 0 {
		dst.PackageDir = src.PackageDir
	}
	if src.PackageDirUnresolvable {
		dst.PackageDirUnresolvable = true
	}
	if len(src.PyModules) > 0 {
		dst.PyModules = src.PyModules
	}
	if len(src.SetupRequires) > 0 {
		dst.SetupRequires = src.SetupRequires
	}
	if len(src.TestsRequire) > 0 {
		dst.TestsRequire = src.TestsRequire
	}
	if len(src.ExtrasRequire) > 0 {
		dst.ExtrasRequire = src.ExtrasRequire
	}
	if src.ZipSafe.Set && src.ZipSafe.Value {
		dst.ZipSafe = src.ZipSafe
	}
	if src.IncludePackageData.Set && src.IncludePackageData.Value {
		dst.IncludePackageData = src.IncludePackageData
	}
	if src.UseSCMVersion.Set && src.UseSCMVersion.Value {
		dst.UseSCMVersion = src.UseSCMVersion
	}
	if src.PBR.Set && src.PBR.Value {
		dst.PBR = src.PBR
	}
	if src.PBRSkipAuthors.Set && src.PBRSkipAuthors.Value {
		dst.PBRSkipAuthors = src.PBRSkipAuthors
	}
	if src.PBRSkipChangelog.Set && src.PBRSkipChangelog.Value {
		dst.PBRSkipChangelog = src.PBRSkipChangelog
	}
	if len(src.PackageData) > 0 {
		dst.PackageData = src.PackageData
	}
	if len(src.ExcludePackageData) > 0 {
		dst.ExcludePackageData = src.ExcludePackageData
	}
	if len(src.DataFiles) > 0 {
		dst.DataFiles = src.DataFiles
	}
	if len(src.LicenseFiles) > 0 {
		dst.LicenseFiles = src.LicenseFiles
	}
	if src.CmdClass.Truthy() {
		dst.CmdClass = src.CmdClass
	}
	if len(src.PBRPackages) > 0 {
		dst.PBRPackages = src.PBRPackages
	}
	if src.PBRPackagesRoot != "" {
		dst.PBRPackagesRoot = src.PBRPackagesRoot
	}
	if src.FindPackagesWhere != "" {
		dst.FindPackagesWhere = src.FindPackagesWhere
	}
	if len(src.FindPackagesExclude) > 0 {
		dst.FindPackagesExclude = src.FindPackagesExclude
	}
	if len(src.FindPackagesInclude) > 0 {
		dst.FindPackagesInclude = src.FindPackagesInclude
	}
}

// applyPBRCompat implements §4.3 step 3.
func applyPBRCompat(rec *record.MetadataRecord) {
	noPackages := rec.Packages.Kind == record.PackagesExplicit && len(rec.Packages.Explicit) == 0
	if !(rec.PBR.Set && rec.PBR.Value) && !(len(rec.PBRPackages) > 0 && noPackages) {
		return
	}
	if rec.PBRPackagesRoot != "" {
		rec.PackageDir = map[string]string{"": rec.PBRPackagesRoot}
	}
	if len(rec.PBRPackages) > 0 {
		rec.Packages = record.Packages{Kind: record.PackagesExplicit, Explicit: rec.PBRPackages}
		return
	}
	root := rec.PBRPackagesRoot
	rec.Packages = record.Packages{Kind: record.PackagesDiscover, Where: root, Include: []string{"*"}}
}

// normalizedPackageDir implements §4.3 step 4's normalization: empty ->
// {"" -> "."}. Returns nil (meaning "skip remapping") when the script
// reported package_dir as Unresolvable.
func normalizedPackageDir(rec *record.MetadataRecord) map[string]string {
	if rec.PackageDirUnresolvable {
		return nil
	}
	if len(rec.PackageDir) == 0 {
		return map[string]string{"": "."}
	}
	return rec.PackageDir
}

// mangle implements §4.3 step 4's package_dir composition (and Testable
// Property 5): the longest dotted prefix of dotted present as a key in
// packageDir supplies the base path; the remaining dotted components are
// appended and the whole thing is POSIX-joined and cleaned.
func mangle(packageDir map[string]string, dotted string) string {
	prefix, rest := longestPrefix(packageDir, dotted)
	base, ok := packageDir[prefix]
	if !ok {
		base = "."
	}
	var full string
	if rest == "" {
		full = base
	} else {
		full = path.Join(base, strings.ReplaceAll(rest, ".", "/"))
	}
	return path.Clean(full)
}

// longestPrefix finds the longest dotted prefix of dotted (including the
// empty prefix) that is a key of packageDir, per design note "implement as
// iteration over prefixes of decreasing dotted length, not as a trie".
func longestPrefix(packageDir map[string]string, dotted string) (prefix, rest string) {
	parts := strings.Split(dotted, ".")
	for i := len(parts); i >= 0; i-- {
		candidate := strings.Join(parts[:i], ".")
		if _, ok := packageDir[candidate]; ok {
			remainder := strings.Join(parts[i:], ".")
			return candidate, remainder
		}
	}
	return "", dotted
}

// populatePackagesDict implements §4.3 step 5.
func populatePackagesDict(rec *record.MetadataRecord, root string, packageDir map[string]string) {
	if packageDir == nil {
		return
	}
	dict := map[string]string{}
	switch rec.Packages.Kind {
	case record.PackagesDiscover:
		found, err := discover.Packages(root, rec.Packages.Where, rec.Packages.Exclude, rec.Packages.Include)
		if err != nil {
			return
		}
		for _, p := range found {
			dict[p] = mangle(packageDir, p)
		}
	case record.PackagesFindMarker:
		include := rec.FindPackagesInclude
		if len(include) == 0 {
			include = []string{"*"}
		}
		found, err := discover.Packages(root, rec.FindPackagesWhere, rec.FindPackagesExclude, include)
		if err != nil {
			return
		}
		for _, p := range found {
			dict[p] = mangle(packageDir, p)
		}
	case record.PackagesExplicit:
		for _, p := range rec.Packages.Explicit {
			dict[p] = mangle(packageDir, p)
		}
	}
	if len(dict) > 0 {
		rec.PackagesDict = dict
	}
}

// materializeSourceMapping implements §4.3 step 6.
func materializeSourceMapping(rec *record.MetadataRecord, root string, packageDir map[string]string) {
	mapping := map[string]string{}

	for _, m := range rec.PyModules {
		if m == "" {
			continue
		}
		p := strings.ReplaceAll(m, ".", "/") + ".py"
		mapping[p] = p
	}

	type entry struct {
		dotted string
		dir    string
	}
	entries := make([]entry, 0, len(rec.PackagesDict))
	for k, v := range rec.PackagesDict {
		entries = append(entries, entry{dotted: k, dir: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].dir) != len(entries[j].dir) {
			return len(entries[i].dir) > len(entries[j].dir)
		}
		return entries[i].dir > entries[j].dir
	})

	claimed := map[string]bool{}
	for _, e := range entries {
		installBase := strings.ReplaceAll(e.dotted, ".", "/")
		sourceDir := filepath.Join(root, e.dir)
		err := filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(sourceDir, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			install := path.Join(installBase, rel)
			if claimed[install] {
				return nil
			}
			claimed[install] = true
			mapping[install] = path.Join(e.dir, rel)
			return nil
		})
		if err != nil {
			rec.SourceMapping = nil
			rec.SourceMappingSet = false
			return
		}
	}

	rec.SourceMapping = mapping
	rec.SourceMappingSet = true
}
