// Package iniread implements the INI Analyzer (spec.md §4.1/§4.3 step 1):
// it parses setup.cfg, walks the Field Schema, and decodes each present
// field into a MetadataRecord using the codec package.
package iniread

import (
	"io"

	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/codec"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/ini"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/record"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/schema"
)

// Analyze parses r as setup.cfg and returns the MetadataRecord populated
// from every Field Schema entry present in it.
func Analyze(r io.Reader) (*record.MetadataRecord, error) {
	file, err := ini.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromFile(file), nil
}

// FromFile walks the Field Schema against an already-parsed INI file.
func FromFile(file *ini.File) *record.MetadataRecord {
	rec := record.New()
	for _, f := range schema.Fields {
		applyField(rec, file, f)
	}
	return rec
}

func applyField(rec *record.MetadataRecord, file *ini.File, f schema.Field) {
	if f.INISection == "" {
		return // script-only slot, e.g. cmdclass, pbr, use_scm_version
	}
	switch f.Codec {
	case schema.Section:
		sec := file.GetSection(f.INISection)
		assignSection(rec, f.Slot(), codec.DecodeSection(sec))
		return
	}
	raw, ok := file.GetValue(f.INISection, f.INIKey)
	if !ok {
		return
	}
	switch f.Codec {
	case schema.Str:
		assignStr(rec, f.Slot(), codec.DecodeStr(raw))
	case schema.ListNewline, schema.ListNewlineCompat:
		assignList(rec, f.Slot(), codec.DecodeList(raw))
	case schema.Dict:
		assignStrDict(rec, f.Slot(), codec.DecodeDict(raw))
	case schema.Bool:
		if v, ok := codec.DecodeBool(raw); ok {
			assignBool(rec, f.Slot(), v)
		}
	}
}

func assignStr(rec *record.MetadataRecord, slot, v string) {
	switch slot {
	case "name":
		rec.Name = v
	case "version":
		rec.Version = v
	case "description":
		rec.Summary = v
	case "long_description":
		rec.Description = v
	case "long_description_content_type":
		rec.DescriptionContentType = v
	case "url":
		rec.HomePage = v
	case "license":
		rec.License = v
	case "license_file":
		if v != "" {
			rec.LicenseFiles = append(rec.LicenseFiles, v)
		}
	case "author":
		rec.Author = v
	case "author_email":
		rec.AuthorEmail = v
	case "maintainer":
		rec.Maintainer = v
	case "maintainer_email":
		rec.MaintainerEmail = v
	case "requires_python":
		rec.RequiresPython = v
	case "pbr_packages_root":
		rec.PBRPackagesRoot = v
	}
}

func assignList(rec *record.MetadataRecord, slot string, v []string) {
	switch slot {
	case "keywords":
		rec.Keywords = v
	case "classifiers":
		rec.Classifiers = v
	case "requires_dist":
		rec.RequiresDist = v
	case "setup_requires":
		rec.SetupRequires = v
	case "tests_require":
		rec.TestsRequire = v
	case "license_files":
		rec.LicenseFiles = append(rec.LicenseFiles, v...)
	case "py_modules":
		rec.PyModules = v
	case "packages_raw":
		if len(v) == 1 && v[0] == "find:" {
			rec.Packages = record.Packages{Kind: record.PackagesFindMarker}
		} else {
			rec.Packages = record.Packages{Kind: record.PackagesExplicit, Explicit: v}
		}
	case "pbr_packages":
		rec.PBRPackages = v
	}
}

func assignStrDict(rec *record.MetadataRecord, slot string, v map[string]string) {
	switch slot {
	case "project_urls":
		for _, k := range sortedKeys(v) {
			rec.ProjectURLs = append(rec.ProjectURLs, record.ProjectURL{Label: k, URL: v[k]})
		}
	case "package_dir":
		rec.PackageDir = v
	case "cmdclass":
		// cmdclass has no INI representation; unreachable via this path.
	}
}

func assignBool(rec *record.MetadataRecord, slot string, v bool) {
	switch slot {
	case "zip_safe":
		rec.ZipSafe = record.SetBool(v)
	case "include_package_data":
		rec.IncludePackageData = record.SetBool(v)
	}
}

func assignSection(rec *record.MetadataRecord, slot string, v map[string][]string) {
	if v == nil {
		return
	}
	switch slot {
	case "extras_require":
		rec.ExtrasRequire = v
	case "entry_points":
		rec.EntryPoints = record.EntryPoints(v)
	case "package_data":
		rec.PackageData = v
	case "exclude_package_data":
		rec.ExcludePackageData = v
	case "data_files":
		rec.DataFiles = v
	case "packages_find":
		if where, ok := v["where"]; ok && len(where) > 0 {
			rec.FindPackagesWhere = where[0]
		}
		rec.FindPackagesExclude = v["exclude"]
		rec.FindPackagesInclude = v["include"]
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
