package script

import (
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/record"
)

// fromArgs folds a keyword -> evaluated Value map (the installer call's
// captured arguments) into a MetadataRecord. Each slot is populated from its
// Value only when the value resolves to the Go shape the slot expects;
// anything else (including Unresolvable) leaves the slot at its zero value,
// which the Reader's override step (§4.3) then treats as "script did not
// set this" since it is falsey.
func fromArgs(args map[string]record.Value) *record.MetadataRecord {
	r := record.New()

	setStr := func(dst *string, key string) {
		if v, ok := args[key]; ok {
			if s, ok := v.String(); ok {
				*dst = s
			}
		}
	}
	setList := func(dst *[]string, key string) {
		if v, ok := args[key]; ok {
			*dst = v.Strings()
		}
	}
	setBool := func(dst *record.OptBool, key string) {
		if v, ok := args[key]; ok {
			if b, ok := v.Bool(); ok {
				*dst = record.SetBool(b)
			}
		}
	}

	setStr(&r.Name, "name")
	setStr(&r.Version, "version")
	setStr(&r.Summary, "description")
	setStr(&r.Description, "long_description")
	setStr(&r.DescriptionContentType, "long_description_content_type")
	setStr(&r.HomePage, "url")
	setStr(&r.License, "license")
	setStr(&r.Author, "author")
	setStr(&r.AuthorEmail, "author_email")
	setStr(&r.Maintainer, "maintainer")
	setStr(&r.MaintainerEmail, "maintainer_email")
	setStr(&r.RequiresPython, "python_requires")
	setStr(&r.PBRPackagesRoot, "pbr_packages_root")

	setList(&r.Keywords, "keywords")
	setList(&r.Classifiers, "classifiers")
	setList(&r.RequiresDist, "install_requires")
	setList(&r.SetupRequires, "setup_requires")
	setList(&r.TestsRequire, "tests_require")
	setList(&r.PyModules, "py_modules")
	setList(&r.LicenseFiles, "license_files")
	setList(&r.PBRPackages, "pbr_packages")

	if s, ok := args["license_file"]; ok {
		if v, ok := s.String(); ok && v != "" {
			r.LicenseFiles = append(r.LicenseFiles, v)
		}
	}

	setBool(&r.ZipSafe, "zip_safe")
	setBool(&r.IncludePackageData, "include_package_data")
	setBool(&r.UseSCMVersion, "use_scm_version")
	setBool(&r.PBR, "pbr")
	setBool(&r.PBRSkipAuthors, "pbr_skip_authors")
	setBool(&r.PBRSkipChangelog, "pbr_skip_changelog")

	if v, ok := args["project_urls"]; ok {
		if d, ok := v.Dict(); ok {
			for _, k := range v.SortedKeys() {
				if url, ok := d[k].String(); ok {
					r.ProjectURLs = append(r.ProjectURLs, record.ProjectURL{Label: k, URL: url})
				}
			}
		}
	}

	if v, ok := args["entry_points"]; ok {
		if d, ok := v.Dict(); ok {
			eps := make(record.EntryPoints, len(d))
			for group, lines := range d {
				eps[group] = lines.Strings()
			}
			r.EntryPoints = eps
		}
	}

	if v, ok := args["extras_require"]; ok {
		if d, ok := v.Dict(); ok {
			extras := make(map[string][]string, len(d))
			for extra, reqs := range d {
				extras[extra] = reqs.Strings()
			}
			r.ExtrasRequire = extras
		}
	}

	if v, ok := args["package_dir"]; ok {
		if d, ok := v.Dict(); ok {
			pd := make(map[string]string, len(d))
			for k, vv := range d {
				if s, ok := vv.String(); ok {
					pd[k] = s
				}
			}
			r.PackageDir = pd
		} else if v.IsUnresolvable() {
			r.PackageDirUnresolvable = true
		}
	}

	if v, ok := args["cmdclass"]; ok {
		r.CmdClass = v
	}

	setPackages(r, args)

	return r
}

// setPackages populates r.Packages per the three constructors named in
// §4.2/§4.3: an explicit list, the `["find:"]` legacy marker, or the
// Discover variant produced by evaluateDiscoveryCall.
func setPackages(r *record.MetadataRecord, args map[string]record.Value) {
	v, ok := args["packages"]
	if !ok {
		return
	}
	if v.IsUnresolvable() {
		r.Packages = record.Packages{Kind: record.PackagesUnresolvable}
		return
	}
	if p, ok := v.Interface().(record.Packages); ok {
		r.Packages = p
		return
	}
	strs := v.Strings()
	if len(strs) == 1 && strs[0] == "find:" {
		r.Packages = record.Packages{Kind: record.PackagesFindMarker}
		return
	}
	r.Packages = record.Packages{Kind: record.PackagesExplicit, Explicit: strs}
}
