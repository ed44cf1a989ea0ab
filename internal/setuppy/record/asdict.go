package record

// AsDict renders r as a map suitable for JSON serialization: every
// empty/falsey slot is omitted, except ZipSafe and IncludePackageData when
// explicitly set to false (see SPEC_FULL.md's additional invariant). The
// Unresolvable sentinel never appears in the output: a record.Value field
// (CmdClass) is included only when it resolved.
func (r *MetadataRecord) AsDict() map[string]any {
	out := map[string]any{}

	putStr := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	putStrList := func(k string, v []string) {
		if len(v) > 0 {
			out[k] = v
		}
	}
	putOptBool := func(k string, v OptBool) {
		if v.Set {
			out[k] = v.Value
		}
	}
	putTrueBool := func(k string, v OptBool) {
		if v.Set && v.Value {
			out[k] = true
		}
	}

	putStr("name", r.Name)
	putStr("version", r.Version)
	putStr("summary", r.Summary)
	putStr("description", r.Description)
	putStr("license", r.License)
	putStr("home_page", r.HomePage)
	putStr("metadata_version", r.MetadataVersion)
	putStr("description_content_type", r.DescriptionContentType)
	putStr("author", r.Author)
	putStr("author_email", r.AuthorEmail)
	putStr("maintainer", r.Maintainer)
	putStr("maintainer_email", r.MaintainerEmail)
	putStr("requires_python", r.RequiresPython)

	putStrList("keywords", r.Keywords)
	putStrList("classifiers", r.Classifiers)
	putStrList("requires_dist", r.RequiresDist)
	putStrList("provides_extra", r.ProvidesExtra)
	putStrList("py_modules", r.PyModules)
	putStrList("setup_requires", r.SetupRequires)
	putStrList("tests_require", r.TestsRequire)
	putStrList("license_files", r.LicenseFiles)

	if len(r.ProjectURLs) > 0 {
		urls := make([]string, 0, len(r.ProjectURLs))
		for _, u := range r.ProjectURLs {
			urls = append(urls, u.Label+"="+u.URL)
		}
		out["project_urls"] = urls
	}

	if len(r.EntryPoints) > 0 {
		out["entry_points"] = map[string][]string(r.EntryPoints)
	}

	if r.Packages.IsSet() && r.Packages.Kind != PackagesUnresolvable {
		out["packages"] = packagesToDict(r.Packages)
	}

	if len(r.PackageDir) > 0 {
		out["package_dir"] = r.PackageDir
	}
	if len(r.PackagesDict) > 0 {
		out["packages_dict"] = r.PackagesDict
	}
	if len(r.ExtrasRequire) > 0 {
		out["extras_require"] = r.ExtrasRequire
	}
	if len(r.PackageData) > 0 {
		out["package_data"] = r.PackageData
	}
	if len(r.ExcludePackageData) > 0 {
		out["exclude_package_data"] = r.ExcludePackageData
	}
	if len(r.DataFiles) > 0 {
		out["data_files"] = r.DataFiles
	}

	putOptBool("zip_safe", r.ZipSafe)
	putOptBool("include_package_data", r.IncludePackageData)
	putTrueBool("use_scm_version", r.UseSCMVersion)
	putTrueBool("pbr", r.PBR)
	putTrueBool("pbr_skip_authors", r.PBRSkipAuthors)
	putTrueBool("pbr_skip_changelog", r.PBRSkipChangelog)

	putStr("pbr_packages_root", r.PBRPackagesRoot)
	putStrList("pbr_packages", r.PBRPackages)

	if !r.CmdClass.IsUnresolvable() {
		if d, ok := r.CmdClass.Dict(); ok {
			rendered := map[string]string{}
			for k, v := range d {
				if s, ok := v.String(); ok {
					rendered[k] = s
				}
			}
			if len(rendered) > 0 {
				out["cmdclass"] = rendered
			}
		}
	}

	if r.SourceMappingSet && len(r.SourceMapping) > 0 {
		out["source_mapping"] = r.SourceMapping
	}

	return out
}

func packagesToDict(p Packages) any {
	switch p.Kind {
	case PackagesDiscover:
		return map[string]any{
			"where":   p.Where,
			"exclude": p.Exclude,
			"include": p.Include,
		}
	case PackagesFindMarker:
		return []string{"find:"}
	case PackagesUnresolvable:
		return nil
	default:
		return p.Explicit
	}
}
