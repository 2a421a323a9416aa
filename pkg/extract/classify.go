package extract

// categorize partitions raw dependency strings into stdlib and
// third-party, then attaches the extractor-resolved first-party names.
// A raw dependency that also appears in firstParty is dropped from
// classification entirely, which is what keeps the three result sets
// disjoint. When a predicate is supplied it replaces the registry
// lookup; otherwise membership in stdlibSet decides.
func categorize(rawDeps Set, stdlibSet map[string]bool, firstParty Set, stdlibPredicate func(string) bool) *ImportedLibraries {
	result := NewImportedLibraries()

	for dep := range rawDeps {
		if firstParty.Contains(dep) {
			continue
		}

		var isStdlib bool
		if stdlibPredicate != nil {
			isStdlib = stdlibPredicate(dep)
		} else {
			isStdlib = stdlibSet[dep]
		}

		if isStdlib {
			result.Stdlib.Add(dep)
		} else {
			result.ThirdParty.Add(dep)
		}
	}

	for name := range firstParty {
		result.FirstParty.Add(name)
	}

	return result
}
