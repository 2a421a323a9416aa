package extract

// ImportedLibraries is the result of one extraction: every referenced
// library partitioned into three pairwise-disjoint sets. An identifier
// never appears in more than one category.
type ImportedLibraries struct {
	Stdlib     Set `json:"stdlib" yaml:"stdlib"`
	ThirdParty Set `json:"third_party" yaml:"third_party"`
	FirstParty Set `json:"first_party" yaml:"first_party"`
}

// NewImportedLibraries returns a result with all three sets empty.
func NewImportedLibraries() *ImportedLibraries {
	return &ImportedLibraries{
		Stdlib:     NewSet(),
		ThirdParty: NewSet(),
		FirstParty: NewSet(),
	}
}

// Count returns the total number of classified identifiers.
func (l *ImportedLibraries) Count() int {
	return len(l.Stdlib) + len(l.ThirdParty) + len(l.FirstParty)
}

// Empty reports whether no identifiers were found at all.
func (l *ImportedLibraries) Empty() bool {
	return l.Count() == 0
}

// Equal reports whether both results contain the same identifiers in the
// same categories.
func (l *ImportedLibraries) Equal(other *ImportedLibraries) bool {
	return l.Stdlib.Equal(other.Stdlib) &&
		l.ThirdParty.Equal(other.ThirdParty) &&
		l.FirstParty.Equal(other.FirstParty)
}

// Merge folds another result into this one, preserving disjointness.
// When the same identifier was classified differently across inputs,
// first-party evidence wins over a stdlib or third-party verdict, and a
// stdlib verdict wins over third-party.
func (l *ImportedLibraries) Merge(other *ImportedLibraries) {
	if other == nil {
		return
	}
	for name := range other.FirstParty {
		l.FirstParty.Add(name)
	}
	for name := range other.Stdlib {
		l.Stdlib.Add(name)
	}
	for name := range other.ThirdParty {
		l.ThirdParty.Add(name)
	}

	for name := range l.FirstParty {
		delete(l.Stdlib, name)
		delete(l.ThirdParty, name)
	}
	for name := range l.Stdlib {
		delete(l.ThirdParty, name)
	}
}
