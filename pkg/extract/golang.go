package extract

import (
	"strings"

	"github.com/standardbeagle/lix/internal/parser"
	"github.com/standardbeagle/lix/internal/stdlib"
)

// goLibraries reads import spec paths. Paths are kept verbatim after
// quote stripping; a path without dots or slashes is standard library.
func (x *Extractor) goLibraries(source []byte) (*ImportedLibraries, error) {
	captures, err := x.engine.ImportCaptures(parser.LanguageGo, source)
	if err != nil {
		return nil, err
	}

	rawDeps := NewSet()
	for _, c := range captures {
		if c.Name != "import.path" {
			continue
		}
		path := strings.Trim(c.Text, "\"`")
		if path == "" {
			continue
		}
		rawDeps.Add(path)
	}

	return categorize(rawDeps, nil, NewSet(), stdlib.IsGoStdlib), nil
}
