package extract

import (
	"strings"

	"github.com/standardbeagle/lix/internal/parser"
	"github.com/standardbeagle/lix/internal/stdlib"
)

// pythonLibraries handles both absolute and relative Python imports.
// Absolute imports contribute their first dotted segment as a raw
// dependency. Relative imports never become raw dependencies; each one
// resolves exactly one first-party name instead.
func (x *Extractor) pythonLibraries(source []byte) (*ImportedLibraries, error) {
	captures, err := x.engine.ImportCaptures(parser.LanguagePython, source)
	if err != nil {
		return nil, err
	}

	rawDeps := NewSet()
	firstParty := NewSet()

	// A bare relative marker (from . import x) names no submodule, so
	// its first-party name comes from the first imported name. The
	// anchor/name captures share a query match; collect the earliest
	// name seen for each marker position.
	anchorByMatch := make(map[uint]uint)
	nameByMatch := make(map[uint]parser.Capture)
	for _, c := range captures {
		switch c.Name {
		case "relative.anchor":
			anchorByMatch[c.Match] = c.Start
		case "relative.name":
			if prev, seen := nameByMatch[c.Match]; !seen || c.Start < prev.Start {
				nameByMatch[c.Match] = c
			}
		}
	}

	firstNameAt := make(map[uint]parser.Capture)
	for match, anchorStart := range anchorByMatch {
		name, ok := nameByMatch[match]
		if !ok {
			continue
		}
		if prev, seen := firstNameAt[anchorStart]; !seen || name.Start < prev.Start {
			firstNameAt[anchorStart] = name
		}
	}

	for _, c := range captures {
		switch c.Name {
		case "module":
			rawDeps.Add(firstDotSegment(c.Text))

		case "relative":
			// from .sub.mod import x resolves through the marker itself;
			// from . import x falls back to the imported name.
			if rest := strings.TrimLeft(c.Text, "."); rest != "" {
				firstParty.Add(firstDotSegment(rest))
			} else if name, ok := firstNameAt[c.Start]; ok {
				firstParty.Add(firstDotSegment(name.Text))
			}
		}
	}

	return categorize(rawDeps, stdlib.Python(), firstParty, nil), nil
}

// firstDotSegment returns everything before the first dot.
func firstDotSegment(s string) string {
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		return s[:idx]
	}
	return s
}
