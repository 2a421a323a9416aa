package extract

import (
	"path"
	"strings"

	"github.com/standardbeagle/lix/internal/parser"
	"github.com/standardbeagle/lix/internal/stdlib"
)

// rLibraries walks R call expressions and namespace operators. Package
// loads go through library()/require(), file includes through source(),
// and pkg::sym / pkg:::sym accesses count as uses of pkg.
func (x *Extractor) rLibraries(source []byte) (*ImportedLibraries, error) {
	captures, err := x.engine.ImportCaptures(parser.LanguageR, source)
	if err != nil {
		return nil, err
	}

	var callees, args []parser.Capture
	rawDeps := NewSet()
	firstParty := NewSet()

	for _, c := range captures {
		switch c.Name {
		case "callee":
			callees = append(callees, c)
		case "callarg":
			args = append(args, c)
		case "nslhs":
			text := strings.Trim(c.Text, `"'`)
			// A slash or .R suffix means a file path leaked into the
			// operator position, not a package name.
			if text == "" || strings.Contains(text, "/") || strings.HasSuffix(text, ".R") {
				continue
			}
			rawDeps.Add(text)
		}
	}

	for _, callee := range callees {
		switch callee.Text {
		case "library", "require", "source":
		default:
			continue
		}

		arg, ok := closestArgAfter(callee, args, callees)
		if !ok {
			continue
		}

		text := strings.Trim(arg.Text, `"'`)
		if text == "" {
			continue
		}
		if callee.Text == "source" {
			if stem := fileStem(text); stem != "" {
				firstParty.Add(stem)
			}
			continue
		}
		rawDeps.Add(text)
	}

	return categorize(rawDeps, stdlib.R(), firstParty, nil), nil
}

// closestArgAfter picks the argument nearest after the callee, refusing
// the association when another captured callee sits between them. That
// keeps sequences like library(a); require(b) from cross-claiming.
func closestArgAfter(callee parser.Capture, args, callees []parser.Capture) (parser.Capture, bool) {
	var best parser.Capture
	found := false
	for _, arg := range args {
		if arg.Start < callee.End {
			continue
		}
		if !found || arg.Start < best.Start {
			best = arg
			found = true
		}
	}
	if !found {
		return parser.Capture{}, false
	}
	for _, other := range callees {
		if other.Start >= callee.End && other.Start < best.Start {
			return parser.Capture{}, false
		}
	}
	return best, true
}

// fileStem reduces a source() path to its base name without extension.
func fileStem(p string) string {
	base := path.Base(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	switch stem {
	case "", ".", "..", "/":
		return ""
	}
	return stem
}
