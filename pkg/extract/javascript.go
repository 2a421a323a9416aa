package extract

import (
	"strings"

	"github.com/standardbeagle/lix/internal/parser"
	"github.com/standardbeagle/lix/internal/stdlib"
)

// javascriptLibraries collects import statement sources and the string
// argument of require() calls. TypeScript goes through the same path
// with its own grammar; the import shapes are identical.
func (x *Extractor) javascriptLibraries(source []byte, lang parser.Language) (*ImportedLibraries, error) {
	captures, err := x.engine.ImportCaptures(lang, source)
	if err != nil {
		return nil, err
	}

	rawDeps := NewSet()
	firstParty := NewSet()

	// The callee and its argument are captured in the same query match,
	// so require() arguments bind directly instead of by list position.
	calleeByMatch := make(map[uint]string)
	argByMatch := make(map[uint]string)
	for _, c := range captures {
		switch c.Name {
		case "source":
			addImportPath(c.Text, rawDeps, firstParty)
		case "require.callee":
			calleeByMatch[c.Match] = c.Text
		case "require.arg":
			argByMatch[c.Match] = c.Text
		}
	}

	for match, callee := range calleeByMatch {
		if callee != "require" {
			continue
		}
		if arg, ok := argByMatch[match]; ok {
			addImportPath(arg, rawDeps, firstParty)
		}
	}

	return categorize(rawDeps, nil, firstParty, stdlib.IsNodeBuiltin), nil
}

// addImportPath routes one quoted import path into the raw-dependency
// or first-party set. Relative and absolute paths resolve to a file
// stem; bare specifiers resolve to a package name, keeping both
// segments of @scope/name packages.
func addImportPath(quoted string, rawDeps, firstParty Set) {
	p := strings.Trim(quoted, `"'`)
	if p == "" {
		return
	}

	if strings.HasPrefix(p, ".") || strings.HasPrefix(p, "/") {
		stem := fileStem(p)
		// index files name their directory, not a module.
		if stem == "" || stem == "index" {
			return
		}
		firstParty.Add(stem)
		return
	}

	name := p
	if idx := strings.IndexByte(p, '/'); idx >= 0 {
		if strings.HasPrefix(p, "@") {
			if second := strings.IndexByte(p[idx+1:], '/'); second >= 0 {
				name = p[:idx+1+second]
			}
		} else {
			name = p[:idx]
		}
	}
	if name != "" {
		rawDeps.Add(name)
	}
}
