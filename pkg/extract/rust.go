package extract

import (
	"strings"

	"github.com/standardbeagle/lix/internal/parser"
	"github.com/standardbeagle/lix/internal/stdlib"
)

// rustLibraries reads the argument of each use declaration. Paths
// rooted at crate, self, or super stay inside the current crate, so
// they resolve to a first-party name; anything else names an external
// crate by its first path segment.
func (x *Extractor) rustLibraries(source []byte) (*ImportedLibraries, error) {
	captures, err := x.engine.ImportCaptures(parser.LanguageRust, source)
	if err != nil {
		return nil, err
	}

	rawDeps := NewSet()
	firstParty := NewSet()

	for _, c := range captures {
		if c.Name != "use.clause" {
			continue
		}
		segments := strings.Split(c.Text, "::")
		switch cleanPathSegment(segments[0]) {
		case "crate", "self", "super":
			// use crate::utils::helpers names the local module utils.
			// A bare keyword carries no module name.
			if len(segments) > 1 {
				if name := cleanPathSegment(segments[1]); name != "" {
					firstParty.Add(name)
				}
			}
		case "":
			// Leading :: or a top-level brace list has no usable
			// leading segment.
		default:
			rawDeps.Add(cleanPathSegment(segments[0]))
		}
	}

	return categorize(rawDeps, stdlib.Rust(), firstParty, nil), nil
}

// cleanPathSegment cuts rename suffixes and brace-list openers off a
// :: path segment.
func cleanPathSegment(seg string) string {
	if idx := strings.Index(seg, " as "); idx >= 0 {
		seg = seg[:idx]
	}
	if idx := strings.IndexByte(seg, '{'); idx >= 0 {
		seg = seg[:idx]
	}
	return strings.TrimSpace(seg)
}
