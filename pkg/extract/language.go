// Package extract pulls imported library names out of source text and
// classifies each one as standard-library, third-party, or first-party.
// Six languages are supported: Python, R, Go, Rust, JavaScript, and
// TypeScript. Extraction works on in-memory source; FromFile adds the
// extension-based dispatch on top.
package extract

import (
	"strings"

	"github.com/standardbeagle/lix/internal/parser"
)

// Language is the closed set of languages the extractor understands.
// Using a dedicated type keeps the per-language dispatch exhaustive at
// compile time instead of relying on string lookups.
type Language int

const (
	LangPython Language = iota
	LangR
	LangGo
	LangRust
	LangJavaScript
	LangTypeScript
)

// String returns the canonical lower-case language name.
func (l Language) String() string {
	switch l {
	case LangPython:
		return "python"
	case LangR:
		return "r"
	case LangGo:
		return "go"
	case LangRust:
		return "rust"
	case LangJavaScript:
		return "javascript"
	case LangTypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// engineLanguage maps a Language onto the grammar the query engine loads
// for it. TypeScript keeps its own grammar but shares the JavaScript
// extraction rules.
func (l Language) engineLanguage() parser.Language {
	switch l {
	case LangPython:
		return parser.LanguagePython
	case LangR:
		return parser.LanguageR
	case LangGo:
		return parser.LanguageGo
	case LangRust:
		return parser.LanguageRust
	case LangJavaScript:
		return parser.LanguageJavaScript
	case LangTypeScript:
		return parser.LanguageTypeScript
	default:
		return parser.Language("")
	}
}

// Languages returns all supported languages in display order.
func Languages() []Language {
	return []Language{LangPython, LangR, LangGo, LangRust, LangJavaScript, LangTypeScript}
}

// LanguageForExtension maps a file extension to its language. Matching
// is case-sensitive except for R, which accepts both .r and .R.
func LanguageForExtension(ext string) (Language, bool) {
	switch ext {
	case ".py":
		return LangPython, true
	case ".r", ".R":
		return LangR, true
	case ".go":
		return LangGo, true
	case ".rs":
		return LangRust, true
	case ".js", ".jsx":
		return LangJavaScript, true
	case ".ts", ".tsx":
		return LangTypeScript, true
	default:
		return Language(-1), false
	}
}

// ParseLanguage maps a language name to its Language. Matching is
// case-insensitive and accepts the usual short aliases (py, js, ts, rs,
// golang) alongside the canonical names.
func ParseLanguage(name string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "python", "py":
		return LangPython, true
	case "r":
		return LangR, true
	case "go", "golang":
		return LangGo, true
	case "rust", "rs":
		return LangRust, true
	case "javascript", "js", "jsx":
		return LangJavaScript, true
	case "typescript", "ts", "tsx":
		return LangTypeScript, true
	default:
		return Language(-1), false
	}
}

// SupportedExtensions lists every file extension FromFile dispatches on.
func SupportedExtensions() []string {
	return []string{".py", ".r", ".R", ".go", ".rs", ".js", ".jsx", ".ts", ".tsx"}
}

// Extensions returns the file extensions belonging to a language.
func (l Language) Extensions() []string {
	switch l {
	case LangPython:
		return []string{".py"}
	case LangR:
		return []string{".r", ".R"}
	case LangGo:
		return []string{".go"}
	case LangRust:
		return []string{".rs"}
	case LangJavaScript:
		return []string{".js", ".jsx"}
	case LangTypeScript:
		return []string{".ts", ".tsx"}
	default:
		return nil
	}
}
