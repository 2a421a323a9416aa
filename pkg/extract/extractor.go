package extract

import (
	"fmt"
	"sync"

	lixerrors "github.com/standardbeagle/lix/internal/errors"
	"github.com/standardbeagle/lix/internal/parser"
)

// Extractor runs import extraction against a query engine. The zero
// value is not usable; construct one with New. An Extractor is safe for
// concurrent use.
type Extractor struct {
	engine *parser.Engine
}

// New returns an extractor backed by the process-wide query engine, so
// each language's grammar is loaded at most once per process.
func New() *Extractor {
	return &Extractor{engine: parser.Shared()}
}

// NewWithEngine returns an extractor backed by a private query engine.
func NewWithEngine(engine *parser.Engine) *Extractor {
	return &Extractor{engine: engine}
}

// Available reports whether the grammar backing lang loaded. Extraction
// for an unavailable language fails with a LanguageUnavailableError.
func (x *Extractor) Available(lang Language) bool {
	return x.engine.Available(lang.engineLanguage())
}

// Source extracts the libraries imported by source text in the given
// language. The text does not need to be syntactically valid; the parse
// is best-effort and whatever import constructs survive are reported.
func (x *Extractor) Source(lang Language, source string) (*ImportedLibraries, error) {
	switch lang {
	case LangPython:
		return x.pythonLibraries([]byte(source))
	case LangR:
		return x.rLibraries([]byte(source))
	case LangGo:
		return x.goLibraries([]byte(source))
	case LangRust:
		return x.rustLibraries([]byte(source))
	case LangJavaScript:
		return x.javascriptLibraries([]byte(source), parser.LanguageJavaScript)
	case LangTypeScript:
		return x.javascriptLibraries([]byte(source), parser.LanguageTypeScript)
	default:
		return nil, lixerrors.NewExtractionError("dispatch", fmt.Errorf("unknown language %d", int(lang)))
	}
}

// Python extracts libraries imported by Python source.
func (x *Extractor) Python(source string) (*ImportedLibraries, error) {
	return x.pythonLibraries([]byte(source))
}

// R extracts libraries referenced by R source.
func (x *Extractor) R(source string) (*ImportedLibraries, error) {
	return x.rLibraries([]byte(source))
}

// Go extracts packages imported by Go source.
func (x *Extractor) Go(source string) (*ImportedLibraries, error) {
	return x.goLibraries([]byte(source))
}

// Rust extracts crates referenced by Rust source.
func (x *Extractor) Rust(source string) (*ImportedLibraries, error) {
	return x.rustLibraries([]byte(source))
}

// JavaScript extracts packages imported by JavaScript source.
func (x *Extractor) JavaScript(source string) (*ImportedLibraries, error) {
	return x.javascriptLibraries([]byte(source), parser.LanguageJavaScript)
}

// TypeScript extracts packages imported by TypeScript source. The rules
// are identical to JavaScript; only the grammar differs.
func (x *Extractor) TypeScript(source string) (*ImportedLibraries, error) {
	return x.javascriptLibraries([]byte(source), parser.LanguageTypeScript)
}

var (
	defaultExtractor     *Extractor
	defaultExtractorOnce sync.Once
)

// Default returns the shared package-level extractor.
func Default() *Extractor {
	defaultExtractorOnce.Do(func() {
		defaultExtractor = New()
	})
	return defaultExtractor
}

// Python extracts libraries from Python source with the default extractor.
func Python(source string) (*ImportedLibraries, error) {
	return Default().Python(source)
}

// R extracts libraries from R source with the default extractor.
func R(source string) (*ImportedLibraries, error) {
	return Default().R(source)
}

// Go extracts packages from Go source with the default extractor.
func Go(source string) (*ImportedLibraries, error) {
	return Default().Go(source)
}

// Rust extracts crates from Rust source with the default extractor.
func Rust(source string) (*ImportedLibraries, error) {
	return Default().Rust(source)
}

// JavaScript extracts packages from JavaScript source with the default extractor.
func JavaScript(source string) (*ImportedLibraries, error) {
	return Default().JavaScript(source)
}

// TypeScript extracts packages from TypeScript source with the default extractor.
func TypeScript(source string) (*ImportedLibraries, error) {
	return Default().TypeScript(source)
}

// FromFile extracts libraries from a file with the default extractor.
func FromFile(path string) (*ImportedLibraries, error) {
	return Default().FromFile(path)
}
