package parser

import (
	"fmt"
	"unsafe"

	tree_sitter_r "github.com/alexaandru/go-sitter-forest/r"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language selects a grammar and its import query.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageR          Language = "r"
	LanguageGo         Language = "go"
	LanguageRust       Language = "rust"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
)

// Languages lists every language the engine knows, in display order.
func Languages() []Language {
	return []Language{
		LanguagePython,
		LanguageR,
		LanguageGo,
		LanguageRust,
		LanguageJavaScript,
		LanguageTypeScript,
	}
}

// grammarPointer returns the raw grammar pointer for a language, or nil
// when no grammar is registered under that name.
func grammarPointer(lang Language) unsafe.Pointer {
	switch lang {
	case LanguagePython:
		return tree_sitter_python.Language()
	case LanguageR:
		return tree_sitter_r.GetLanguage()
	case LanguageGo:
		return tree_sitter_go.Language()
	case LanguageRust:
		return tree_sitter_rust.Language()
	case LanguageJavaScript:
		return tree_sitter_javascript.Language()
	case LanguageTypeScript:
		// The plain TypeScript grammar also covers .tsx input; JSX
		// islands degrade to error nodes without disturbing imports.
		return tree_sitter_typescript.LanguageTypescript()
	default:
		return nil
	}
}

// importQuery returns the query source for a language's import constructs.
//
// Capture names are the contract with the extraction layer:
//
//	python      @module, @relative, @relative.anchor, @relative.name
//	r           @callee, @callarg, @nslhs
//	go          @import.path
//	rust        @use.clause
//	js/ts       @source, @require.callee, @require.arg
func importQuery(lang Language) string {
	switch lang {
	case LanguagePython:
		// The anchor/name pair shares a match so bare relative imports
		// (from . import x) can resolve a first-party name.
		return `
        (import_statement name: (dotted_name) @module)
        (import_statement name: (aliased_import name: (dotted_name) @module))
        (import_from_statement module_name: (dotted_name) @module)
        (import_from_statement module_name: (relative_import) @relative)
        (import_from_statement
            module_name: (relative_import) @relative.anchor
            name: [
                (dotted_name) @relative.name
                (aliased_import name: (dotted_name) @relative.name)
            ])
    `
	case LanguageR:
		return `
        (call
            function: (identifier) @callee
            arguments: (arguments
                (argument value: [(identifier) (string)] @callarg)))
        (namespace_operator lhs: [(identifier) (string)] @nslhs)
    `
	case LanguageGo:
		return `
        (import_spec path: [(interpreted_string_literal) (raw_string_literal)] @import.path)
    `
	case LanguageRust:
		return `
        (use_declaration argument: (_) @use.clause)
    `
	case LanguageJavaScript, LanguageTypeScript:
		// The inner anchors restrict require matches to calls with a
		// single string argument, binding callee and argument in one match.
		return `
        (import_statement source: (string) @source)
        (call_expression
            function: (identifier) @require.callee
            arguments: (arguments . (string) @require.arg .))
    `
	default:
		return ""
	}
}

// loadLanguage builds the full state for a language: grammar, compiled
// import query, and a parser pool primed with one validated parser.
func loadLanguage(lang Language) (*langState, error) {
	ptr := grammarPointer(lang)
	if ptr == nil {
		return nil, fmt.Errorf("no grammar registered for language %q", lang)
	}

	language := tree_sitter.NewLanguage(ptr)
	if language == nil {
		return nil, fmt.Errorf("%s grammar pointer did not produce a language", lang)
	}

	probe := tree_sitter.NewParser()
	if err := probe.SetLanguage(language); err != nil {
		probe.Close()
		return nil, fmt.Errorf("%s grammar rejected by parser: %w", lang, err)
	}

	query, _ := tree_sitter.NewQuery(language, importQuery(lang))
	// The Go binding can return a typed nil error, so check the query itself.
	if query == nil {
		probe.Close()
		return nil, fmt.Errorf("failed to compile %s import query", lang)
	}

	st := &langState{language: language, query: query}
	st.pool.New = func() any {
		parser := tree_sitter.NewParser()
		// The language was validated at load time, so this cannot fail.
		_ = parser.SetLanguage(language)
		return parser
	}
	st.pool.Put(probe)
	return st, nil
}
