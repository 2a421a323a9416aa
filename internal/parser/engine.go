// Package parser wraps tree-sitter behind a small query engine. Each
// supported language carries one compiled import query; callers get back
// the flat capture list and apply their own post-processing.
package parser

import (
	"fmt"
	"os"
	"sort"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/lix/internal/debug"
	lixerrors "github.com/standardbeagle/lix/internal/errors"
)

// Capture is one named node matched by a language's import query.
type Capture struct {
	Name  string // capture name from the query pattern
	Text  string // matched source text
	Start uint   // byte offset where the node begins
	End   uint   // byte offset past the node end
	Row   uint   // zero-based source line of the node start
	Match uint   // index of the enclosing query match, for grouping related captures
}

// langState holds the loaded grammar, its compiled import query, and a
// pool of parsers. Parsers are not safe for concurrent use, so each
// caller checks one out for the duration of a parse.
type langState struct {
	language *tree_sitter.Language
	query    *tree_sitter.Query
	pool     sync.Pool
}

// Engine lazily loads grammars on first use. A language that fails to
// load is marked unavailable for the engine's lifetime; the failure is
// warned once and every later call for that language returns an error.
type Engine struct {
	mu          sync.RWMutex
	states      map[Language]*langState
	unavailable map[Language]string
}

// NewEngine returns an engine with no grammars loaded.
func NewEngine() *Engine {
	return &Engine{
		states:      make(map[Language]*langState),
		unavailable: make(map[Language]string),
	}
}

// ensure returns the initialized state for a language, loading the
// grammar on first use.
func (e *Engine) ensure(lang Language) (*langState, error) {
	// Fast path: already initialized (read-only check)
	e.mu.RLock()
	st, ok := e.states[lang]
	reason, failed := e.unavailable[lang]
	e.mu.RUnlock()

	if ok {
		return st, nil
	}
	if failed {
		return nil, lixerrors.NewLanguageUnavailableError(string(lang), reason)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine might have initialized)
	if st, ok := e.states[lang]; ok {
		return st, nil
	}
	if reason, ok := e.unavailable[lang]; ok {
		return nil, lixerrors.NewLanguageUnavailableError(string(lang), reason)
	}

	st, err := loadLanguage(lang)
	if err != nil {
		// Record the failure so the load is never retried, and warn once.
		e.unavailable[lang] = err.Error()
		fmt.Fprintf(os.Stderr, "warning: could not load %s: %v\n", lang, err)
		debug.LogExtraction("grammar load failed for %s: %v", lang, err)
		return nil, lixerrors.NewLanguageUnavailableError(string(lang), err.Error())
	}

	debug.LogExtraction("loaded %s grammar", lang)
	e.states[lang] = st
	return st, nil
}

// Available reports whether the language's grammar can be used, loading
// it if necessary.
func (e *Engine) Available(lang Language) bool {
	_, err := e.ensure(lang)
	return err == nil
}

// ImportCaptures parses source text and runs the language's import query
// against it, returning every capture ordered by start byte. Captures
// from the same query match share a Match index so callers can correlate
// multi-capture patterns. Unparsable input is not an error: the parser
// produces a best-effort tree and the query matches whatever survives.
func (e *Engine) ImportCaptures(lang Language, source []byte) ([]Capture, error) {
	st, err := e.ensure(lang)
	if err != nil {
		return nil, err
	}

	parser := st.pool.Get().(*tree_sitter.Parser)
	defer st.pool.Put(parser)

	// The tree-sitter C library mutates input buffers via CGO, so hand
	// it a private copy.
	buf := make([]byte, len(source))
	copy(buf, source)

	var captures []Capture
	func() {
		defer func() {
			if r := recover(); r != nil {
				debug.LogExtraction("TREE-SITTER PANIC for %s source: %v", lang, r)
			}
		}()

		tree := parser.Parse(buf, nil)
		if tree == nil {
			return
		}
		defer tree.Close()

		qc := tree_sitter.NewQueryCursor()
		defer qc.Close()

		captureNames := st.query.CaptureNames()
		matches := qc.Matches(st.query, tree.RootNode(), buf)

		var matchIndex uint
		for {
			match := matches.Next()
			if match == nil {
				break
			}
			for _, c := range match.Captures {
				node := c.Node
				captures = append(captures, Capture{
					Name:  captureNames[c.Index],
					Text:  string(buf[node.StartByte():node.EndByte()]),
					Start: node.StartByte(),
					End:   node.EndByte(),
					Row:   node.StartPosition().Row,
					Match: matchIndex,
				})
			}
			matchIndex++
		}
	}()

	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].Start < captures[j].Start
	})
	return captures, nil
}

// Shared process-wide engine for callers that don't manage their own.
var (
	sharedEngine     *Engine
	sharedEngineOnce sync.Once
)

// Shared returns the process-wide engine instance.
func Shared() *Engine {
	sharedEngineOnce.Do(func() {
		sharedEngine = NewEngine()
	})
	return sharedEngine
}
