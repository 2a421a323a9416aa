package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/lix/internal/types"
	"github.com/standardbeagle/lix/pkg/extract"
)

// withPlainColors pins the color package's global switch for the test
// so output is byte-stable whether or not stdout is a terminal.
func withPlainColors(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func withForcedColors(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = old })
}

func pythonLibraries() *extract.ImportedLibraries {
	libs := extract.NewImportedLibraries()
	libs.Stdlib.Add("sys")
	libs.Stdlib.Add("os")
	libs.ThirdParty.Add("requests")
	libs.FirstParty.Add("myapp")
	return libs
}

func pythonResult() *types.FileResult {
	return &types.FileResult{
		Path:      "src/app.py",
		Language:  "python",
		Status:    types.FileStatusExtracted,
		Libraries: pythonLibraries(),
	}
}

func javascriptResult() *types.FileResult {
	libs := extract.NewImportedLibraries()
	libs.Stdlib.Add("path")
	libs.ThirdParty.Add("express")
	return &types.FileResult{
		Path:      "src/index.js",
		Language:  "javascript",
		Status:    types.FileStatusExtracted,
		Libraries: libs,
	}
}

func sampleSummary() *types.ScanSummary {
	sum := types.NewScanSummary("/tmp/proj")
	sum.Record(*pythonResult())
	sum.Record(*javascriptResult())
	sum.SetDuration(12 * time.Millisecond)
	return sum
}

func TestRenderer_DefaultsToTable(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Writer: &buf})

	require.NoError(t, r.File(pythonResult()))
	assert.Contains(t, buf.String(), "LIBRARY")
	assert.Contains(t, buf.String(), "CATEGORY")
}

func TestRenderer_FileJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatJSON, Writer: &buf})

	require.NoError(t, r.File(pythonResult()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "src/app.py", decoded["path"])
	assert.Equal(t, "python", decoded["language"])
	assert.Equal(t, "extracted", decoded["status"])

	libs, ok := decoded["libraries"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"os", "sys"}, libs["stdlib"])
	assert.Equal(t, []interface{}{"requests"}, libs["third_party"])
	assert.Equal(t, []interface{}{"myapp"}, libs["first_party"])
}

func TestRenderer_FileYAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatYAML, Writer: &buf})

	require.NoError(t, r.File(pythonResult()))

	out := buf.String()
	assert.Contains(t, out, "path: src/app.py")
	assert.Contains(t, out, "status: extracted")
	assert.Contains(t, out, "third_party:")
	assert.Contains(t, out, "- requests")
}

func TestRenderer_FileTable(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatTable, Writer: &buf})

	require.NoError(t, r.File(pythonResult()))

	out := buf.String()
	assert.Contains(t, out, "src/app.py:")
	assert.Contains(t, out, "requests")
	assert.Contains(t, out, "third-party")
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "TOTAL: 4 LIBRARIES")
}

func TestRenderer_FileText(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	require.NoError(t, r.File(pythonResult()))
	assert.Equal(t, "src/app.py (python) stdlib=os,sys third-party=requests first-party=myapp\n", buf.String())
}

func TestRenderer_FileTextNoImports(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	res := &types.FileResult{
		Path:      "src/empty.py",
		Language:  "python",
		Status:    types.FileStatusExtracted,
		Libraries: extract.NewImportedLibraries(),
	}
	require.NoError(t, r.File(res))
	assert.Equal(t, "src/empty.py (python) no imports\n", buf.String())
}

func TestRenderer_FileTextFailed(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	res := &types.FileResult{Path: "src/bad.py", Status: types.FileStatusFailed, Error: "read src/bad.py: permission denied"}
	require.NoError(t, r.File(res))
	assert.Equal(t, "src/bad.py failed: read src/bad.py: permission denied\n", buf.String())
}

func TestRenderer_FileTableFallsBackForSkipped(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatTable, Writer: &buf})

	res := &types.FileResult{Path: "src/big.py", Status: types.FileStatusSkipped, SkipReason: "file size 900 exceeds limit 100"}
	require.NoError(t, r.File(res))
	assert.Equal(t, "src/big.py skipped: file size 900 exceeds limit 100\n", buf.String())
}

func TestRenderer_FilesJSONIsOneDocument(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatJSON, Writer: &buf})

	results := []types.FileResult{*pythonResult(), *javascriptResult()}
	require.NoError(t, r.Files(results))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "src/app.py", decoded[0]["path"])
	assert.Equal(t, "src/index.js", decoded[1]["path"])
}

func TestRenderer_FilesTextRendersEachFile(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	results := []types.FileResult{*pythonResult(), *javascriptResult()}
	require.NoError(t, r.Files(results))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "src/app.py")
	assert.Contains(t, lines[1], "src/index.js")
}

func TestRenderer_SummaryText(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	require.NoError(t, r.Summary(sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, "src/app.py (python)")
	assert.Contains(t, out, "src/index.js (javascript)")
	assert.Contains(t, out, "2 files scanned in 12ms: stdlib 3, third-party 2, first-party 1")
	assert.NotContains(t, out, "failed")
}

func TestRenderer_SummaryTextWithFailures(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	sum := sampleSummary()
	sum.Record(types.FileResult{Path: "src/bad.py", Status: types.FileStatusFailed, Error: "boom"})
	require.NoError(t, r.Summary(sum))

	out := buf.String()
	assert.Contains(t, out, "src/bad.py failed: boom")
	assert.Contains(t, out, "(1 failed, 0 skipped)")
}

func TestRenderer_SummaryTextTruncated(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	sum := sampleSummary()
	sum.Truncated = true
	require.NoError(t, r.Summary(sum))
	assert.Contains(t, buf.String(), "results truncated")
}

func TestRenderer_SummaryTable(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatTable, Writer: &buf})

	require.NoError(t, r.Summary(sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, "src/app.py (python)")
	assert.Contains(t, out, "express")
	assert.Contains(t, out, "javascript")
	assert.Contains(t, out, "requests")
	assert.Contains(t, out, "TOTAL: 6 LIBRARIES IN 2 FILES")
}

func TestRenderer_SummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatJSON, Writer: &buf})

	require.NoError(t, r.Summary(sampleSummary()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(2), decoded["files_scanned"])

	byLanguage, ok := decoded["by_language"].(map[string]interface{})
	require.True(t, ok)
	python, ok := byLanguage["python"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"os", "sys"}, python["stdlib"])
}

func TestRenderer_SummaryYAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatYAML, Writer: &buf})

	require.NoError(t, r.Summary(sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, "root: /tmp/proj")
	assert.Contains(t, out, "files_scanned: 2")
	assert.Contains(t, out, "by_language:")
	assert.Contains(t, out, "python:")
}

func TestRenderer_LibrariesBare(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatJSON, Writer: &buf})

	require.NoError(t, r.Libraries("python", pythonLibraries()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, []interface{}{"os", "sys"}, decoded["stdlib"])
	assert.Equal(t, []interface{}{"requests"}, decoded["third_party"])
	assert.Equal(t, []interface{}{"myapp"}, decoded["first_party"])
}

func TestRenderer_LanguagesTable(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatTable, Writer: &buf})

	rows := []LanguageStatus{
		{Name: "python", Extensions: []string{".py"}, Available: true},
		{Name: "r", Extensions: []string{".r", ".R"}, Available: false},
	}
	require.NoError(t, r.Languages(rows))

	out := buf.String()
	assert.Contains(t, out, "python")
	assert.Contains(t, out, ".r .R")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "TOTAL: 2 LANGUAGES")
}

func TestRenderer_LanguagesText(t *testing.T) {
	withPlainColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	rows := []LanguageStatus{
		{Name: "go", Extensions: []string{".go"}, Available: true},
	}
	require.NoError(t, r.Languages(rows))
	assert.Equal(t, "go .go (grammar ok)\n", buf.String())
}

func TestRenderer_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: "xml", Writer: &buf})

	err := r.File(pythonResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown display format "xml"`)
}

func TestRenderer_CategoryColors(t *testing.T) {
	withForcedColors(t)
	var buf bytes.Buffer
	r := NewRenderer(Options{Format: FormatText, Writer: &buf})

	require.NoError(t, r.File(pythonResult()))

	out := buf.String()
	assert.Contains(t, out, "\x1b[32m", "stdlib should be green")
	assert.Contains(t, out, "\x1b[33m", "third-party should be yellow")
	assert.Contains(t, out, "\x1b[36m", "first-party should be cyan")
}
