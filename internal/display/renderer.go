// Package display renders extraction results in the formats the CLI
// exposes: json and yaml for machine consumers, aligned tables and
// compact per-file text for humans.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/lix/internal/types"
	"github.com/standardbeagle/lix/pkg/extract"
)

// Supported output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
	FormatText  = "text"
)

// Category labels as shown to users. The wire names (third_party,
// first_party) stay on the JSON and YAML tags of the result types.
const (
	categoryStdlib     = "stdlib"
	categoryThirdParty = "third-party"
	categoryFirstParty = "first-party"
)

// Options configures a Renderer.
type Options struct {
	Format string    // json, yaml, table, or text; empty means table
	Writer io.Writer // defaults to os.Stdout
}

// Renderer writes extraction results to a single destination in one
// fixed format. Category colors go through the fatih/color global
// switch, so --no-color and piped output degrade to plain text
// without the renderer checking anything.
type Renderer struct {
	format string
	out    io.Writer

	stdlibColor *color.Color
	thirdColor  *color.Color
	firstColor  *color.Color
}

// NewRenderer creates a Renderer with defaults filled in.
func NewRenderer(options Options) *Renderer {
	if options.Format == "" {
		options.Format = FormatTable
	}
	if options.Writer == nil {
		options.Writer = os.Stdout
	}
	return &Renderer{
		format:      options.Format,
		out:         options.Writer,
		stdlibColor: color.New(color.FgGreen),
		thirdColor:  color.New(color.FgYellow),
		firstColor:  color.New(color.FgCyan),
	}
}

// Libraries renders a bare classification with no file context, as
// produced by extracting stdin or an in-memory source snippet.
func (r *Renderer) Libraries(language string, libs *extract.ImportedLibraries) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(libs)
	case FormatYAML:
		return r.writeYAML(libs)
	case FormatTable:
		rows := libraryRows(language, libs)
		return r.writeLibraryTable(rows, fmt.Sprintf("Total: %d libraries", len(rows)))
	case FormatText:
		_, err := fmt.Fprintln(r.out, r.librariesInline(libs))
		return err
	default:
		return fmt.Errorf("unknown display format %q", r.format)
	}
}

// File renders the outcome of extracting one file.
func (r *Renderer) File(res *types.FileResult) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(res)
	case FormatYAML:
		return r.writeYAML(res)
	case FormatTable:
		return r.fileTable(res)
	case FormatText:
		return r.fileText(res)
	default:
		return fmt.Errorf("unknown display format %q", r.format)
	}
}

// Files renders a batch of per-file results. Structured formats emit
// one document for the whole batch; table and text render each file
// in sequence.
func (r *Renderer) Files(results []types.FileResult) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(results)
	case FormatYAML:
		return r.writeYAML(results)
	default:
		for i := range results {
			if err := r.File(&results[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

// Summary renders a full scan: per-file results plus the aggregated
// per-language classification.
func (r *Renderer) Summary(sum *types.ScanSummary) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(sum)
	case FormatYAML:
		return r.writeYAML(sum)
	case FormatTable:
		return r.summaryTable(sum)
	case FormatText:
		return r.summaryText(sum)
	default:
		return fmt.Errorf("unknown display format %q", r.format)
	}
}

// LanguageStatus is one row of the supported-languages listing.
type LanguageStatus struct {
	Name       string   `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
	Available  bool     `json:"available" yaml:"available"`
}

// Languages renders the supported-languages listing.
func (r *Renderer) Languages(rows []LanguageStatus) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(rows)
	case FormatYAML:
		return r.writeYAML(rows)
	case FormatTable:
		tbl := newTable()
		tbl.AppendHeader(table.Row{"Language", "Extensions", "Grammar"})
		for _, row := range rows {
			tbl.AppendRow(table.Row{row.Name, strings.Join(row.Extensions, " "), grammarLabel(row.Available)})
		}
		tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d languages", len(rows))})
		_, err := fmt.Fprintln(r.out, tbl.Render())
		return err
	case FormatText:
		for _, row := range rows {
			_, err := fmt.Fprintf(r.out, "%s %s (grammar %s)\n",
				row.Name, strings.Join(row.Extensions, " "), grammarLabel(row.Available))
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown display format %q", r.format)
	}
}

func grammarLabel(available bool) string {
	if available {
		return "ok"
	}
	return "missing"
}

func (r *Renderer) fileText(res *types.FileResult) error {
	switch res.Status {
	case types.FileStatusFailed:
		_, err := fmt.Fprintf(r.out, "%s failed: %s\n", res.Path, res.Error)
		return err
	case types.FileStatusSkipped:
		_, err := fmt.Fprintf(r.out, "%s skipped: %s\n", res.Path, res.SkipReason)
		return err
	}
	_, err := fmt.Fprintf(r.out, "%s (%s) %s\n", res.Path, res.Language, r.librariesInline(res.Libraries))
	return err
}

func (r *Renderer) fileTable(res *types.FileResult) error {
	// Failures and skips have no rows to tabulate.
	if res.Status != types.FileStatusExtracted {
		return r.fileText(res)
	}
	if _, err := fmt.Fprintf(r.out, "%s:\n", res.Path); err != nil {
		return err
	}
	rows := libraryRows(res.Language, res.Libraries)
	return r.writeLibraryTable(rows, fmt.Sprintf("Total: %d libraries", len(rows)))
}

func (r *Renderer) summaryText(sum *types.ScanSummary) error {
	for i := range sum.Files {
		if err := r.fileText(&sum.Files[i]); err != nil {
			return err
		}
	}
	return r.writeTotals(sum)
}

func (r *Renderer) summaryTable(sum *types.ScanSummary) error {
	for i := range sum.Files {
		if err := r.fileText(&sum.Files[i]); err != nil {
			return err
		}
	}
	var rows []libraryRow
	for _, language := range sortedLanguages(sum.ByLanguage) {
		rows = append(rows, libraryRows(language, sum.ByLanguage[language])...)
	}
	footer := fmt.Sprintf("Total: %d libraries in %d files", len(rows), sum.FilesScanned)
	if err := r.writeLibraryTable(rows, footer); err != nil {
		return err
	}
	if sum.Truncated {
		_, err := fmt.Fprintln(r.out, "file limit reached, results truncated")
		return err
	}
	return nil
}

func (r *Renderer) writeTotals(sum *types.ScanSummary) error {
	stdlib, third, first := sum.LibraryTotals()
	line := fmt.Sprintf("\n%d files scanned in %s: %s %d, %s %d, %s %d",
		sum.FilesScanned, sum.Duration.Round(time.Millisecond),
		r.stdlibColor.Sprint(categoryStdlib), stdlib,
		r.thirdColor.Sprint(categoryThirdParty), third,
		r.firstColor.Sprint(categoryFirstParty), first)
	if sum.FilesFailed > 0 || sum.FilesSkipped > 0 {
		line += fmt.Sprintf(" (%d failed, %d skipped)", sum.FilesFailed, sum.FilesSkipped)
	}
	if _, err := fmt.Fprintln(r.out, line); err != nil {
		return err
	}
	if sum.Truncated {
		_, err := fmt.Fprintln(r.out, "file limit reached, results truncated")
		return err
	}
	return nil
}

// librariesInline formats a classification as one compact line with
// colored category labels.
func (r *Renderer) librariesInline(libs *extract.ImportedLibraries) string {
	if libs == nil || libs.Empty() {
		return "no imports"
	}
	var parts []string
	if libs.Stdlib.Len() > 0 {
		parts = append(parts, r.stdlibColor.Sprint(categoryStdlib)+"="+strings.Join(libs.Stdlib.Sorted(), ","))
	}
	if libs.ThirdParty.Len() > 0 {
		parts = append(parts, r.thirdColor.Sprint(categoryThirdParty)+"="+strings.Join(libs.ThirdParty.Sorted(), ","))
	}
	if libs.FirstParty.Len() > 0 {
		parts = append(parts, r.firstColor.Sprint(categoryFirstParty)+"="+strings.Join(libs.FirstParty.Sorted(), ","))
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) colorizeCategory(category string) string {
	switch category {
	case categoryStdlib:
		return r.stdlibColor.Sprint(category)
	case categoryThirdParty:
		return r.thirdColor.Sprint(category)
	case categoryFirstParty:
		return r.firstColor.Sprint(category)
	}
	return category
}

type libraryRow struct {
	name     string
	category string
	language string
}

// libraryRows flattens a classification into one row per identifier,
// keeping the category order of the result type.
func libraryRows(language string, libs *extract.ImportedLibraries) []libraryRow {
	if libs == nil {
		return nil
	}
	rows := make([]libraryRow, 0, libs.Count())
	for _, name := range libs.Stdlib.Sorted() {
		rows = append(rows, libraryRow{name: name, category: categoryStdlib, language: language})
	}
	for _, name := range libs.ThirdParty.Sorted() {
		rows = append(rows, libraryRow{name: name, category: categoryThirdParty, language: language})
	}
	for _, name := range libs.FirstParty.Sorted() {
		rows = append(rows, libraryRow{name: name, category: categoryFirstParty, language: language})
	}
	return rows
}

func (r *Renderer) writeLibraryTable(rows []libraryRow, footer string) error {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Library", "Category", "Language"})
	for _, row := range rows {
		tbl.AppendRow(table.Row{row.name, r.colorizeCategory(row.category), row.language})
	}
	tbl.AppendFooter(table.Row{footer})
	_, err := fmt.Fprintln(r.out, tbl.Render())
	return err
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false
	return tbl
}

func sortedLanguages(byLanguage map[string]*extract.ImportedLibraries) []string {
	languages := make([]string, 0, len(byLanguage))
	for language := range byLanguage {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

func (r *Renderer) writeJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

func (r *Renderer) writeYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = r.out.Write(data)
	return err
}
