// Package types holds the shared result types produced by directory
// scans and consumed by the display and MCP layers.
package types

import (
	"fmt"
	"time"

	lixerrors "github.com/standardbeagle/lix/internal/errors"
	"github.com/standardbeagle/lix/pkg/extract"
)

// Scan resource limits
const (
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB per file
	// Rationale: Anything larger is almost always a generated
	// bundle or a vendored artifact. Parsing it costs memory
	// without surfacing dependencies the repo doesn't already
	// declare in a smaller file.

	DefaultMaxFileCount = 50000 // Maximum files visited in a single scan
	// Rationale: Covers large monorepos while keeping a runaway
	// walk over node_modules or build output from consuming the
	// whole process. Raise it explicitly for bigger trees.
)

// FileStatus describes what happened to one scanned file.
type FileStatus uint8

const (
	FileStatusExtracted FileStatus = iota // imports extracted successfully
	FileStatusFailed                      // read or extraction error
	FileStatusSkipped                     // filtered out before extraction
)

func (s FileStatus) String() string {
	switch s {
	case FileStatusExtracted:
		return "extracted"
	case FileStatusFailed:
		return "failed"
	case FileStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

func (s FileStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s FileStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// FileResult is the outcome of extracting one file.
type FileResult struct {
	Path       string                     `json:"path" yaml:"path"`
	Language   string                     `json:"language,omitempty" yaml:"language,omitempty"`
	Status     FileStatus                 `json:"status" yaml:"status"`
	Libraries  *extract.ImportedLibraries `json:"libraries,omitempty" yaml:"libraries,omitempty"`
	Error      string                     `json:"error,omitempty" yaml:"error,omitempty"`
	SkipReason string                     `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
	Duration   time.Duration              `json:"-" yaml:"-"`
	DurationMS float64                    `json:"duration_ms" yaml:"duration_ms"`
}

// SetDuration records the wall time spent on the file in both the
// native and the wire representation.
func (r *FileResult) SetDuration(d time.Duration) {
	r.Duration = d
	r.DurationMS = float64(d.Microseconds()) / 1000.0
}

// ScanSummary aggregates every file result of a directory scan.
// Libraries are merged per language; names are only unique within one
// language's ecosystem, so a cross-language union would conflate
// unrelated packages that happen to share a name.
type ScanSummary struct {
	Root         string                                `json:"root" yaml:"root"`
	FilesScanned int                                   `json:"files_scanned" yaml:"files_scanned"`
	FilesFailed  int                                   `json:"files_failed" yaml:"files_failed"`
	FilesSkipped int                                   `json:"files_skipped" yaml:"files_skipped"`
	Truncated    bool                                  `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Duration     time.Duration                         `json:"-" yaml:"-"`
	DurationMS   float64                               `json:"duration_ms" yaml:"duration_ms"`
	ByLanguage   map[string]*extract.ImportedLibraries `json:"by_language" yaml:"by_language"`
	FileCounts   map[string]int                        `json:"file_counts" yaml:"file_counts"`
	Files        []FileResult                          `json:"files,omitempty" yaml:"files,omitempty"`
}

func NewScanSummary(root string) *ScanSummary {
	return &ScanSummary{
		Root:       root,
		ByLanguage: make(map[string]*extract.ImportedLibraries),
		FileCounts: make(map[string]int),
	}
}

// Record folds one file result into the summary.
func (s *ScanSummary) Record(res FileResult) {
	switch res.Status {
	case FileStatusExtracted:
		s.FilesScanned++
		s.FileCounts[res.Language]++
		if res.Libraries != nil {
			agg, ok := s.ByLanguage[res.Language]
			if !ok {
				agg = extract.NewImportedLibraries()
				s.ByLanguage[res.Language] = agg
			}
			agg.Merge(res.Libraries)
		}
	case FileStatusFailed:
		s.FilesFailed++
	case FileStatusSkipped:
		s.FilesSkipped++
	}
	s.Files = append(s.Files, res)
}

// SetDuration records total scan wall time in both representations.
func (s *ScanSummary) SetDuration(d time.Duration) {
	s.Duration = d
	s.DurationMS = float64(d.Microseconds()) / 1000.0
}

// TotalFiles counts every file the scan touched, whatever its outcome.
func (s *ScanSummary) TotalFiles() int {
	return s.FilesScanned + s.FilesFailed + s.FilesSkipped
}

// LibraryTotals sums unique library names per category across languages.
func (s *ScanSummary) LibraryTotals() (stdlib, thirdParty, firstParty int) {
	for _, libs := range s.ByLanguage {
		stdlib += libs.Stdlib.Len()
		thirdParty += libs.ThirdParty.Len()
		firstParty += libs.FirstParty.Len()
	}
	return stdlib, thirdParty, firstParty
}

// Err collects every per-file extraction failure into one error, or
// nil when all files extracted cleanly. Failed files never abort a
// scan, so this is how callers learn about them programmatically.
func (s *ScanSummary) Err() error {
	var errs []error
	for _, f := range s.Files {
		if f.Status == FileStatusFailed && f.Error != "" {
			errs = append(errs, fmt.Errorf("%s: %s", f.Path, f.Error))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return lixerrors.NewMultiError(errs)
}
