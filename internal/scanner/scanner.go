// Package scanner walks a project tree and extracts imports from every
// supported source file, honoring the configured filters.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/lix/internal/cache"
	"github.com/standardbeagle/lix/internal/config"
	"github.com/standardbeagle/lix/internal/debug"
	lixerrors "github.com/standardbeagle/lix/internal/errors"
	"github.com/standardbeagle/lix/internal/security"
	"github.com/standardbeagle/lix/internal/types"
	"github.com/standardbeagle/lix/pkg/extract"
)

// Scanner enumerates files under a root directory and runs import
// extraction over them with a bounded worker pool.
type Scanner struct {
	cfg       *config.Config
	extractor *extract.Extractor
	gitignore *config.GitignoreParser
	cache     *cache.ResultCache
	validator *security.FileValidator
}

// New creates a scanner backed by the shared extractor.
func New(cfg *config.Config) *Scanner {
	return NewWithExtractor(cfg, extract.Default())
}

// NewWithExtractor creates a scanner with a specific extractor, which
// tests use to inject one with a private engine.
func NewWithExtractor(cfg *config.Config, x *extract.Extractor) *Scanner {
	s := &Scanner{cfg: cfg, extractor: x, validator: security.NewFileValidator()}
	if cfg.Scan.RespectGitignore {
		s.gitignore = config.NewGitignoreParser()
		if err := s.gitignore.LoadGitignore(cfg.Project.Root); err != nil {
			debug.LogScan("failed to load .gitignore under %s: %v", cfg.Project.Root, err)
		}
	}
	return s
}

// SetCache attaches a result cache so repeated scans over the same
// tree, as watch mode runs them, skip re-parsing unchanged files.
func (s *Scanner) SetCache(rc *cache.ResultCache) {
	s.cache = rc
}

// candidate is a file that passed every enumeration filter.
type candidate struct {
	path string // as visited, for reading
	rel  string // slash-separated, relative to root, for output
}

// Scan walks the configured root and returns aggregated results.
// Per-file extraction failures are recorded in the summary rather than
// returned; the error covers conditions that stop the walk itself.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanSummary, error) {
	root := s.cfg.Project.Root
	if root == "" {
		root = "."
	}

	start := time.Now()
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lixerrors.NewFileNotFoundError(root)
		}
		return nil, lixerrors.NewFileError("stat", root, err)
	}
	if !info.IsDir() {
		return nil, lixerrors.NewFileError("scan", root, errors.New("not a directory"))
	}

	summary := types.NewScanSummary(root)

	candidates, err := s.enumerate(ctx, root, summary)
	if err != nil {
		return nil, err
	}
	debug.LogScan("enumerated %d candidate files under %s", len(candidates), root)

	results := make([]types.FileResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Scan.EffectiveWorkers())
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.extractFile(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		summary.Record(res)
	}
	sort.Slice(summary.Files, func(i, j int) bool {
		return summary.Files[i].Path < summary.Files[j].Path
	})
	summary.SetDuration(time.Since(start))

	debug.LogScan("scan of %s: %d extracted, %d failed, %d skipped in %s",
		root, summary.FilesScanned, summary.FilesFailed, summary.FilesSkipped, summary.Duration)
	return summary, nil
}

// enumerate walks the tree collecting files to extract. Size-capped
// files are recorded as skipped on the summary as they are found.
func (s *Scanner) enumerate(ctx context.Context, root string, summary *types.ScanSummary) ([]candidate, error) {
	var candidates []candidate

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			debug.LogScan("walk error at %s: %v", path, walkErr)
			return nil // keep scanning past unreadable entries
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			// Check the pattern both bare and with a trailing slash so
			// directory patterns like **/vendor/** prune the dir itself.
			if matchAny(s.cfg.Exclude, rel) || matchAny(s.cfg.Exclude, rel+"/") {
				return filepath.SkipDir
			}
			if s.gitignore != nil && s.gitignore.ShouldIgnore(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		var linkInfo fs.FileInfo
		if d.Type()&fs.ModeSymlink != 0 {
			if !s.cfg.Scan.FollowSymlinks {
				return nil
			}
			target, statErr := os.Stat(path)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}
			linkInfo = target
		}

		lang, ok := extract.LanguageForExtension(filepath.Ext(path))
		if !ok {
			return nil
		}
		if matchAny(s.cfg.Exclude, rel) {
			return nil
		}
		if len(s.cfg.Include) > 0 && !matchAny(s.cfg.Include, rel) {
			return nil
		}
		if s.gitignore != nil && s.gitignore.ShouldIgnore(rel, false) {
			return nil
		}

		// Size check last so most files never need the stat.
		info := linkInfo
		if info == nil {
			var infoErr error
			info, infoErr = d.Info()
			if infoErr != nil {
				debug.LogScan("stat failed for %s: %v", path, infoErr)
				return nil
			}
		}
		if info.Size() > s.cfg.Scan.MaxFileSize {
			summary.Record(types.FileResult{
				Path:       rel,
				Language:   lang.String(),
				Status:     types.FileStatusSkipped,
				SkipReason: fmt.Sprintf("file size %d exceeds limit %d", info.Size(), s.cfg.Scan.MaxFileSize),
			})
			return nil
		}

		if len(candidates) >= s.cfg.Scan.MaxFileCount {
			summary.Truncated = true
			debug.LogScan("file count limit %d reached at %s, stopping enumeration", s.cfg.Scan.MaxFileCount, rel)
			return fs.SkipAll
		}
		candidates = append(candidates, candidate{path: path, rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// extractFile extracts one candidate, consulting the result cache
// when one is attached.
func (s *Scanner) extractFile(c candidate) types.FileResult {
	start := time.Now()

	res := types.FileResult{Path: c.rel}
	lang, ok := extract.LanguageForExtension(filepath.Ext(c.path))
	if !ok {
		// Enumeration only admits supported extensions.
		res.Status = types.FileStatusSkipped
		res.SkipReason = "unsupported extension"
		res.SetDuration(time.Since(start))
		return res
	}
	res.Language = lang.String()

	content, err := os.ReadFile(c.path)
	if err != nil {
		res.Status = types.FileStatusFailed
		res.Error = lixerrors.NewFileError("read", c.path, err).Error()
		res.SetDuration(time.Since(start))
		return res
	}

	// Screen before hashing so binary blobs never cost a cache key.
	if err := s.validator.Check(c.path, content); err != nil {
		res.Status = types.FileStatusSkipped
		res.SkipReason = err.Error()
		res.SetDuration(time.Since(start))
		return res
	}

	var key uint64
	if s.cache != nil {
		key = cache.Key(res.Language, content)
		if libs := s.cache.Get(key); libs != nil {
			res.Status = types.FileStatusExtracted
			res.Libraries = libs
			res.SetDuration(time.Since(start))
			return res
		}
	}

	libs, err := s.extractor.Source(lang, string(content))
	if err != nil {
		res.Status = types.FileStatusFailed
		res.Error = err.Error()
	} else {
		res.Status = types.FileStatusExtracted
		res.Libraries = libs
		if s.cache != nil {
			s.cache.Put(key, libs)
			s.cache.RememberPath(c.path, key)
		}
	}
	res.SetDuration(time.Since(start))
	return res
}

// matchAny reports whether any pattern matches the slash-separated
// path. Invalid patterns never match; the validator rejects them up
// front, so this only guards patterns arriving outside config loading.
func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
