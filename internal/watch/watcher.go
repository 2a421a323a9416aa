// Package watch re-extracts imports as files change under a watched
// root, printing one result per settled change. Events are debounced
// so editors that write a file several times in quick succession cost
// one extraction, and the result cache suppresses output entirely when
// the content hash is unchanged.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/lix/internal/cache"
	"github.com/standardbeagle/lix/internal/config"
	"github.com/standardbeagle/lix/internal/debug"
	"github.com/standardbeagle/lix/internal/display"
	lixerrors "github.com/standardbeagle/lix/internal/errors"
	"github.com/standardbeagle/lix/internal/security"
	"github.com/standardbeagle/lix/internal/types"
	"github.com/standardbeagle/lix/pkg/extract"
)

// fileEvent is the settled disposition of a path within one batch.
type fileEvent int

const (
	eventUpdate fileEvent = iota // created or written, re-extract
	eventRemove                  // gone, drop cached state
)

// Watcher owns the fsnotify watcher, the debouncer, and the goroutines
// that process settled batches.
type Watcher struct {
	cfg       *config.Config
	extractor *extract.Extractor
	cache     *cache.ResultCache
	renderer  *display.Renderer
	gitignore *config.GitignoreParser
	validator *security.FileValidator

	fsw       *fsnotify.Watcher
	debouncer *eventDebouncer
	wg        sync.WaitGroup
	root      string

	statsMu         sync.RWMutex
	eventsProcessed int64
	errorCount      int64
	lastEventTime   time.Time
}

// Options overrides the collaborators a Watcher builds by default.
// Tests inject a private extractor and an inspectable cache here.
type Options struct {
	Extractor *extract.Extractor
	Cache     *cache.ResultCache
	Renderer  *display.Renderer
}

// New creates a watcher for the configured project.
func New(cfg *config.Config, options Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:       cfg,
		extractor: options.Extractor,
		cache:     options.Cache,
		renderer:  options.Renderer,
		validator: security.NewFileValidator(),
		fsw:       fsw,
		debouncer: newEventDebouncer(time.Duration(cfg.Watch.DebounceMs) * time.Millisecond),
	}
	if w.extractor == nil {
		w.extractor = extract.Default()
	}
	if w.cache == nil {
		w.cache = cache.New()
	}
	if w.renderer == nil {
		w.renderer = display.NewRenderer(display.Options{Format: cfg.Display.Format})
	}
	if cfg.Scan.RespectGitignore {
		w.gitignore = config.NewGitignoreParser()
		if err := w.gitignore.LoadGitignore(cfg.Project.Root); err != nil {
			debug.Log("watch", "failed to load .gitignore under %s: %v", cfg.Project.Root, err)
		}
	}
	return w, nil
}

// Run watches root until ctx is canceled. A Watcher is single use: Run
// tears down the underlying fsnotify watcher on return.
func (w *Watcher) Run(ctx context.Context, root string) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			debug.Log("watch", "close watcher: %v", err)
		}
		w.wg.Wait()
	}()

	if root == "" {
		root = w.cfg.Project.Root
	}
	if root == "" {
		root = "."
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return lixerrors.NewFileNotFoundError(root)
		}
		return lixerrors.NewFileError("stat", root, err)
	}
	if !info.IsDir() {
		return lixerrors.NewFileError("watch", root, errors.New("not a directory"))
	}
	w.root = root

	if err := w.addWatches(root); err != nil {
		return fmt.Errorf("failed to add watches starting from %s: %w", root, err)
	}
	debug.Log("watch", "watching %s (debounce %s)", root, w.debouncer.debounce)

	w.wg.Add(1)
	go w.processEvents(ctx)
	w.wg.Add(1)
	go w.processBatches(ctx)

	<-ctx.Done()
	w.debouncer.stop()
	return nil
}

// addWatches registers every directory under root that the filters
// keep. Directories that cannot be watched are logged and skipped so
// one unreadable subtree does not kill the session.
func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignoreDir(path) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			debug.Log("watch", "failed to watch %s: %v", path, err)
		}
		return nil
	})
}

// processEvents drains the fsnotify channels until shutdown.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.recordStats(0, 1)
			debug.Log("watch", "watcher error: %v", err)
		}
	}
}

// handleEvent routes one raw fsnotify event into the debouncer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		// The path is already gone; -1 skips the size check.
		if w.shouldProcess(path, -1) {
			w.debouncer.add(path, eventRemove)
		}
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		// Created and deleted within one settle window; the remove
		// event follows on its own.
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !w.ignoreDir(path) {
			if err := w.fsw.Add(path); err != nil {
				debug.Log("watch", "failed to watch new directory %s: %v", path, err)
			}
		}
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !w.shouldProcess(path, info.Size()) {
		return
	}
	w.debouncer.add(path, eventUpdate)
}

// processBatches handles settled batches as the debouncer releases
// them.
func (w *Watcher) processBatches(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.debouncer.kick:
			w.flush(ctx)
		}
	}
}

// flush processes one settled batch: removals first so a rename never
// leaves a stale path mapping, then re-extraction in path order.
func (w *Watcher) flush(ctx context.Context) {
	events := w.debouncer.take()
	if len(events) == 0 {
		return
	}
	debug.Log("watch", "processing %d debounced events", len(events))

	var updates []string
	for path, ev := range events {
		if ev == eventRemove {
			w.cache.ForgetPath(path)
			w.recordStats(1, 0)
			debug.Log("watch", "forgot removed file %s", path)
			continue
		}
		updates = append(updates, path)
	}
	sort.Strings(updates)

	for _, path := range updates {
		if ctx.Err() != nil {
			return
		}
		w.refresh(path)
	}
}

// refresh re-extracts one file and prints the result, unless the
// content hash matches what was last seen for the path.
func (w *Watcher) refresh(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		// Files can vanish between the event and the settle window.
		w.recordStats(1, 1)
		debug.Log("watch", "read %s: %v", path, err)
		return
	}
	lang, ok := extract.LanguageForExtension(filepath.Ext(path))
	if !ok {
		return
	}
	if err := w.validator.Check(path, content); err != nil {
		debug.Log("watch", "skipping %s: %v", path, err)
		return
	}

	key := cache.Key(lang.String(), content)
	if prev, known := w.cache.PathKey(path); known && prev == key {
		debug.Log("watch", "content unchanged for %s, suppressing", path)
		return
	}

	res := types.FileResult{Path: w.relPath(path), Language: lang.String()}
	start := time.Now()

	libs := w.cache.Get(key)
	if libs == nil {
		libs, err = w.extractor.Source(lang, string(content))
		if err != nil {
			res.Status = types.FileStatusFailed
			res.Error = err.Error()
			res.SetDuration(time.Since(start))
			w.recordStats(1, 1)
			if rerr := w.renderer.File(&res); rerr != nil {
				debug.Log("watch", "render %s: %v", path, rerr)
			}
			return
		}
		w.cache.Put(key, libs)
	}
	w.cache.RememberPath(path, key)

	res.Status = types.FileStatusExtracted
	res.Libraries = libs
	res.SetDuration(time.Since(start))
	w.recordStats(1, 0)
	if err := w.renderer.File(&res); err != nil {
		debug.Log("watch", "render %s: %v", path, err)
	}
}

// ignoreDir applies the scanner's directory filters to an absolute
// path from an event or walk.
func (w *Watcher) ignoreDir(path string) bool {
	rel := w.relPath(path)
	if rel == "." {
		return false
	}
	// Check the pattern both bare and with a trailing slash so
	// directory patterns like **/vendor/** prune the dir itself.
	if matchAny(w.cfg.Exclude, rel) || matchAny(w.cfg.Exclude, rel+"/") {
		return true
	}
	if w.gitignore != nil && w.gitignore.ShouldIgnore(rel, true) {
		return true
	}
	return false
}

// shouldProcess applies the scanner's file filters. A negative size
// skips the size check, for paths that no longer exist.
func (w *Watcher) shouldProcess(path string, size int64) bool {
	if _, ok := extract.LanguageForExtension(filepath.Ext(path)); !ok {
		return false
	}
	rel := w.relPath(path)
	if matchAny(w.cfg.Exclude, rel) {
		return false
	}
	if len(w.cfg.Include) > 0 && !matchAny(w.cfg.Include, rel) {
		return false
	}
	if w.gitignore != nil && w.gitignore.ShouldIgnore(rel, false) {
		return false
	}
	if size >= 0 && size > w.cfg.Scan.MaxFileSize {
		debug.Log("watch", "skipping oversized file %s (%d bytes)", path, size)
		return false
	}
	return true
}

func (w *Watcher) relPath(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if matched, err := doublestar.Match(p, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Watcher) recordStats(events, errs int64) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.eventsProcessed += events
	w.errorCount += errs
	w.lastEventTime = time.Now()
}

// Stats describes what the watcher has processed so far.
type Stats struct {
	EventsProcessed int64
	ErrorCount      int64
	LastEventTime   time.Time
}

// Stats returns a snapshot of the session counters.
func (w *Watcher) Stats() Stats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	return Stats{
		EventsProcessed: w.eventsProcessed,
		ErrorCount:      w.errorCount,
		LastEventTime:   w.lastEventTime,
	}
}

// eventDebouncer coalesces raw events per path until they settle for
// one debounce interval, then wakes the batch worker.
type eventDebouncer struct {
	mu       sync.Mutex
	events   map[string]fileEvent
	debounce time.Duration
	timer    *time.Timer
	kick     chan struct{}
}

func newEventDebouncer(debounce time.Duration) *eventDebouncer {
	return &eventDebouncer{
		events:   make(map[string]fileEvent),
		debounce: debounce,
		kick:     make(chan struct{}, 1),
	}
}

// add records the latest event for a path and rearms the settle timer.
func (d *eventDebouncer) add(path string, ev fileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events[path] = ev
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.wake)
}

// wake is non-blocking: if a batch is already pending the worker will
// pick up these events with it.
func (d *eventDebouncer) wake() {
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

// take hands the settled batch to the caller and resets the map.
func (d *eventDebouncer) take() map[string]fileEvent {
	d.mu.Lock()
	defer d.mu.Unlock()

	events := d.events
	d.events = make(map[string]fileEvent)
	return events
}

// stop disarms the timer at shutdown. Events pending at that point are
// dropped; the session is over and nobody is reading the output.
func (d *eventDebouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
