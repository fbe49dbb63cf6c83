// Package watch runs a callback when watched files change.
//
// Events are debounced: a burst of writes (an editor saving through a temp
// file, or several saves in a row) results in one callback with every
// changed path. Callbacks never overlap.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// Config holds the parameters for a Watcher.
type Config struct {
	// BaseDir is the directory watched, recursively. Empty means the
	// working directory.
	BaseDir string
	// Patterns are doublestar globs relative to BaseDir selecting the files
	// that trigger the callback. Empty selects every file.
	Patterns []string
	// Ignore adds to the built-in ignore globs.
	Ignore []string
	// Debounce is the quiet period after the last event.
	Debounce time.Duration
	// OnChange receives the changed paths, relative to BaseDir and sorted.
	// Its error is logged and does not stop the watcher.
	OnChange func(ctx context.Context, changed []string) error
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher monitors BaseDir. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	ignores  []string
	debounce time.Duration
	baseDir  string
	logger   *slog.Logger
	started  atomic.Bool
}

// New validates cfg and registers every non-ignored directory under
// BaseDir.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: debounce,
		baseDir:  absBase,
		logger:   logger,
	}

	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}

		// A slow callback delays the next one instead of overlapping it.
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Debug("watched files changed", slog.Any("paths", changed))

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch callback failed", slog.Any("error", err))
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()

		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("watch: close fsnotify", slog.Any("error", err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}

			if w.isIgnored(rel) || !w.matchesPatterns(rel) {
				continue
			}

			mu.Lock()
			pending[filepath.ToSlash(rel)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}

			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch: events dropped", slog.Any("error", err))
				continue
			}

			return fmt.Errorf("watch: fsnotify: %w", err)
		}
	}
}

func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.baseDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == w.baseDir {
				return walkErr
			}

			w.logger.Warn("watch: skipping inaccessible path", slog.String("path", path), slog.Any("error", walkErr))

			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(w.baseDir, path)
		if err != nil {
			return nil
		}

		if path != w.baseDir && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}

	return nil
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil || w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}

	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch: add new directory", slog.String("path", path), slog.Any("error", err))
	}
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}

	return false
}

// DefaultIgnores returns a copy of the built-in ignore globs.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}

	return nil
}
