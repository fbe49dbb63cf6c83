package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func startWatcher(t *testing.T, cfg Config) (<-chan []string, context.CancelFunc) {
	t.Helper()

	calls := make(chan []string, 16)
	cfg.Logger = quietLogger()
	cfg.OnChange = func(_ context.Context, changed []string) error {
		calls <- changed
		return nil
	}

	w, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	return calls, cancel
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(scene, []byte("a"), 0o644))

	calls, _ := startWatcher(t, Config{
		BaseDir:  dir,
		Patterns: []string{"scene.yaml"},
		Debounce: 100 * time.Millisecond,
	})

	for i := range 5 {
		require.NoError(t, os.WriteFile(scene, []byte{byte('b' + i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case changed := <-calls:
		assert.Equal(t, []string{"scene.yaml"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no callback")
	}

	select {
	case changed := <-calls:
		t.Fatalf("unexpected second callback: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_PatternsAndIgnores(t *testing.T) {
	dir := t.TempDir()

	calls, _ := startWatcher(t, Config{
		BaseDir:  dir,
		Patterns: []string{"**/*.yaml"},
		Ignore:   []string{"**/skip-*.yaml"},
		Debounce: 50 * time.Millisecond,
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip-me.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.yaml"), []byte("x"), 0o644))

	select {
	case changed := <-calls:
		assert.Equal(t, []string{"keep.yaml"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no callback")
	}
}

func TestWatcher_CallbacksDoNotOverlap(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.yaml")

	var active, overlapped atomic.Int32
	calls := make(chan struct{}, 16)

	w, err := New(Config{
		BaseDir:  dir,
		Debounce: 20 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(context.Context, []string) error {
			if active.Add(1) > 1 {
				overlapped.Store(1)
			}
			time.Sleep(100 * time.Millisecond)
			active.Add(-1)
			calls <- struct{}{}

			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	for i := range 4 {
		require.NoError(t, os.WriteFile(scene, []byte{byte('a' + i)}, 0o644))
		time.Sleep(60 * time.Millisecond)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback")
	}

	assert.Zero(t, overlapped.Load())
}

func TestWatcher_RunTwice(t *testing.T) {
	w, err := New(Config{BaseDir: t.TempDir(), Logger: quietLogger()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, w.Run(ctx))
	assert.ErrorIs(t, w.Run(ctx), ErrAlreadyRunning)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{BaseDir: t.TempDir(), Patterns: []string{"[oops"}})
	assert.ErrorContains(t, err, "invalid watch pattern")

	_, err = New(Config{BaseDir: t.TempDir(), Ignore: []string{"[oops"}})
	assert.ErrorContains(t, err, "invalid ignore pattern")

	_, err = New(Config{BaseDir: filepath.Join(t.TempDir(), "missing"), Logger: quietLogger()})
	assert.Error(t, err)
}

func TestDefaultIgnores(t *testing.T) {
	ignores := DefaultIgnores()
	assert.True(t, matchAny(ignores, ".git/HEAD"))
	assert.True(t, matchAny(ignores, "scenes/.scene.yaml.swp"))
	assert.False(t, matchAny(ignores, "scene.yaml"))

	ignores[0] = "changed"
	assert.NotEqual(t, "changed", DefaultIgnores()[0])
}
