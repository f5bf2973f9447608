package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		path   string
		ignore bool
	}{
		{"content/post.md", false},
		{"content/.hidden.md", true},
		{"content/post.md~", true},
		{"content/.post.md.swp", true},
		{"content/post.swx", true},
		{"content/#post.md#", true},
		{"content/.#post.md", true},
		{"content/.DS_Store", true},
		{"content/Thumbs.db", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ignore, shouldIgnoreEvent(tt.path), tt.path)
	}
}

func startWatch(t *testing.T, dir string, rebuild RebuildFunc, opts ...Option) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	opts = append([]Option{WithDebounce(20 * time.Millisecond), WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	go func() { done <- Run(ctx, []string{dir}, rebuild, opts...) }()
	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)
	return cancel, done
}

func TestRun_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	cancel, done := startWatch(t, dir, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	sub := filepath.Join(dir, "nl")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.md"), []byte("b"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 3 }, 2*time.Second, 10*time.Millisecond,
		"new directories are watched")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	cancel, done := startWatch(t, dir, func(context.Context) error {
		calls.Add(1)
		return nil
	}, WithDebounce(150*time.Millisecond))
	defer func() { cancel(); <-done }()

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte{byte('a' + i)}, 0o600))
	}
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_KeepsRunningAfterFailedRebuild(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	cancel, done := startWatch(t, dir, func(context.Context) error {
		calls.Add(1)
		return errors.New("broken front matter")
	})
	defer func() { cancel(); <-done }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_IgnoresOutputDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "_site")
	require.NoError(t, os.Mkdir(out, 0o750))
	var calls atomic.Int32

	cancel, done := startWatch(t, dir, func(context.Context) error {
		calls.Add(1)
		return nil
	}, WithIgnore(out))
	defer func() { cancel(); <-done }()

	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestRun_MissingDirectory(t *testing.T) {
	err := Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, func(context.Context) error { return nil })
	assert.Error(t, err)
}
