package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	w, err := New("list.m3u", nil)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(w.Path()))
	assert.Equal(t, DefaultDebounce, w.debounce)

	w.WithDebounce(0)
	assert.Equal(t, DefaultDebounce, w.debounce, "non-positive debounce is ignored")
}

func TestWatcher_Settled(t *testing.T) {
	w, err := New("list.m3u", nil)
	require.NoError(t, err)
	w.WithDebounce(20 * time.Millisecond)

	assert.False(t, w.settled(), "nothing pending")

	w.pending = time.Now()
	assert.False(t, w.settled(), "still inside the window")

	time.Sleep(30 * time.Millisecond)
	assert.True(t, w.settled())
	assert.False(t, w.settled(), "fires once per burst")
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.m3u")
	require.NoError(t, os.WriteFile(path, []byte("#EXTM3U\n"), 0644))

	w, err := New(path, nil)
	require.NoError(t, err)
	w.WithDebounce(30 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(p string) { changes <- p })
	}()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	// Other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.m3u"), []byte("x"), 0644))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("#EXTM3U\n#EXTINF:-1 group-title=\"TR\",A\n"), 0644))
	}

	select {
	case got := <-changes:
		assert.Equal(t, w.Path(), got)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestWatcher_RunMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope", "list.m3u"), nil)
	require.NoError(t, err)

	assert.Error(t, w.Run(context.Background(), func(string) {}))
}
