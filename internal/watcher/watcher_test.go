package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPOFileFilter(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "ja.po", want: true},
		{path: "dir/app_de.PO", want: true},
		{path: "strings.pot", want: true},
		{path: "notes.txt", want: false},
		{path: "ja.po.bak", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, POFileFilter(tt.path), tt.path)
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "ja.po")
	require.NoError(t, os.WriteFile(target, []byte("msgid \"a\"\nmsgstr \"b\"\n"), 0o644))

	var mu sync.Mutex
	var batches [][]string
	done := make(chan struct{}, 4)

	fw, err := New(50*time.Millisecond, POFileFilter, func(paths []string) {
		mu.Lock()
		batches = append(batches, paths)
		mu.Unlock()
		done <- struct{}{}
	})
	require.NoError(t, err)
	require.NoError(t, fw.Add(target))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Start(ctx)

	// Several rapid writes must collapse into a single notification.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("msgid \"a\"\nmsgstr \"c\"\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification received")
	}

	// Allow a trailing flush to land before asserting.
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, batches)
	assert.LessOrEqual(t, len(batches), 2)
	assert.Contains(t, batches[0], target)
}

func TestWatcherIgnoresFilteredFiles(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan []string, 1)
	fw, err := New(30*time.Millisecond, POFileFilter, func(paths []string) {
		fired <- paths
	})
	require.NoError(t, err)
	require.NoError(t, fw.Add(filepath.Join(dir, "ja.po")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case paths := <-fired:
		t.Fatalf("unexpected notification for %v", paths)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	fw, err := New(10*time.Millisecond, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- fw.Start(ctx) }()

	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
