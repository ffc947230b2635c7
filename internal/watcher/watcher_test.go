package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/workbench/internal/watcher"
)

func newWatcher(t *testing.T, paths ...string) <-chan string {
	t.Helper()
	w, err := watcher.New(watcher.Config{DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	for _, p := range paths {
		require.NoError(t, w.Add(p))
	}
	return w.Start()
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main"), 0o644))

	onChange := newWatcher(t, path)

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("package main // %d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case got := <-onChange:
		require.Equal(t, path, got)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))

	onChange := newWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	select {
	case got := <-onChange:
		t.Fatalf("unexpected notification for %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ReportsEachFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.py")
	b := filepath.Join(dir, "b.py")
	require.NoError(t, os.WriteFile(a, nil, 0o644))
	require.NoError(t, os.WriteFile(b, nil, 0o644))

	onChange := newWatcher(t, a, b)

	require.NoError(t, os.WriteFile(a, []byte("x = 1"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("y = 2"), 0o644))

	got := map[string]bool{}
	for len(got) < 2 {
		select {
		case p := <-onChange:
			got[p] = true
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("expected both files, got %v", got)
		}
	}
	require.True(t, got[a])
	require.True(t, got[b])
}

func TestWatcher_RenameOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	onChange := newWatcher(t, path)

	tmp := filepath.Join(dir, ".notes.md.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("new"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case got := <-onChange:
		require.Equal(t, path, got)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := watcher.New(watcher.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Add(path))
	require.NoError(t, w.Add(path)) // No effect
	require.NoError(t, w.Remove(path))
	require.NoError(t, w.Remove(path))
	onChange := w.Start()

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
	select {
	case got := <-onChange:
		t.Fatalf("unexpected notification for %s", got)
	case <-time.After(400 * time.Millisecond):
	}
}
