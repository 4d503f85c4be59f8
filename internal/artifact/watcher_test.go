package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSignalsAfterBurstSettles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig, err := Watch(ctx, dir, 10*time.Millisecond, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("page%d.png", i)), []byte("x"), 0o644))
	}

	select {
	case _, ok := <-sig:
		require.True(t, ok, "watcher closed instead of signaling")
	case <-time.After(3 * time.Second):
		t.Fatal("no signal after artifact writes")
	}
}

func TestWatchClosesCleanlyOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	sig, err := Watch(ctx, dir, time.Nanosecond, nil)
	require.NoError(t, err)

	// Writes landing right up to cancellation leave a debounce timer in
	// flight; shutdown must still close the channel without panicking.
	for i := 0; i < 50; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("a%d.png", i)), []byte("x"), 0o644))
	}
	cancel()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-sig:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("signal channel never closed after cancel")
		}
	}
}

func TestWatchMissingDirFails(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), time.Second, nil)
	assert.Error(t, err)
}

func TestWatchRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"new png", fsnotify.Event{Name: "a.png", Op: fsnotify.Create}, true},
		{"rewritten pdf", fsnotify.Event{Name: "deed.PDF", Op: fsnotify.Write}, true},
		{"renamed jpeg", fsnotify.Event{Name: "scan.jpeg", Op: fsnotify.Rename}, true},
		{"removed png", fsnotify.Event{Name: "a.png", Op: fsnotify.Remove}, false},
		{"chmod only", fsnotify.Event{Name: "a.png", Op: fsnotify.Chmod}, false},
		{"unrelated extension", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, watchRelevant(tt.ev))
		})
	}
}
