package worktree

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWorktreeEvent(t *testing.T) {
	wts := "/repo/.git/worktrees"
	assert.True(t, isWorktreeEvent(wts, fsnotify.Event{Name: wts + "/team-1", Op: fsnotify.Create}))
	assert.True(t, isWorktreeEvent(wts, fsnotify.Event{Name: wts, Op: fsnotify.Create}))
	assert.True(t, isWorktreeEvent(wts, fsnotify.Event{Name: wts + "/team-1", Op: fsnotify.Remove}))
	assert.False(t, isWorktreeEvent(wts, fsnotify.Event{Name: wts + "/team-1", Op: fsnotify.Write}))
	assert.False(t, isWorktreeEvent(wts, fsnotify.Event{Name: "/repo/.git/index.lock", Op: fsnotify.Create}))
}

func TestWatch_SignalsOnWorktreeDirChange(t *testing.T) {
	common := filepath.Join(t.TempDir(), ".git")
	require.NoError(t, os.MkdirAll(common, 0755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := Watch(ctx, common, 20*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(common, "worktrees"), 0755))

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a signal after the worktrees dir was created")
	}
}
