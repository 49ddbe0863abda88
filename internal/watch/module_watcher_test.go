package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codenerd/internal/pipeline"

	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestModuleWatcher_BaseWriteTriggersUpdate(t *testing.T) {
	dir := t.TempDir()
	stack := pipeline.CreateEnvStack(map[string]string{
		"a": "class X: pass",
	})

	w, err := NewModuleWatcher(stack, dir)
	require.NoError(t, err)
	w.debounceDur = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("class X(object): pass"), 0644))

	waitFor(t, 2*time.Second, func() bool {
		v, err := stack.Code.Get("a", "")
		return err == nil && v == "class X(object): pass"
	})
}

func TestModuleWatcher_OverlayWriteUpdatesOverlayOnly(t *testing.T) {
	dir := t.TempDir()
	stack := pipeline.CreateEnvStack(map[string]string{
		"a": "class X: pass",
	})

	w, err := NewModuleWatcher(stack, dir)
	require.NoError(t, err)
	w.debounceDur = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	overlayPath := filepath.Join(dir, ".overlay", "a.py")
	require.NoError(t, os.WriteFile(overlayPath, []byte("class X(object): pass"), 0644))

	waitFor(t, 2*time.Second, func() bool {
		_, err := stack.Code.Child("a")
		return err == nil
	})

	v, err := stack.Code.Get("a", "")
	require.NoError(t, err)
	require.Equal(t, "class X: pass", v, "base stack must remain untouched by an overlay write")
}
