package autorun

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowp/internal/config"
)

// syncBuffer is safe to write from the child process copier while a test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func countRuns(out *syncBuffer) int {
	return strings.Count(out.String(), "run\n")
}

func TestNew_RequiresCommand(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	cfg := config.GetDefaultConfig().Autorun

	opts := FromConfig(cfg, []string{"go", "run", "."})
	assert.Equal(t, []string{"go", "run", "."}, opts.Command)
	assert.Equal(t, []string{config.DefaultWatchPattern}, opts.Patterns)
	assert.Equal(t, config.DefaultInterval, opts.Interval)
	assert.Equal(t, config.DefaultDebounce, opts.Debounce)

	cfg.Command = []string{"make", "spec"}
	assert.Equal(t, []string{"make", "spec"}, FromConfig(cfg, []string{"go", "run", "."}).Command)
}

func TestLoop_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	out := &syncBuffer{}
	loop, err := New(Options{
		Command:  []string{"/bin/sh", "-c", "echo run"},
		Dir:      dir,
		Patterns: []string{"**/*.go"},
		Debounce: 20 * time.Millisecond,
		Stdout:   out,
		Stderr:   out,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	require.Eventually(t, func() bool { return countRuns(out) == 1 }, 5*time.Second, 10*time.Millisecond)

	// files outside the patterns are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, countRuns(out))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "spec_cart.go"), []byte("package main\n"), 0644))
	require.Eventually(t, func() bool { return countRuns(out) == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	assert.Equal(t, 2, loop.Runs())
}

func TestLoop_FailingRunKeepsLooping(t *testing.T) {
	dir := t.TempDir()
	out := &syncBuffer{}
	loop, err := New(Options{
		Command:  []string{"/bin/sh", "-c", "echo run; exit 1"},
		Dir:      dir,
		Patterns: []string{"*.go"},
		Debounce: 20 * time.Millisecond,
		Stdout:   out,
		Stderr:   out,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	require.Eventually(t, func() bool { return countRuns(out) == 1 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0644))
	require.Eventually(t, func() bool { return countRuns(out) == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestLoop_ChildSeesAutorunDisabled(t *testing.T) {
	out := &syncBuffer{}
	loop, err := New(Options{
		Command:  []string{"/bin/sh", "-c", "echo $FLOWP_AUTORUN"},
		Dir:      t.TempDir(),
		Patterns: []string{"*.go"},
		Stdout:   out,
		Stderr:   out,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	require.Eventually(t, func() bool { return out.String() == "false\n" }, 5*time.Second, 10*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestLoop_MissingCommandStopsLoop(t *testing.T) {
	loop, err := New(Options{
		Command:  []string{filepath.Join(t.TempDir(), "does-not-exist")},
		Dir:      t.TempDir(),
		Patterns: []string{"*.go"},
		Stdout:   &syncBuffer{},
		Stderr:   &syncBuffer{},
	})
	require.NoError(t, err)

	err = loop.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run")
}

func TestLoop_InvalidPattern(t *testing.T) {
	loop, err := New(Options{
		Command:  []string{"true"},
		Dir:      t.TempDir(),
		Patterns: []string{"[oops"},
	})
	require.NoError(t, err)
	assert.Error(t, loop.Run(context.Background()))
}
