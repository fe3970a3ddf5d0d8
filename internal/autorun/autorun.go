package autorun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/sync/errgroup"

	"flowp/internal/config"
	"flowp/pkg/files"
	"flowp/pkg/logging"
)

// ChildEnv is set in the environment of every run started by the loop so
// the child never starts a loop of its own.
const ChildEnv = config.EnvPrefix + "AUTORUN=false"

// Options configures a Loop.
type Options struct {
	// Command is the argv run once per cycle.
	Command []string
	// Dir is the working directory of the command and the watched root.
	Dir string
	// Patterns select the watched files, doublestar syntax.
	Patterns []string
	// Interval is the pause between the end of a run and the next one.
	Interval time.Duration
	// Debounce is the quiet period collapsing a burst of file events.
	Debounce time.Duration

	Stdout io.Writer
	Stderr io.Writer

	// Spinner shows an indicator on Stderr while waiting for changes.
	Spinner bool
}

// FromConfig builds loop options from the autorun section of cfg.
func FromConfig(cfg config.AutorunConfig, command []string) Options {
	if len(cfg.Command) > 0 {
		command = cfg.Command
	}
	return Options{
		Command:  command,
		Patterns: cfg.Patterns,
		Interval: cfg.Interval,
		Debounce: cfg.Debounce,
	}
}

// Loop re-runs a command whenever watched files change.
type Loop struct {
	opts    Options
	changes chan string
	runs    atomic.Int32
}

// New validates opts and creates a loop.
func New(opts Options) (*Loop, error) {
	if len(opts.Command) == 0 {
		return nil, errors.New("autorun needs a command to run")
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Loop{
		opts:    opts,
		changes: make(chan string, 1),
	}, nil
}

// Run starts the command, then re-runs it after every change until ctx is
// cancelled or the process receives SIGINT or SIGTERM. An interrupted loop
// returns nil once the watcher is closed.
func (l *Loop) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := files.Watch(l.opts.Dir, l.opts.Patterns, l.notify, files.WithDebounce(l.opts.Debounce))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", l.opts.Dir, err)
	}
	logging.Info("Autorun", "Watching %s for changes to %s", w.Root(), strings.Join(l.opts.Patterns, ", "))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return w.Stop()
	})
	g.Go(func() error {
		return l.cycle(gctx)
	})

	err = g.Wait()
	if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled)) {
		logging.Info("Autorun", "Stopped after %d runs", l.runs.Load())
		return nil
	}
	return err
}

// Runs returns how many times the command was started.
func (l *Loop) Runs() int {
	return int(l.runs.Load())
}

func (l *Loop) notify(path string, event files.Event) {
	logging.Debug("Autorun", "%s %s", event, path)
	select {
	case l.changes <- path:
	default:
	}
}

func (l *Loop) cycle(ctx context.Context) error {
	for {
		if err := l.runOnce(ctx); err != nil {
			return err
		}
		if err := sleep(ctx, l.opts.Interval); err != nil {
			return err
		}
		if err := l.waitForChange(ctx); err != nil {
			return err
		}
	}
}

func (l *Loop) waitForChange(ctx context.Context) error {
	if l.opts.Spinner {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(l.opts.Stderr))
		s.Suffix = " Waiting for changes..."
		s.Start()
		defer s.Stop()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case path := <-l.changes:
		logging.Info("Autorun", "Change detected in %s, running again", path)
		return nil
	}
}

// runOnce runs the command to completion. A failing run is reported by the
// command itself; only a command that cannot be started stops the loop.
func (l *Loop) runOnce(ctx context.Context) error {
	run := l.runs.Add(1)
	cmd := exec.CommandContext(ctx, l.opts.Command[0], l.opts.Command[1:]...)
	cmd.Dir = l.opts.Dir
	cmd.Stdout = l.opts.Stdout
	cmd.Stderr = l.opts.Stderr
	cmd.Env = append(os.Environ(), ChildEnv)

	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logging.Debug("Autorun", "Run %d exited with status %d", run, exitErr.ExitCode())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", strings.Join(l.opts.Command, " "), err)
	}
	logging.Debug("Autorun", "Run %d succeeded", run)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
