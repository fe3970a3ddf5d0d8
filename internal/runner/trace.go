package runner

import (
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"flowp/pkg/expect"
)

// frameworkPrefixes identify stack frames that belong to the runner itself
// and are hidden from reported traces.
var frameworkPrefixes = []string{
	"runtime.",
	"flowp/internal/runner.",
	"flowp/pkg/behave.",
	"flowp/pkg/expect.",
	"github.com/stretchr/testify/",
	"testing.",
}

// boundaryFunction names protect. Frames below it belong to whoever started
// the run and are cut from traces.
var boundaryFunction string

func init() {
	boundaryFunction = runtime.FuncForPC(reflect.ValueOf(protect).Pointer()).Name()
}

// Frame is one entry of a filtered trace.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Panic is a value recovered from a test, hook or context together with the
// frames that led to it.
type Panic struct {
	Value  any
	Frames []Frame
}

// Failed reports whether the panic is an assertion failure rather than an
// unexpected error.
func (p *Panic) Failed() bool {
	return expect.IsFailure(p.Value)
}

// Message returns the text of the recovered value.
func (p *Panic) Message() string {
	if p.Failed() {
		return fmt.Sprint(p.Value)
	}
	switch v := p.Value.(type) {
	case error:
		return fmt.Sprintf("panic: %s [recovered %T]", v.Error(), v)
	default:
		return fmt.Sprintf("panic: %v", v)
	}
}

// protect runs fn and converts a panic into a *Panic.
func protect(fn func()) (p *Panic) {
	defer func() {
		if r := recover(); r != nil {
			p = &Panic{Value: r, Frames: callerFrames()}
		}
	}()
	fn()
	return nil
}

// callerFrames captures the stack of the panicking goroutine up to the
// innermost protect call. It must be called from the deferred function that
// recovered the panic, while the panicking frames are still on the stack.
func callerFrames() []Frame {
	pcs := make([]uintptr, 128)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []Frame
	for {
		f, more := frames.Next()
		if f.Function == boundaryFunction {
			break
		}
		if !isFrameworkFrame(f.Function) {
			out = append(out, Frame{Function: f.Function, File: f.File, Line: f.Line})
		}
		if !more {
			break
		}
	}
	return out
}

func isFrameworkFrame(function string) bool {
	if function == "" {
		return true
	}
	for _, prefix := range frameworkPrefixes {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}

// TraceFormatter renders panics as human-readable traces.
type TraceFormatter struct {
	stream *ColorStream

	mu    sync.Mutex
	lines map[string][]string
}

// NewTraceFormatter creates a formatter coloring source lines through stream.
func NewTraceFormatter(stream *ColorStream) *TraceFormatter {
	return &TraceFormatter{stream: stream, lines: make(map[string][]string)}
}

// Format renders the frames, most recent call first, followed by the message.
func (f *TraceFormatter) Format(p *Panic) string {
	var b strings.Builder
	for _, frame := range p.Frames {
		fmt.Fprintf(&b, "%s()\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if src := f.sourceLine(frame.File, frame.Line); src != "" {
			fmt.Fprintf(&b, "\t\t%s\n", f.stream.Blue(src))
		}
	}
	b.WriteString(p.Message())
	return b.String()
}

func (f *TraceFormatter) sourceLine(file string, line int) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines, ok := f.lines[file]
	if !ok {
		data, err := os.ReadFile(file)
		if err == nil {
			lines = strings.Split(string(data), "\n")
		}
		f.lines[file] = lines
	}
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
