package runner

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// ColorStream is the console writer used by reporters. Color output can be
// switched off independently of the terminal detection done by fatih/color.
type ColorStream struct {
	mu     sync.Mutex
	w      io.Writer
	colors bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	blue   *color.Color
}

// NewColorStream wraps w. When colors is false all helpers return plain text.
func NewColorStream(w io.Writer, colors bool) *ColorStream {
	s := &ColorStream{
		w:      w,
		colors: colors,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		blue:   color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{s.green, s.red, s.yellow, s.blue} {
		if colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Colors reports whether ANSI colors are emitted.
func (s *ColorStream) Colors() bool {
	return s.colors
}

// Write serializes writes to the underlying writer.
func (s *ColorStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Printf formats and writes text.
func (s *ColorStream) Printf(format string, args ...interface{}) {
	fmt.Fprintf(s, format, args...)
}

// Println writes text followed by a newline.
func (s *ColorStream) Println(text string) {
	fmt.Fprintln(s, text)
}

func (s *ColorStream) Green(text string) string  { return s.green.Sprint(text) }
func (s *ColorStream) Red(text string) string    { return s.red.Sprint(text) }
func (s *ColorStream) Yellow(text string) string { return s.yellow.Sprint(text) }
func (s *ColorStream) Blue(text string) string   { return s.blue.Sprint(text) }

// ForResult colors text the way a result of r is shown.
func (s *ColorStream) ForResult(r Result, text string) string {
	switch r {
	case ResultPassed:
		return s.Green(text)
	case ResultSkipped:
		return s.Yellow(text)
	default:
		return s.Red(text)
	}
}
