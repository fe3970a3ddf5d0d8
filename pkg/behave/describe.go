package behave

import (
	"fmt"
	"path/filepath"
	"runtime"

	"flowp/internal/runner"
	"flowp/pkg/logging"
)

// Describe registers a behavior whose tests operate on a fresh *S each.
// The behavior belongs to the spec source of the calling file, so it is
// selected by the configured source patterns (spec_*.go by default).
//
// It returns true so it can be used in a package-level declaration:
//
//	var _ = behave.Describe("Login", func(b *behave.Builder[World]) {
//		b.It("shows the login page", func(w *World) { ... })
//	})
//
// body runs when the behaviors are loaded, not at registration. A panic in
// body is reported as a failing test named after the source.
func Describe[S any](name string, body func(b *Builder[S])) bool {
	source := "unknown"
	if _, file, _, ok := runtime.Caller(1); ok {
		source = filepath.Base(file)
	}
	describeIn(runner.DefaultRegistry, source, name, body)
	return true
}

func describeIn[S any](reg *runner.Registry, source, name string, body func(b *Builder[S])) {
	reg.Register(source, func() []*runner.Class {
		return []*runner.Class{build(name, body)}
	})
}

func build[S any](name string, body func(b *Builder[S])) *runner.Class {
	b := &Builder[S]{class: &runner.Class{
		Name: name,
		New:  func() any { return new(S) },
	}}
	body(b)
	return b.class
}

// Builder declares the tests, hooks and nested behaviors of one behavior.
type Builder[S any] struct {
	class *runner.Class
}

// It adds a test. Names read as sentences: "it_shows_errors", "it shows
// errors" and "shows errors" are all reported as "shows errors".
func (b *Builder[S]) It(name string, body func(s *S), opts ...Option) {
	if body == nil {
		panic(fmt.Sprintf("test %q of %q has no body", name, b.class.Name))
	}
	m := &runner.Method{
		Name: name,
		Body: func(instance any) { body(instance.(*S)) },
	}
	for _, opt := range opts {
		opt(m)
	}
	b.class.Methods = append(b.class.Methods, m)
}

// Describe nests a behavior. Its tests are reported under "when <name>:"
// and run inside the hooks of every enclosing behavior.
func (b *Builder[S]) Describe(name string, body func(b *Builder[S])) {
	child := build(name, body)
	child.Parent = b.class
	b.class.Children = append(b.class.Children, child)
}

// BeforeEach runs fn before every test of this behavior and of the
// behaviors nested in it. Hooks registered later run later.
func (b *Builder[S]) BeforeEach(fn func(s *S)) {
	prev := b.class.BeforeEach
	b.class.BeforeEach = func(instance any) {
		if prev != nil {
			prev(instance)
		}
		fn(instance.(*S))
	}
}

// AfterEach runs fn after every test of this behavior, even a failing one.
// Hooks registered later run first; when one panics the earlier ones still
// run and the first panic is the one reported.
func (b *Builder[S]) AfterEach(fn func(s *S)) {
	prev := b.class.AfterEach
	b.class.AfterEach = func(instance any) {
		returned := false
		defer func() {
			if prev == nil {
				return
			}
			if !returned {
				defer func() {
					if r := recover(); r != nil {
						logging.Warn("Behave", "AfterEach of %q panicked after an earlier failure: %v", b.class.Name, r)
					}
				}()
			}
			prev(instance)
		}()
		fn(instance.(*S))
		returned = true
	}
}

// Option adjusts a test declared with It.
type Option func(m *runner.Method)

// Only runs the marked tests exclusively: once any test of the run carries
// it, every unmarked test is skipped.
func Only() Option {
	return func(m *runner.Method) {
		m.Only = true
	}
}

// Skip skips the test without running any of its hooks.
func Skip(reason string) Option {
	return func(m *runner.Method) {
		m.Skip = true
		m.SkipReason = reason
	}
}
