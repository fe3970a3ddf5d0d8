package runner

import (
	"flowp/pkg/logging"
)

// Context is a named precondition attached to a test method. A label has
// neither callback, a plain setup only Setup, and a scoped context both.
type Context struct {
	Name     string
	Setup    func(instance any)
	Teardown func(instance any)
}

// Decorate appends contexts to the method. Applying it repeatedly
// accumulates contexts in call order.
func Decorate(m *Method, ctxs ...Context) *Method {
	m.Contexts = append(m.Contexts, ctxs...)
	return m
}

// Call runs the method body on instance inside its contexts. A panic from a
// setup or the body is re-raised after all pending teardowns have run.
func (m *Method) Call(instance any) {
	s := newScope(instance)
	for _, ctx := range m.Contexts {
		s.enter(ctx.Name, ctx.Setup, ctx.Teardown)
	}
	s.run(m.Body)
	s.unwind()
	if s.failure != nil {
		panic(s.failure.Value)
	}
}

type pendingTeardown struct {
	name string
	fn   func(any)
}

// scope composes setups and teardowns like nested resource acquisition.
// A teardown is registered only once its setup returned normally, and
// teardowns run in reverse registration order. The first panic is kept.
type scope struct {
	instance any
	pending  []pendingTeardown
	failure  *Panic
}

func newScope(instance any) *scope {
	return &scope{instance: instance}
}

// enter runs setup unless an earlier step failed and registers teardown.
func (s *scope) enter(name string, setup, teardown func(any)) {
	if s.failure != nil {
		return
	}
	if setup != nil {
		if p := protect(func() { setup(s.instance) }); p != nil {
			s.failure = p
			return
		}
	}
	if teardown != nil {
		s.pending = append(s.pending, pendingTeardown{name: name, fn: teardown})
	}
}

// run executes fn unless an earlier step failed.
func (s *scope) run(fn func(any)) {
	if fn == nil {
		return
	}
	s.enter("", fn, nil)
}

// unwind runs every registered teardown, most recent first.
func (s *scope) unwind() {
	for i := len(s.pending) - 1; i >= 0; i-- {
		td := s.pending[i]
		s.always(td.name, func() { td.fn(s.instance) })
	}
	s.pending = nil
}

// always runs fn regardless of earlier failures.
func (s *scope) always(name string, fn func()) {
	p := protect(fn)
	if p == nil {
		return
	}
	if s.failure == nil {
		s.failure = p
		return
	}
	logging.Warn("Runner", "Teardown %q panicked after an earlier failure: %s", name, p.Message())
}
