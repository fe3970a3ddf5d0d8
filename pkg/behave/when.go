package behave

import (
	"fmt"
	"sync"

	"flowp/internal/runner"
)

// Context is a named precondition of a test. Tests sharing context names
// are grouped under "when <name>:" in the report.
type Context = runner.Context

// When attaches contexts to a test. Each argument is a Context or a string,
// the latter being a label without any setup. Applying When more than once
// appends to the contexts already attached.
//
//	b.It("shows the dashboard", showsDashboard, behave.When(loggedIn, "with a fresh account"))
func When(ctxs ...any) Option {
	converted := make([]Context, 0, len(ctxs))
	for _, c := range ctxs {
		switch v := c.(type) {
		case Context:
			converted = append(converted, v)
		case string:
			converted = append(converted, Label(v))
		default:
			panic(fmt.Sprintf("behave.When: unsupported context %T, want behave.Context or string", c))
		}
	}
	return func(m *runner.Method) {
		runner.Decorate(m, converted...)
	}
}

// Label is a context that only names a group of tests.
func Label(name string) Context {
	return Context{Name: name}
}

// Given is a context running fn before the test body.
func Given[S any](name string, fn func(s *S)) Context {
	return Context{
		Name:  name,
		Setup: func(instance any) { fn(instance.(*S)) },
	}
}

// Using is Given named after fn: a function declared as loggedInAsAdmin
// yields the context "logged in as admin".
func Using[S any](fn func(s *S)) Context {
	return Given(derivedName(fn), fn)
}

// Around is a context whose fn prepares the test and returns the function
// undoing it. The returned function runs after the body, also when the body
// fails, and may be nil.
//
//	behave.Around("with a temp dir", func(w *World) func() {
//		restore, _ := files.Cd(w.tmp)
//		return func() { restore() }
//	})
func Around[S any](name string, fn func(s *S) func()) Context {
	var teardowns sync.Map
	return Context{
		Name: name,
		Setup: func(instance any) {
			if undo := fn(instance.(*S)); undo != nil {
				teardowns.Store(instance, undo)
			}
		},
		Teardown: func(instance any) {
			if undo, ok := teardowns.LoadAndDelete(instance); ok {
				undo.(func())()
			}
		},
	}
}

// AroundUsing is Around named after fn.
func AroundUsing[S any](fn func(s *S) func()) Context {
	return Around(derivedName(fn), fn)
}

func derivedName(fn any) string {
	if name := runner.FuncName(fn); name != "" {
		return name
	}
	return "context"
}
