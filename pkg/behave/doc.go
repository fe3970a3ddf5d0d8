// Package behave is the DSL for writing flowp behaviors.
//
// A spec program is a main package. Each of its spec sources (files named
// spec_*.go by default) declares behaviors with Describe; main calls Main:
//
//	type World struct {
//		behave.Fixture
//		session *auth.Session
//	}
//
//	var loggedIn = behave.Around("logged in", func(w *World) func() {
//		w.session = auth.Login("admin")
//		return func() { w.session.Close() }
//	})
//
//	var _ = behave.Describe("Login", func(b *behave.Builder[World]) {
//		b.It("shows the login page", func(w *World) {
//			expect.That(page(w)).ToEqual("login")
//		})
//		b.It("shows the dashboard", func(w *World) {
//			expect.That(page(w)).ToEqual("dashboard")
//		}, behave.When(loggedIn))
//	})
//
// Every test runs on a fresh *World. Hooks of enclosing behaviors run
// around the hooks of nested ones, contexts attached with When run inside
// all hooks, and patches installed with Patch are undone after each test.
package behave
