package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowp/pkg/expect"
	"flowp/pkg/logging"
)

func recording(log *[]string, name string) Context {
	return Context{
		Name:     name,
		Setup:    func(any) { *log = append(*log, name+" setup") },
		Teardown: func(any) { *log = append(*log, name+" teardown") },
	}
}

func TestDecorate_Appends(t *testing.T) {
	m := &Method{Name: "it_works"}
	Decorate(m, Context{Name: "logged in"})
	Decorate(m, Context{Name: "admin"}, Context{Name: "with cart"})

	assert.Equal(t, []string{"logged in", "admin", "with cart"}, m.ContextNames())
}

func TestMethodCall_StackOrder(t *testing.T) {
	tests := []struct {
		name     string
		body     func(log *[]string)
		panics   bool
		expected []string
	}{
		{
			name:   "success",
			body:   func(log *[]string) { *log = append(*log, "body") },
			panics: false,
			expected: []string{
				"one setup", "two setup", "three setup",
				"body",
				"three teardown", "two teardown", "one teardown",
			},
		},
		{
			name: "body panics",
			body: func(log *[]string) {
				*log = append(*log, "body")
				panic("boom")
			},
			panics: true,
			expected: []string{
				"one setup", "two setup", "three setup",
				"body",
				"three teardown", "two teardown", "one teardown",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			m := &Method{Name: "it_runs", Body: func(any) { tt.body(&log) }}
			Decorate(m, recording(&log, "one"), recording(&log, "two"), recording(&log, "three"))

			if tt.panics {
				assert.PanicsWithValue(t, "boom", func() { m.Call(nil) })
			} else {
				assert.NotPanics(t, func() { m.Call(nil) })
			}
			assert.Equal(t, tt.expected, log)
		})
	}
}

func TestMethodCall_SetupPanicSkipsLaterContexts(t *testing.T) {
	var log []string
	m := &Method{Name: "it_never_runs", Body: func(any) { log = append(log, "body") }}
	failing := Context{
		Name:     "broken",
		Setup:    func(any) { panic(errors.New("no database")) },
		Teardown: func(any) { log = append(log, "broken teardown") },
	}
	Decorate(m, recording(&log, "one"), failing, recording(&log, "three"))

	assert.PanicsWithError(t, "no database", func() { m.Call(nil) })
	assert.Equal(t, []string{"one setup", "one teardown"}, log)
}

func TestMethodCall_PassesInstance(t *testing.T) {
	type session struct{ user string }
	s := &session{}
	var seen string

	m := &Method{Name: "it_sees_user", Body: func(instance any) { seen = instance.(*session).user }}
	Decorate(m, Context{
		Name:     "logged in",
		Setup:    func(instance any) { instance.(*session).user = "admin" },
		Teardown: func(instance any) { instance.(*session).user = "" },
	})

	m.Call(s)
	assert.Equal(t, "admin", seen)
	assert.Equal(t, "", s.user)
}

func TestScope_FirstFailureWins(t *testing.T) {
	var entries []logging.LogEntry
	remove := logging.AddHook(func(e logging.LogEntry) {
		if e.Subsystem == "Runner" {
			entries = append(entries, e)
		}
	})
	defer remove()

	s := newScope(nil)
	s.enter("outer", nil, func(any) { panic("teardown exploded") })
	s.run(func(any) { expect.Fail("expected 1 to be 2") })
	s.unwind()

	require.NotNil(t, s.failure)
	assert.True(t, s.failure.Failed())
	assert.Equal(t, "expected 1 to be 2", s.failure.Message())

	require.Len(t, entries, 1)
	assert.Equal(t, logging.LevelWarn, entries[0].Level)
	assert.Contains(t, entries[0].Message, "teardown exploded")
}

func TestScope_TeardownPanicIsReported(t *testing.T) {
	s := newScope(nil)
	s.enter("ctx", nil, func(any) { panic("cleanup failed") })
	s.run(func(any) {})
	s.unwind()

	require.NotNil(t, s.failure)
	assert.False(t, s.failure.Failed())
	assert.Equal(t, "panic: cleanup failed", s.failure.Message())
}
