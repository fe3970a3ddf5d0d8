package expect

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failureOf runs fn and returns the assertion failure it raised, if any.
func failureOf(t *testing.T, fn func()) (failure *AssertionFailure) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*AssertionFailure)
			require.True(t, ok, "unexpected panic value %#v", r)
			failure = f
		}
	}()
	fn()
	return nil
}

func TestExpectations(t *testing.T) {
	type point struct{ X, Y int }
	p := &point{1, 2}
	sentinel := errors.New("not found")

	tests := []struct {
		name   string
		fn     func()
		passes bool
	}{
		{"ToBe equal ints", func() { That(1).ToBe(1) }, true},
		{"ToBe different ints", func() { That(1).ToBe(2) }, false},
		{"ToBe same pointer", func() { That(p).ToBe(p) }, true},
		{"ToBe distinct pointers", func() { That(&point{1, 2}).ToBe(&point{1, 2}) }, false},
		{"NotToBe", func() { That("a").NotToBe("b") }, true},
		{"NotToBe same", func() { That("a").NotToBe("a") }, false},
		{"ToEqual converts", func() { That(int64(3)).ToEqual(3) }, true},
		{"ToEqual structs", func() { That(point{1, 2}).ToEqual(point{1, 2}) }, true},
		{"NotToEqual", func() { That([]int{1}).NotToEqual([]int{2}) }, true},
		{"ToBeTruthy bool", func() { That(true).ToBeTruthy() }, true},
		{"ToBeTruthy empty string", func() { That("").ToBeTruthy() }, false},
		{"ToBeTruthy number", func() { That(7).ToBeTruthy() }, true},
		{"ToBeFalsy zero", func() { That(0).ToBeFalsy() }, true},
		{"ToBeFalsy nil slice", func() { That([]string(nil)).ToBeFalsy() }, true},
		{"ToBeNil", func() { That[error](nil).ToBeNil() }, true},
		{"NotToBeNil", func() { That(p).NotToBeNil() }, true},
		{"ToBeIn slice", func() { That(2).ToBeIn([]int{1, 2, 3}) }, true},
		{"ToBeIn missing", func() { That(5).ToBeIn([]int{1, 2, 3}) }, false},
		{"NotToBeIn", func() { That("x").NotToBeIn("abc") }, true},
		{"ToContain substring", func() { That("hello world").ToContain("world") }, true},
		{"ToContain map key", func() { That(map[string]int{"a": 1}).ToContain("a") }, true},
		{"NotToContain", func() { That([]string{"a"}).NotToContain("b") }, true},
		{"ToHaveLen", func() { That([]int{1, 2}).ToHaveLen(2) }, true},
		{"ToBeA", func() { That(p).ToBeA(&point{}) }, true},
		{"ToBeA mismatch", func() { That(1).ToBeA("") }, false},
		{"ToBeLessThan", func() { That(1).ToBeLessThan(2) }, true},
		{"ToBeGreaterThan", func() { That("b").ToBeGreaterThan("a") }, true},
		{"ToBeGreaterThan fails", func() { That(1.5).ToBeGreaterThan(2.5) }, false},
		{"ToMatchError wrapped", func() { That(fmt.Errorf("load: %w", sentinel)).ToMatchError(sentinel) }, true},
		{"ToMatchError other", func() { That(errors.New("x")).ToMatchError(sentinel) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure := failureOf(t, tt.fn)
			if tt.passes {
				assert.Nil(t, failure)
			} else {
				assert.NotNil(t, failure)
			}
		})
	}
}

func TestChaining(t *testing.T) {
	failure := failureOf(t, func() {
		That(5).ToBeGreaterThan(1).ToBeLessThan(10).NotToBe(6)
	})
	assert.Nil(t, failure)
}

func TestFailureMessage(t *testing.T) {
	failure := failureOf(t, func() { That(1).ToBe(2) })
	require.NotNil(t, failure)
	assert.Equal(t, "Expected\n    1\nto be\n    2", failure.Error())

	failure = failureOf(t, func() { That("").ToBeTruthy() })
	require.NotNil(t, failure)
	assert.Equal(t, "Expected\n    \"\"\nto be truthy", failure.Error())
}

func TestFail(t *testing.T) {
	failure := failureOf(t, func() { Failf("value was %d", 3) })
	require.NotNil(t, failure)
	assert.Equal(t, "value was 3", failure.Message)

	failure = failureOf(t, func() { Fail("100%") })
	require.NotNil(t, failure)
	assert.Equal(t, "100%", failure.Message)
}

func TestIsFailure(t *testing.T) {
	assert.True(t, IsFailure(&AssertionFailure{Message: "x"}))
	assert.True(t, IsFailure(fmt.Errorf("setup: %w", &AssertionFailure{})))
	assert.False(t, IsFailure(errors.New("boom")))
	assert.False(t, IsFailure("boom"))
	assert.False(t, IsFailure(nil))
}

func TestCall(t *testing.T) {
	errClosed := errors.New("closed")

	t.Run("ToFail passes on assertion failure", func(t *testing.T) {
		assert.Nil(t, failureOf(t, func() {
			Call(func() { That(1).ToBe(2) }).ToFail()
		}))
	})

	t.Run("ToFail fails when nothing panics", func(t *testing.T) {
		assert.NotNil(t, failureOf(t, func() {
			Call(func() {}).ToFail()
		}))
	})

	t.Run("ToFail propagates other panics", func(t *testing.T) {
		assert.PanicsWithError(t, "closed", func() {
			Call(func() { panic(errClosed) }).ToFail()
		})
	})

	t.Run("ToPanicWith matches wrapped errors", func(t *testing.T) {
		assert.Nil(t, failureOf(t, func() {
			Call(func() { panic(fmt.Errorf("read: %w", errClosed)) }).ToPanicWith(errClosed)
		}))
	})

	t.Run("ToPanic accepts any value", func(t *testing.T) {
		assert.Nil(t, failureOf(t, func() {
			Call(func() { panic("anything") }).ToPanic()
		}))
	})

	t.Run("NotToPanic", func(t *testing.T) {
		assert.Nil(t, failureOf(t, func() { Call(func() {}).NotToPanic() }))
		assert.NotNil(t, failureOf(t, func() { Call(func() { panic(1) }).NotToPanic() }))
	})
}
