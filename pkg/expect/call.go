package expect

import (
	"errors"
	"fmt"
)

// CallExpectation describes how a function is expected to terminate.
type CallExpectation struct {
	fn func()
}

// Call wraps fn so its termination can be checked.
func Call(fn func()) *CallExpectation {
	return &CallExpectation{fn: fn}
}

// run invokes the wrapped function and returns the recovered panic value.
func (c *CallExpectation) run() (recovered interface{}, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
			panicked = true
		}
	}()
	c.fn()
	return nil, false
}

// ToFail checks that the call fails an expectation.
func (c *CallExpectation) ToFail() {
	c.ToPanicWith(&AssertionFailure{})
}

// ToPanic checks that the call panics with any value.
func (c *CallExpectation) ToPanic() {
	if _, panicked := c.run(); !panicked {
		Fail("Expected call to panic")
	}
}

// ToPanicWith checks that the call panics with an error matching target.
// Panics with other values are propagated untouched.
func (c *CallExpectation) ToPanicWith(target error) {
	r, panicked := c.run()
	if !panicked {
		Failf("Expected call to panic with %s", describe(target))
	}
	if !errors.Is(asError(r), target) {
		panic(r)
	}
}

// NotToPanic checks that the call returns normally.
func (c *CallExpectation) NotToPanic() {
	if r, panicked := c.run(); panicked {
		Failf("Expected call not to panic, got %s", describe(r))
	}
}

func asError(v interface{}) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}
