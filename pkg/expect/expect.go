// Package expect provides the assertion layer used by behaviors.
//
// Expectations do not return errors: when one does not hold, it panics with an
// *AssertionFailure, which the runner recovers and reports as a failed test.
// Any other panic escaping a test is reported as an error instead.
package expect

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/stretchr/testify/assert"
)

// AssertionFailure signals that an expectation did not hold.
type AssertionFailure struct {
	Message string
}

// Error implements the error interface.
func (f *AssertionFailure) Error() string {
	return f.Message
}

// Is reports whether target is also an assertion failure.
func (f *AssertionFailure) Is(target error) bool {
	_, ok := target.(*AssertionFailure)
	return ok
}

// Fail aborts the current test with an assertion failure.
func Fail(msg string) {
	panic(&AssertionFailure{Message: msg})
}

// Failf is Fail with a formatted message.
func Failf(format string, args ...interface{}) {
	Fail(fmt.Sprintf(format, args...))
}

// IsFailure reports whether a recovered panic value is an assertion failure.
func IsFailure(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	var failure *AssertionFailure
	return errors.As(err, &failure)
}

// discard satisfies assert.TestingT; only the boolean results of testify's
// checks are used, messages are built here.
type discard struct{}

func (discard) Errorf(string, ...interface{}) {}

// Expectation wraps an actual value of type T.
type Expectation[T any] struct {
	actual T
}

// That starts an expectation on actual.
func That[T any](actual T) *Expectation[T] {
	return &Expectation[T]{actual: actual}
}

// Actual returns the wrapped value.
func (e *Expectation[T]) Actual() T {
	return e.actual
}

// ToBe checks that actual is expected. Pointers are compared by identity.
func (e *Expectation[T]) ToBe(expected T) *Expectation[T] {
	if !identical(expected, e.actual) {
		failf("to be", e.actual, expected)
	}
	return e
}

// NotToBe is the negation of ToBe.
func (e *Expectation[T]) NotToBe(expected T) *Expectation[T] {
	if identical(expected, e.actual) {
		failf("not to be", e.actual, expected)
	}
	return e
}

// ToEqual compares with conversion between compatible types, so
// That(int64(1)).ToEqual(1) holds.
func (e *Expectation[T]) ToEqual(expected interface{}) *Expectation[T] {
	if !assert.ObjectsAreEqualValues(expected, e.actual) {
		failf("to equal", e.actual, expected)
	}
	return e
}

// NotToEqual is the negation of ToEqual.
func (e *Expectation[T]) NotToEqual(expected interface{}) *Expectation[T] {
	if assert.ObjectsAreEqualValues(expected, e.actual) {
		failf("not to equal", e.actual, expected)
	}
	return e
}

// ToBeTruthy checks that actual is true, or non-empty for other kinds
// (non-zero numbers, non-empty strings, slices and maps, non-nil pointers).
func (e *Expectation[T]) ToBeTruthy() *Expectation[T] {
	if !truthy(e.actual) {
		fail1("to be truthy", e.actual)
	}
	return e
}

// ToBeFalsy is the negation of ToBeTruthy.
func (e *Expectation[T]) ToBeFalsy() *Expectation[T] {
	if truthy(e.actual) {
		fail1("to be falsy", e.actual)
	}
	return e
}

// ToBeNil checks that actual is nil (including typed nils).
func (e *Expectation[T]) ToBeNil() *Expectation[T] {
	if !assert.Nil(discard{}, e.actual) {
		fail1("to be nil", e.actual)
	}
	return e
}

// NotToBeNil is the negation of ToBeNil.
func (e *Expectation[T]) NotToBeNil() *Expectation[T] {
	if !assert.NotNil(discard{}, e.actual) {
		fail1("not to be nil", e.actual)
	}
	return e
}

// ToBeIn checks that actual is an element of collection (slice, array, map
// key or substring of a string).
func (e *Expectation[T]) ToBeIn(collection interface{}) *Expectation[T] {
	if !assert.Contains(discard{}, collection, e.actual) {
		failf("to be in", e.actual, collection)
	}
	return e
}

// NotToBeIn is the negation of ToBeIn.
func (e *Expectation[T]) NotToBeIn(collection interface{}) *Expectation[T] {
	if !assert.NotContains(discard{}, collection, e.actual) {
		failf("not to be in", e.actual, collection)
	}
	return e
}

// ToContain checks that actual contains element.
func (e *Expectation[T]) ToContain(element interface{}) *Expectation[T] {
	if !assert.Contains(discard{}, e.actual, element) {
		failf("to contain", e.actual, element)
	}
	return e
}

// NotToContain is the negation of ToContain.
func (e *Expectation[T]) NotToContain(element interface{}) *Expectation[T] {
	if !assert.NotContains(discard{}, e.actual, element) {
		failf("not to contain", e.actual, element)
	}
	return e
}

// ToHaveLen checks the length of a string, slice, array, map or channel.
func (e *Expectation[T]) ToHaveLen(n int) *Expectation[T] {
	if !assert.Len(discard{}, e.actual, n) {
		failf("to have length", e.actual, n)
	}
	return e
}

// ToBeA checks that actual has the same dynamic type as sample.
func (e *Expectation[T]) ToBeA(sample interface{}) *Expectation[T] {
	if !assert.IsType(discard{}, sample, e.actual) {
		failf("to be of type", fmt.Sprintf("%T", e.actual), fmt.Sprintf("%T", sample))
	}
	return e
}

// ToBeLessThan checks actual < other for numbers and strings.
func (e *Expectation[T]) ToBeLessThan(other T) *Expectation[T] {
	if !assert.Less(discard{}, e.actual, other) {
		failf("to be less than", e.actual, other)
	}
	return e
}

// ToBeGreaterThan checks actual > other for numbers and strings.
func (e *Expectation[T]) ToBeGreaterThan(other T) *Expectation[T] {
	if !assert.Greater(discard{}, e.actual, other) {
		failf("to be greater than", e.actual, other)
	}
	return e
}

// ToMatchError checks that actual is an error matching target through errors.Is.
func (e *Expectation[T]) ToMatchError(target error) *Expectation[T] {
	err, ok := any(e.actual).(error)
	if !ok || !errors.Is(err, target) {
		failf("to match error", e.actual, target)
	}
	return e
}

func identical(expected, actual interface{}) bool {
	if expected != nil && reflect.TypeOf(expected).Kind() == reflect.Ptr {
		return assert.Same(discard{}, expected, actual)
	}
	return assert.ObjectsAreEqual(expected, actual)
}

func truthy(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return !assert.ObjectsAreEqual(v, nil) && assert.NotEmpty(discard{}, v)
}

func failf(relation string, actual, expected interface{}) {
	Failf("Expected\n    %s\n%s\n    %s", describe(actual), relation, describe(expected))
}

func fail1(relation string, actual interface{}) {
	Failf("Expected\n    %s\n%s", describe(actual), relation)
}

func describe(v interface{}) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case error:
		return fmt.Sprintf("<%T> %s", x, x.Error())
	case nil:
		return "nil"
	}
	s := fmt.Sprintf("%#v", v)
	return strings.ReplaceAll(s, "\n", "\n    ")
}
