package runner

import (
	"strings"
	"time"
)

// Result represents the outcome of a single test case.
type Result string

const (
	// ResultPassed indicates no panic escaped the test
	ResultPassed Result = "PASSED"
	// ResultFailed indicates an expectation did not hold
	ResultFailed Result = "FAILED"
	// ResultError indicates any other panic escaped the test
	ResultError Result = "ERROR"
	// ResultSkipped indicates the test was excluded by a skip or only marker
	ResultSkipped Result = "SKIPPED"
)

// Label returns the word printed next to a test in the tree listing.
func (r Result) Label() string {
	switch r {
	case ResultPassed:
		return "OK"
	case ResultFailed:
		return "FAIL"
	case ResultError:
		return "ERROR"
	case ResultSkipped:
		return "SKIPPED"
	default:
		return string(r)
	}
}

// Class is a behavior: a named group of test methods that may nest further
// behaviors. Every class of a tree creates instances of the same state type,
// so hooks of ancestors can operate on the instance of a nested test.
type Class struct {
	Name     string
	Parent   *Class
	Children []*Class
	Methods  []*Method

	// BeforeEach and AfterEach run around every test of this class and of
	// its nested classes.
	BeforeEach func(instance any)
	AfterEach  func(instance any)

	// New creates a fresh instance for one test execution.
	New func() any

	// Source is the spec source the class was registered from.
	Source string
}

// Chain returns the classes from the root down to c.
func (c *Class) Chain() []*Class {
	var chain []*Class
	for cur := c; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Root returns the outermost ancestor of c.
func (c *Class) Root() *Class {
	cur := c
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Description joins the names of the chain with a space.
func (c *Class) Description() string {
	chain := c.Chain()
	names := make([]string, len(chain))
	for i, cls := range chain {
		names[i] = cls.Name
	}
	return strings.Join(names, " ")
}

// Method is a single test of a behavior.
type Method struct {
	Name       string
	Contexts   []Context
	Only       bool
	Skip       bool
	SkipReason string
	Body       func(instance any)
}

// ContextNames returns the display names of the method's contexts in
// declaration order.
func (m *Method) ContextNames() []string {
	names := make([]string, 0, len(m.Contexts))
	for _, ctx := range m.Contexts {
		names = append(names, ctx.Name)
	}
	return names
}

// TestCase pairs a class with one of its methods.
type TestCase struct {
	Class  *Class
	Method *Method

	// Err is set for the pseudo-test standing for a source that failed to load.
	Err *DiscoveryError
}

// ContextNames returns the grouping key of the test: the names of the nested
// behaviors below the root followed by the method's context names.
func (tc *TestCase) ContextNames() []string {
	var names []string
	chain := tc.Class.Chain()
	for _, cls := range chain[1:] {
		names = append(names, cls.Name)
	}
	return append(names, tc.Method.ContextNames()...)
}

// Name returns the display name of the test.
func (tc *TestCase) Name() string {
	if tc.Err != nil {
		return tc.Method.Name
	}
	return DisplayName(tc.Method.Name)
}

// Only reports whether the test carries the only marker.
func (tc *TestCase) Only() bool {
	return tc.Method.Only
}

// Skip reports whether the test carries the skip marker.
func (tc *TestCase) Skip() bool {
	return tc.Method.Skip
}

// Outcome is the recorded result of one test case.
type Outcome struct {
	Test     *TestCase
	Result   Result
	Duration time.Duration
	Trace    string
}

// ContextNames makes outcomes groupable by BuildTree.
func (o Outcome) ContextNames() []string {
	return o.Test.ContextNames()
}

// Failure pairs a failed or errored test with its formatted trace.
type Failure struct {
	Test   *TestCase
	Result Result
	Trace  string
}
