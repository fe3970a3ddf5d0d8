// Package runner is the behavior execution engine behind flowp.
//
// Spec sources register behavior trees into a Registry. Discover loads the
// selected sources, turning a panicking loader into a DiscoveryError that is
// reported as a failing pseudo-test. The Runner then flattens every tree
// into TestCases and executes them one at a time:
//
//	Discovered -> Loaded -> Running -> Succeeded | Failed | Errored
//	                    \-> Skipped
//
// Each test gets a fresh instance from its class. BeforeEach hooks run from
// the outermost behavior inwards, then the method's context setups, then the
// body; teardowns and AfterEach hooks registered along the way run in
// reverse order whatever happened, followed by patch restoration.
//
// A panic carrying an *expect.AssertionFailure marks the test Failed, any
// other panic marks it Errored. Traces hide the frames of the runner and
// of the expectation library.
//
// Results are rendered by a Reporter: a colorized tree grouped by context
// (BuildTree), a terse line of dots, or a JSON document.
package runner
