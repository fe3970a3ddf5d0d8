package behave_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowp/internal/runner"
	"flowp/pkg/behave"
	"flowp/pkg/expect"
)

type cart struct {
	items []string
}

func TestDescribe_RegistersCallerFile(t *testing.T) {
	t.Cleanup(runner.DefaultRegistry.Reset)

	assert.True(t, behave.Describe("Cart", func(b *behave.Builder[cart]) {
		b.It("starts empty", func(c *cart) {
			expect.That(c.items).ToHaveLen(0)
		})
		b.It("fails here", func(c *cart) {
			expect.That(len(c.items)).ToEqual(2)
		})
	}))
	assert.Equal(t, []string{"describe_test.go"}, runner.DefaultRegistry.Sources())

	var buf bytes.Buffer
	stream := runner.NewColorStream(&buf, false)
	r := runner.New(runner.DefaultRegistry, []string{"*_test.go"}, runner.NewReporter(runner.FormatTree, stream, ""), stream)
	results, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, results.Executed)
	require.Len(t, results.Failures, 1)
	trace := results.Failures[0].Trace
	assert.Contains(t, trace, "describe_test.go:")
	assert.Contains(t, trace, "expect.That(len(c.items)).ToEqual(2)")
	assert.NotContains(t, trace, "flowp/internal/runner.")
	assert.NotContains(t, trace, "flowp/pkg/expect.")
	assert.Contains(t, buf.String(), `FAIL: "fails here" [Cart]`)
}

func TestDescribe_DefaultPatternSkipsTestFiles(t *testing.T) {
	t.Cleanup(runner.DefaultRegistry.Reset)

	behave.Describe("Hidden", func(b *behave.Builder[cart]) {
		b.It("never runs", func(*cart) {})
	})

	var buf bytes.Buffer
	stream := runner.NewColorStream(&buf, false)
	r := runner.New(runner.DefaultRegistry, nil, runner.NewReporter(runner.FormatDots, stream, ""), stream)
	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, results.Started)
}
