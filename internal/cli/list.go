package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"flowp/internal/runner"
)

// long test names and contexts wrap instead of widening the table
const maxColumnWidth = 48

// RenderTestList prints the discovered tests as a table, in run order.
func RenderTestList(w io.Writer, tests []*runner.TestCase, colors bool) {
	if len(tests) == 0 {
		fmt.Fprintln(w, "No tests found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: maxColumnWidth, WidthMaxEnforcer: text.WrapSoft},
		{Number: 4, WidthMax: maxColumnWidth, WidthMaxEnforcer: text.WrapSoft},
		{Number: 6, WidthMax: maxColumnWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	t.AppendHeader(table.Row{
		header("#", colors),
		header("BEHAVIOR", colors),
		header("TEST", colors),
		header("CONTEXT", colors),
		header("SOURCE", colors),
		header("MARK", colors),
	})
	for i, tc := range tests {
		t.AppendRow(table.Row{
			i + 1,
			tc.Class.Root().Name,
			tc.Name(),
			contextColumn(tc),
			tc.Class.Source,
			markColumn(tc, colors),
		})
	}
	t.Render()

	fmt.Fprintf(w, "\nTotal: %d tests\n", len(tests))
}

func header(name string, colors bool) string {
	if !colors {
		return name
	}
	return text.FgHiCyan.Sprint(name)
}

func contextColumn(tc *runner.TestCase) string {
	if tc.Err != nil {
		return "-"
	}
	names := tc.ContextNames()
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, " / ")
}

func markColumn(tc *runner.TestCase, colors bool) string {
	var mark string
	switch {
	case tc.Err != nil:
		mark = "load error"
	case tc.Skip() && tc.Method.SkipReason != "":
		mark = "skip: " + tc.Method.SkipReason
	case tc.Skip():
		mark = "skip"
	case tc.Only():
		mark = "only"
	default:
		return "-"
	}
	if !colors {
		return mark
	}
	if tc.Err != nil {
		return text.FgRed.Sprint(mark)
	}
	return text.FgYellow.Sprint(mark)
}
