package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/qaengine/webtest-harness/assertions"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	Assertions assertions.Summary
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// AssertionTotals sums the per-test assertion summaries. The failure lists
// are not aggregated, only the counts.
func (r Results) AssertionTotals() assertions.Summary {
	var total assertions.Summary
	for _, t := range r.Tests {
		total.Total += t.Assertions.Total
		total.Passed += t.Assertions.Passed
		total.Failed += t.Assertions.Failed
		total.Warnings += t.Assertions.Warnings
	}
	return total
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of the test run: one table row per test with
// its assertion counts, followed by the failed tests with their errors.
func PrintResults(dest io.Writer, results Results) {
	tw := table.NewWriter()
	tw.SetOutputMirror(dest)
	tw.AppendHeader(table.Row{"Test", "Status", "Assertions", "Warnings"})
	for _, tr := range results.Tests {
		status := color.GreenString("pass")
		if len(tr.Errors) > 0 {
			status = color.RedString("FAIL")
		}
		tw.AppendRow(table.Row{
			tr.TestID.String(),
			status,
			fmt.Sprintf("%d/%d", tr.Assertions.Passed, tr.Assertions.Total),
			tr.Assertions.Warnings,
		})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()

	totals := results.AssertionTotals()
	fmt.Fprintf(dest, "\nRan %d tests, %d failed (%d assertions, %d passed, %d warnings)\n",
		len(results.Tests), len(results.Failures),
		totals.Total, totals.Passed, totals.Warnings)

	if results.OK() {
		color.New(color.FgGreen).Fprintln(dest, "All tests passed")
		return
	}

	color.New(color.FgRed).Fprintf(dest, "FAILED TESTS (%d):\n", len(results.Failures))
	for _, f := range results.Failures {
		color.New(color.FgRed).Fprintf(dest, "  * %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(dest, "    %s\n", line)
			}
		}
	}
}
