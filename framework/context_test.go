package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSingleTest(t *testing.T, name string, action func(*Context)) Results {
	t.Helper()
	return Run(nil, nil, func(c *Context) {
		c.Run(name, action)
	})
}

func TestPassingTestProducesOKResults(t *testing.T) {
	results := runSingleTest(t, "happy", func(c *Context) {
		c.Tracker().RecordHard(true, "works", nil, nil)
		c.Tracker().RecordSoft(true, "also works", nil, nil)
	})
	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.Equal(t, "happy", results.Tests[0].TestID.String())
	assert.Equal(t, 2, results.Tests[0].Assertions.Passed)
}

func TestSoftFailuresFailTheTestAtTheBoundary(t *testing.T) {
	sawEnd := false
	results := runSingleTest(t, "soft", func(c *Context) {
		c.Tracker().RecordSoft(false, "first problem", nil, nil)
		c.Tracker().RecordSoft(false, "second problem", nil, nil)
		sawEnd = true
	})

	assert.True(t, sawEnd, "soft failures must not stop the test body")
	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	msg := results.Failures[0].Errors[0].Error()
	assert.Contains(t, msg, "2 soft assertion failure(s)")
	assert.Contains(t, msg, "first problem")
	assert.Contains(t, msg, "second problem")
}

func TestHardFailureStopsTheTestImmediately(t *testing.T) {
	sawEnd := false
	results := runSingleTest(t, "hard", func(c *Context) {
		c.Tracker().RecordHard(false, "fatal problem", "x", "y")
		sawEnd = true
	})

	assert.False(t, sawEnd, "code after a failing hard assertion must not run")
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	msg := results.Failures[0].Errors[0].Error()
	assert.Contains(t, msg, "fatal problem")
	assert.Contains(t, msg, "[hard]")
}

func TestSoftAggregateDoesNotMaskHardFailure(t *testing.T) {
	results := runSingleTest(t, "mixed", func(c *Context) {
		c.Tracker().RecordSoft(false, "collected first", nil, nil)
		c.Tracker().RecordHard(false, "the real failure", nil, nil)
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1, "finalize must not add a second failure")
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "the real failure")

	// the soft failure is still visible in the summary
	assert.Len(t, results.Failures[0].Assertions.SoftFailures, 1)
}

func TestWarningFailuresNeverFailTheTest(t *testing.T) {
	results := runSingleTest(t, "warnings", func(c *Context) {
		c.Tracker().RecordWarning(false, "too slow", nil, nil)
		c.Tracker().RecordWarning(false, "still too slow", nil, nil)
	})
	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.Equal(t, 2, results.Tests[0].Assertions.Warnings)
}

func TestTrackerContextIsTheTestName(t *testing.T) {
	var name string
	_ = Run(nil, nil, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) {
				name = c.Tracker().Context()
			})
		})
	})
	assert.Equal(t, "outer/inner", name)
}

func TestEachTestOwnsAnIndependentTracker(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("one", func(c *Context) {
			c.Tracker().RecordSoft(false, "leak?", nil, nil)
		})
		c.Run("two", func(c *Context) {
			c.Tracker().RecordSoft(true, "clean", nil, nil)
		})
	})

	require.Len(t, results.Tests, 2)
	assert.Len(t, results.Failures, 1)
	assert.Equal(t, 0, results.Tests[1].Assertions.Failed)
}

func TestUnexpectedPanicIsRecordedAsFailure(t *testing.T) {
	results := runSingleTest(t, "boom", func(c *Context) {
		panic("something broke")
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic")
}

func TestErrorfAndFailNow(t *testing.T) {
	sawEnd := false
	results := runSingleTest(t, "failnow", func(c *Context) {
		c.Errorf("explicit problem %d", 1)
		c.FailNow()
		sawEnd = true
	})
	assert.False(t, sawEnd)
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "explicit problem 1")
}

func TestSkippedTestsProduceNoResult(t *testing.T) {
	results := runSingleTest(t, "skipped", func(c *Context) {
		c.SkipWithReason("not applicable")
		panic("unreachable")
	})
	assert.Empty(t, results.Tests)
	assert.True(t, results.OK())
}

func TestFilterExcludesTests(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("excluded"))

	ran := map[string]bool{}
	results := Run(filters.AsFilter, nil, func(c *Context) {
		c.Run("included test", func(c *Context) { ran["included"] = true })
		c.Run("excluded test", func(c *Context) { ran["excluded"] = true })
	})

	assert.True(t, ran["included"])
	assert.False(t, ran["excluded"])
	assert.Len(t, results.Tests, 1)
}
