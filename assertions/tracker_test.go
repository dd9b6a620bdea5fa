package assertions

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingLogger struct {
	info, warn, errs []string
}

func (l *capturingLogger) Infof(format string, args ...interface{}) {
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *capturingLogger) Warnf(format string, args ...interface{}) {
	l.warn = append(l.warn, fmt.Sprintf(format, args...))
}

func (l *capturingLogger) Errorf(format string, args ...interface{}) {
	l.errs = append(l.errs, fmt.Sprintf(format, args...))
}

// newCapturingTracker returns a tracker whose hard failures are captured
// instead of unwinding the goroutine, which lets tests inspect the message.
func newCapturingTracker() (*Tracker, *capturingLogger, *[]*Failure) {
	logger := &capturingLogger{}
	var failures []*Failure
	tr := NewTracker(logger, func(f *Failure) { failures = append(failures, f) })
	return tr, logger, &failures
}

func TestResetYieldsEmptySummary(t *testing.T) {
	tr, _, _ := newCapturingTracker()
	tr.RecordSoft(false, "stale", nil, nil)
	tr.Reset()

	s := tr.Summarize()
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.Passed)
	assert.Equal(t, 0, s.Failed)
	assert.Equal(t, 0, s.Warnings)
	assert.Empty(t, s.HardFailures)
	assert.Empty(t, s.SoftFailures)
	assert.Empty(t, s.WarningFailures)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	tr, _, _ := newCapturingTracker()
	tr.RecordSoft(false, "one", nil, nil)
	tr.RecordWarning(false, "two", nil, nil)
	tr.RecordSoft(true, "three", nil, nil)

	first := tr.Summarize()
	second := tr.Summarize()
	assert.Equal(t, first, second)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, 1, first.Passed)
	assert.Equal(t, 2, first.Failed)
	assert.Equal(t, 1, first.Warnings)
}

func TestHardPassThenHardFailure(t *testing.T) {
	tr, logger, failures := newCapturingTracker()

	tr.RecordHard(true, "ok", nil, nil)
	require.Empty(t, *failures)
	require.Len(t, logger.info, 1)
	assert.Contains(t, logger.info[0], "ok")

	tr.RecordHard(false, "bad", 1, 2)
	require.Len(t, *failures, 1)
	msg := (*failures)[0].Message
	assert.Contains(t, msg, "bad")
	assert.Contains(t, msg, "Expected: 1")
	assert.Contains(t, msg, "Actual:   2")
}

func TestHardFailureDoesNotReturnWithDefaultFailFunc(t *testing.T) {
	tr := NewTracker(nil, nil)

	reached := false
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			f, ok := r.(*Failure)
			require.True(t, ok)
			assert.Contains(t, f.Message, "unreachable check")
		}()
		tr.RecordHard(false, "unreachable check", nil, nil)
		reached = true
	}()
	assert.False(t, reached, "code after a failing hard assertion must not run")
}

func TestHardFailureMessageIncludesContext(t *testing.T) {
	tr, _, failures := newCapturingTracker()
	tr.SetContext("login/valid credentials")
	tr.RecordHard(false, "bad", nil, nil)
	require.Len(t, *failures, 1)
	assert.Contains(t, (*failures)[0].Message, "[login/valid credentials]")
}

func TestExpectedActualOmittedWhenEitherIsNil(t *testing.T) {
	tr, _, failures := newCapturingTracker()
	tr.RecordHard(false, "bad", 1, nil)
	require.Len(t, *failures, 1)
	assert.NotContains(t, (*failures)[0].Message, "Expected:")
}

func TestSoftFailuresAggregateAtFinalize(t *testing.T) {
	tr, _, _ := newCapturingTracker()
	tr.RecordSoft(false, "soft1", nil, nil)
	tr.RecordSoft(true, "soft2", nil, nil)
	tr.RecordSoft(false, "soft3", nil, nil)

	s := tr.Summarize()
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 1, s.Passed)
	require.Len(t, s.SoftFailures, 2)

	f := tr.Finalize()
	require.NotNil(t, f)
	assert.Contains(t, f.Message, "2 soft assertion failure(s)")
	assert.Contains(t, f.Message, "soft1")
	assert.Contains(t, f.Message, "soft3")
	assert.NotContains(t, f.Message, "soft2")
}

func TestSoftFailureCapturesStack(t *testing.T) {
	tr, _, _ := newCapturingTracker()
	tr.RecordSoft(false, "collected", nil, nil)
	tr.RecordSoft(true, "fine", nil, nil)

	s := tr.Summarize()
	require.Len(t, s.SoftFailures, 1)
	assert.NotEmpty(t, s.SoftFailures[0].StackTrace)
	assert.Equal(t, 2, s.Total)
}

func TestWarningsNeverFailFinalize(t *testing.T) {
	tr, logger, _ := newCapturingTracker()
	tr.RecordWarning(false, "slow response", nil, nil)
	tr.RecordWarning(true, "fast enough", nil, nil)
	tr.RecordWarning(false, "also slow", nil, nil)

	assert.Nil(t, tr.Finalize())
	assert.NotEmpty(t, logger.warn)

	s := tr.Summarize()
	assert.Equal(t, 2, s.Warnings)
	assert.Len(t, s.WarningFailures, 2)
}

func TestFinalizeWithNoRecordsReturnsNil(t *testing.T) {
	tr, _, _ := newCapturingTracker()
	assert.Nil(t, tr.Finalize())
}

func TestEqualsDispatchesOnLevel(t *testing.T) {
	tr, _, failures := newCapturingTracker()

	tr.Equals(2, 2, "", LevelHard)
	require.Empty(t, *failures)

	tr.Equals("a", "b", "", LevelSoft)
	require.Empty(t, *failures)
	require.Len(t, tr.Summarize().SoftFailures, 1)

	tr.Equals(1, 2, "", LevelHard)
	require.Len(t, *failures, 1)
	assert.Contains(t, (*failures)[0].Message, "expected 2, but got 1")
}

func TestNotEqualsAndBooleanHelpers(t *testing.T) {
	tr, _, failures := newCapturingTracker()

	tr.NotEquals(1, 2, "", LevelHard)
	tr.IsTrue(true, "", LevelHard)
	tr.IsFalse(false, "", LevelHard)
	require.Empty(t, *failures)

	tr.IsTrue(false, "should be on", LevelSoft)
	tr.IsFalse(true, "should be off", LevelSoft)
	s := tr.Summarize()
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Passed)
	assert.Len(t, s.SoftFailures, 2)
}

func TestContains(t *testing.T) {
	tr, _, failures := newCapturingTracker()

	tr.Contains("hello world", "world", "", LevelHard)
	tr.Contains([]string{"a", "b"}, "b", "", LevelHard)
	tr.Contains(map[string]int{"k": 1}, "k", "", LevelHard)
	require.Empty(t, *failures)

	tr.Contains([]int{1, 2}, 3, "", LevelSoft)
	require.Len(t, tr.Summarize().SoftFailures, 1)

	// a value with no containment concept is a forced failure, not a panic
	tr.Contains(42, 1, "", LevelSoft)
	s := tr.Summarize()
	require.Len(t, s.SoftFailures, 2)
	assert.Contains(t, s.SoftFailures[1].Message, "does not support containment")
}

func TestGreaterAndLessThan(t *testing.T) {
	tr, _, failures := newCapturingTracker()

	tr.GreaterThan(3, 2, "", LevelHard)
	tr.LessThan(2, 3, "", LevelHard)
	tr.GreaterThan(2.5, 2, "", LevelHard)
	require.Empty(t, *failures)

	tr.GreaterThan(1, 2, "", LevelSoft)
	tr.LessThan("x", 2, "", LevelSoft)
	s := tr.Summarize()
	require.Len(t, s.SoftFailures, 2)
	assert.Contains(t, s.SoftFailures[1].Message, "not comparable as numbers")
}

func TestHasLength(t *testing.T) {
	tr, _, failures := newCapturingTracker()

	tr.HasLength([]int{1, 2, 3}, 3, "", LevelHard)
	tr.HasLength("abcd", 4, "", LevelHard)
	tr.HasLength(map[string]int{"a": 1}, 1, "", LevelHard)
	require.Empty(t, *failures)

	tr.HasLength([]int{1}, 2, "", LevelSoft)
	require.Len(t, tr.Summarize().SoftFailures, 1)
}

func TestHasLengthOnValueWithNoLength(t *testing.T) {
	t.Run("warning level keeps going", func(t *testing.T) {
		tr, logger, failures := newCapturingTracker()
		tr.HasLength(42, 3, "", LevelWarning)
		assert.Empty(t, *failures)
		assert.Nil(t, tr.Finalize())

		s := tr.Summarize()
		require.Len(t, s.WarningFailures, 1)
		assert.Contains(t, s.WarningFailures[0].Message, "has no length")
		assert.NotEmpty(t, logger.warn)
	})

	t.Run("soft level defers", func(t *testing.T) {
		tr, _, failures := newCapturingTracker()
		tr.HasLength(42, 3, "", LevelSoft)
		assert.Empty(t, *failures)
		f := tr.Finalize()
		require.NotNil(t, f)
		assert.Contains(t, f.Message, "has no length")
	})

	t.Run("hard level aborts", func(t *testing.T) {
		tr, _, failures := newCapturingTracker()
		tr.HasLength(42, 3, "", LevelHard)
		require.Len(t, *failures, 1)
		assert.Contains(t, (*failures)[0].Message, "has no length")
	})
}

func TestRecordsAreAppendedBeforeSignaling(t *testing.T) {
	tr, _, failures := newCapturingTracker()
	tr.RecordHard(false, "bad", nil, nil)
	require.Len(t, *failures, 1)

	// the failing record must be visible in the summary even though the
	// failure signal already fired
	s := tr.Summarize()
	require.Len(t, s.HardFailures, 1)
	assert.Equal(t, "bad", s.HardFailures[0].Message)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "hard", LevelHard.String())
	assert.Equal(t, "soft", LevelSoft.String())
	assert.Equal(t, "warning", LevelWarning.String())
}
