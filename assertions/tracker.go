package assertions

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
)

// Tracker is the ledger of assertion outcomes for the currently running
// test. It is single-owner: all calls within one test happen sequentially on
// that test's goroutine, and parallel tests each get their own instance.
type Tracker struct {
	logger      Logger
	failNow     FailFunc
	records     []Record
	testContext string
}

// NewTracker creates a Tracker. If logger is nil, output is discarded. If
// failNow is nil, hard failures panic with the *Failure value; the framework
// installs a FailFunc that unwinds the test instead.
func NewTracker(logger Logger, failNow FailFunc) *Tracker {
	if logger == nil {
		logger = NullLogger()
	}
	if failNow == nil {
		failNow = func(f *Failure) { panic(f) }
	}
	return &Tracker{logger: logger, failNow: failNow}
}

// Reset discards all records and the test context, making the tracker ready
// for the next test. Callers that need the previous test's outcome must
// capture Summarize() before calling Reset.
func (t *Tracker) Reset() {
	t.records = nil
	t.testContext = ""
}

// SetContext stores the name of the currently active test, used only as a
// prefix in failure messages.
func (t *Tracker) SetContext(name string) {
	t.testContext = name
}

// Context returns the current test context name.
func (t *Tracker) Context() string {
	return t.testContext
}

// RecordHard records a hard assertion. If condition is false, the failure is
// signaled immediately and this call does not return normally. Pass nil for
// expected and actual when there are no diagnostic values.
func (t *Tracker) RecordHard(condition bool, message string, expected, actual interface{}) {
	r := Record{Level: LevelHard, Passed: condition, Message: message, Expected: expected, Actual: actual}
	t.records = append(t.records, r)

	if condition {
		t.logger.Infof("hard assertion passed: %s", message)
		return
	}
	f := &Failure{Message: t.formatFailure(r)}
	t.logger.Errorf("hard assertion failed: %s", f.Message)
	t.failNow(f)
}

// RecordSoft records a soft assertion. A failure is collected, along with a
// stack snapshot, but execution continues; Finalize reports all soft
// failures together.
func (t *Tracker) RecordSoft(condition bool, message string, expected, actual interface{}) {
	r := Record{Level: LevelSoft, Passed: condition, Message: message, Expected: expected, Actual: actual}
	if !condition {
		r.StackTrace = string(debug.Stack())
	}
	t.records = append(t.records, r)

	if condition {
		t.logger.Infof("soft assertion passed: %s", message)
	} else {
		t.logger.Warnf("soft assertion failed: %s", t.formatFailure(r))
	}
}

// RecordWarning records a warning assertion. A failure is logged but never
// affects the test's outcome.
func (t *Tracker) RecordWarning(condition bool, message string, expected, actual interface{}) {
	r := Record{Level: LevelWarning, Passed: condition, Message: message, Expected: expected, Actual: actual}
	t.records = append(t.records, r)

	if condition {
		t.logger.Infof("warning assertion passed: %s", message)
	} else {
		t.logger.Warnf("warning assertion failed: %s", t.formatFailure(r))
	}
}

func (t *Tracker) record(level Level, condition bool, message string, expected, actual interface{}) {
	switch level {
	case LevelSoft:
		t.RecordSoft(condition, message, expected, actual)
	case LevelWarning:
		t.RecordWarning(condition, message, expected, actual)
	default:
		t.RecordHard(condition, message, expected, actual)
	}
}

// Equals asserts that actual equals expected. An empty message produces a
// default description.
func (t *Tracker) Equals(actual, expected interface{}, message string, level Level) {
	if message == "" {
		message = fmt.Sprintf("expected %v, but got %v", expected, actual)
	}
	t.record(level, reflect.DeepEqual(actual, expected), message, expected, actual)
}

// NotEquals asserts that actual does not equal expected.
func (t *Tracker) NotEquals(actual, expected interface{}, message string, level Level) {
	if message == "" {
		message = fmt.Sprintf("expected %v to not equal %v", actual, expected)
	}
	t.record(level, !reflect.DeepEqual(actual, expected), message, fmt.Sprintf("!= %v", expected), actual)
}

// Contains asserts that container contains item. Strings are checked for
// substrings; slices, arrays and map keys for a matching element. A
// container with no containment concept is a forced failure.
func (t *Tracker) Contains(container, item interface{}, message string, level Level) {
	if message == "" {
		message = fmt.Sprintf("expected %v to contain %v", container, item)
	}
	condition, ok := contains(container, item)
	if !ok {
		t.record(level, false, fmt.Sprintf("value %v (%T) does not support containment checks", container, container), nil, nil)
		return
	}
	t.record(level, condition, message, fmt.Sprintf("contains %v", item), container)
}

// IsTrue asserts that condition is true.
func (t *Tracker) IsTrue(condition bool, message string, level Level) {
	if message == "" {
		message = fmt.Sprintf("expected condition to be true, but was %v", condition)
	}
	t.record(level, condition, message, true, condition)
}

// IsFalse asserts that condition is false.
func (t *Tracker) IsFalse(condition bool, message string, level Level) {
	if message == "" {
		message = fmt.Sprintf("expected condition to be false, but was %v", condition)
	}
	t.record(level, !condition, message, false, condition)
}

// GreaterThan asserts that actual > expected. Both values must be numeric;
// anything else is a forced failure at the requested level.
func (t *Tracker) GreaterThan(actual, expected interface{}, message string, level Level) {
	if message == "" {
		message = fmt.Sprintf("expected %v to be greater than %v", actual, expected)
	}
	a, aok := toFloat(actual)
	e, eok := toFloat(expected)
	if !aok || !eok {
		t.record(level, false, fmt.Sprintf("values %v (%T) and %v (%T) are not comparable as numbers", actual, actual, expected, expected), nil, nil)
		return
	}
	t.record(level, a > e, message, fmt.Sprintf("> %v", expected), actual)
}

// LessThan asserts that actual < expected. Both values must be numeric;
// anything else is a forced failure at the requested level.
func (t *Tracker) LessThan(actual, expected interface{}, message string, level Level) {
	if message == "" {
		message = fmt.Sprintf("expected %v to be less than %v", actual, expected)
	}
	a, aok := toFloat(actual)
	e, eok := toFloat(expected)
	if !aok || !eok {
		t.record(level, false, fmt.Sprintf("values %v (%T) and %v (%T) are not comparable as numbers", actual, actual, expected, expected), nil, nil)
		return
	}
	t.record(level, a < e, message, fmt.Sprintf("< %v", expected), actual)
}

// HasLength asserts that container has the given length. A value with no
// length concept is recorded as a failure at the requested level rather than
// causing a runtime error.
func (t *Tracker) HasLength(container interface{}, expectedLength int, message string, level Level) {
	actualLength, ok := lengthOf(container)
	if !ok {
		t.record(level, false, fmt.Sprintf("value %v (%T) has no length", container, container), nil, nil)
		return
	}
	if message == "" {
		message = fmt.Sprintf("expected length %d, but got %d", expectedLength, actualLength)
	}
	t.record(level, actualLength == expectedLength, message, expectedLength, actualLength)
}

// Summarize computes counts and failure lists from the recorded assertions.
// It never modifies the records; calling it repeatedly without intervening
// record calls yields identical results.
func (t *Tracker) Summarize() Summary {
	var s Summary
	for _, r := range t.records {
		s.Total++
		if r.Passed {
			s.Passed++
			continue
		}
		s.Failed++
		switch r.Level {
		case LevelHard:
			s.HardFailures = append(s.HardFailures, r)
		case LevelSoft:
			s.SoftFailures = append(s.SoftFailures, r)
		case LevelWarning:
			s.Warnings++
			s.WarningFailures = append(s.WarningFailures, r)
		}
	}
	return s
}

// Finalize is called at the end of a test. It always logs the summary. If
// any soft assertions failed, it returns a single Failure aggregating all of
// them; otherwise it returns nil. Warning failures never produce a Failure.
// Hard failures never reach this point because RecordHard already signaled
// them when they happened.
func (t *Tracker) Finalize() *Failure {
	s := t.Summarize()
	t.logger.Infof("assertion summary: total=%d passed=%d failed=%d warnings=%d",
		s.Total, s.Passed, s.Failed, s.Warnings)

	if len(s.SoftFailures) == 0 {
		return nil
	}
	lines := make([]string, 0, len(s.SoftFailures))
	for _, r := range s.SoftFailures {
		lines = append(lines, "  - "+t.formatFailure(r))
	}
	f := &Failure{
		Message: fmt.Sprintf("test had %d soft assertion failure(s):\n%s",
			len(s.SoftFailures), strings.Join(lines, "\n")),
	}
	t.logger.Errorf("%s", f.Message)
	return f
}

func (t *Tracker) formatFailure(r Record) string {
	msg := r.Message
	if r.Expected != nil && r.Actual != nil {
		msg += fmt.Sprintf("\n  Expected: %v", r.Expected)
		msg += fmt.Sprintf("\n  Actual:   %v", r.Actual)
	}
	if t.testContext != "" {
		msg = "[" + t.testContext + "] " + msg
	}
	return msg
}

func lengthOf(v interface{}) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len(), true
	}
	return 0, false
}

func contains(container, item interface{}) (found, ok bool) {
	if container == nil {
		return false, false
	}
	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.String:
		return strings.Contains(rv.String(), fmt.Sprintf("%v", item)), true
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if reflect.DeepEqual(rv.Index(i).Interface(), item) {
				return true, true
			}
		}
		return false, true
	case reflect.Map:
		for _, k := range rv.MapKeys() {
			if reflect.DeepEqual(k.Interface(), item) {
				return true, true
			}
		}
		return false, true
	}
	return false, false
}

func toFloat(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Ptr:
		if rv.IsNil() {
			return 0, false
		}
		return toFloat(rv.Elem().Interface())
	}
	return 0, false
}
