package assertions

// Level is the severity of an assertion.
type Level int

const (
	// LevelHard marks an assertion whose failure stops the test immediately.
	LevelHard Level = iota
	// LevelSoft marks an assertion whose failure is collected and reported
	// in aggregate when the test finalizes.
	LevelSoft
	// LevelWarning marks an assertion whose failure is logged but never
	// affects the test's outcome.
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelHard:
		return "hard"
	case LevelSoft:
		return "soft"
	case LevelWarning:
		return "warning"
	}
	return "unknown"
}

// Record is the outcome of a single assertion call. Records are never
// modified after creation; the tracker only appends them.
type Record struct {
	Level   Level
	Passed  bool
	Message string

	// Expected and Actual are optional diagnostic values. They are never
	// interpreted, only printed. Both must be non-nil for the formatted
	// failure message to include them.
	Expected interface{}
	Actual   interface{}

	// StackTrace is a call stack snapshot captured at the moment a soft
	// assertion failed. It is empty for all other records.
	StackTrace string
}

// Summary is derived from a tracker's records on demand; it is not stored.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Warnings int

	HardFailures    []Record
	SoftFailures    []Record
	WarningFailures []Record
}

// Failure is the error type used for deliberate test-failure signals. It is
// raised at exactly two points: synchronously when a hard assertion fails,
// and from Finalize when one or more soft assertions failed.
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// FailFunc is called by the tracker to signal a hard assertion failure. The
// function is expected not to return; the framework's implementation unwinds
// the test goroutine.
type FailFunc func(f *Failure)

// Logger receives the tracker's diagnostic output. The framework package
// provides an adapter from its own Logger type.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Warnf(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}

// NullLogger returns a Logger that discards all output.
func NullLogger() Logger { return nullLogger{} }
