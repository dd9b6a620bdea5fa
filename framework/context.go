package framework

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/qaengine/webtest-harness/assertions"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context represents a running test or subtest. Each Context owns its own
// assertion tracker, so parallel suites stay isolated without any locking.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	tracker     *assertions.Tracker
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes a tree of tests under a root Context and returns the
// accumulated results.
func Run(
	filter func(TestID) bool,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := newContext(env, TestID{})
	c.run(action)
	return env.results
}

func newContext(env *environment, id TestID) *Context {
	c := &Context{env: env, id: id}
	c.tracker = assertions.NewTracker(LeveledLogger(&c.debugLogger), func(f *assertions.Failure) {
		c.failed = true
		c.errors = append(c.errors, f)
		c.env.testLogger.TestError(c.id, f)
		panic(c)
	})
	return c
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.finalize()
		if len(c.id.Path) == 0 && !c.failed {
			return // the root context is only a container for subtests
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Assertions: c.tracker.Summarize()}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	c.tracker.Reset()
	c.tracker.SetContext(c.id.String())
	action(c)
}

// finalize applies the deferred soft-assertion policy at the end of a test.
// A test that already failed (a hard assertion, an Errorf, a panic) keeps
// its original failure; the tracker's aggregate then only supplements the
// logs and never overwrites it.
func (c *Context) finalize() {
	f := c.tracker.Finalize()
	if f == nil || c.failed {
		return
	}
	c.failed = true
	c.errors = append(c.errors, f)
	c.env.testLogger.TestError(c.id, f)
}

func (c *Context) ID() TestID {
	return c.id
}

// Tracker returns the assertion tracker owned by this test.
func (c *Context) Tracker() *assertions.Tracker {
	return c.tracker
}

func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := newContext(c.env, id)
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
