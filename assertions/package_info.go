// Package assertions implements the outcome tracker that all test and keyword
// code records its pass/fail judgments through.
//
// There are three severity levels. A failed hard assertion stops the test
// immediately; a failed soft assertion is collected and turned into a single
// aggregate failure when the test finalizes; a failed warning assertion is
// only logged and never affects the test's outcome.
//
// Each test owns its own Tracker instance, created by the test boundary code
// in the framework package. The tracker holds no cross-test state: Reset is
// called before every test and Finalize at the end of it. Deliberate failure
// signaling always uses the Failure error type, so it can never be confused
// with an unexpected runtime error from the system under test.
package assertions
