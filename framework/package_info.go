// Package framework contains the low-level test harness infrastructure that
// is independent of what is being tested.
//
// The general model is:
//
// 1. The test harness hosts the application under test on an embedded HTTP
// listener, and can expose any number of mock endpoints for tests that need
// to observe a client's requests directly.
//
// 2. There is a notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and
// to accumulate success/failure results.
//
// 3. Every test context owns an assertion tracker (see the assertions
// package) with three severity levels. The context wires the tracker into
// the test lifecycle: it is reset and given the test's name before the test
// body runs, a hard failure unwinds the test immediately, and accumulated
// soft failures become the test's failure when the context finalizes.
//
// The domain-specific code that knows what is being tested supplies the
// application handler, the keyword layers, and a domain test API on top of
// the test context.
package framework
