// Package webtests contains the test suite for the sample application. It
// provides a domain-specific test API (the T type) on top of the framework
// package: every test gets its own API client, page objects, and assertion
// tracker, all scoped to that test's lifetime.
package webtests
