package webtests

import (
	"github.com/stretchr/testify/require"

	"github.com/qaengine/webtest-harness/apiclient"
	"github.com/qaengine/webtest-harness/assertions"
	"github.com/qaengine/webtest-harness/config"
	"github.com/qaengine/webtest-harness/framework"
	"github.com/qaengine/webtest-harness/pages"
)

type environment struct {
	harness *framework.TestHarness
	cfg     config.EnvironmentConfig
}

// T represents a test or subtest in the suite.
//
// It implements the same basic functionality as Go's testing.T, but in an
// environment that is outside of the Go test runner, with extra features
// such as per-test debug logging provided by the framework package.
//
// Every T owns a fresh API client and page objects bound to that client, so
// session state never leaks between tests. Checks can be made two ways: the
// assert and require packages work against a *T as if it were a *testing.T,
// and the Assert method exposes the test's assertion tracker for checks
// that should be collected softly or reported as warnings.
type T struct {
	context   *framework.Context
	env       *environment
	client    *apiclient.Client
	login     *pages.LoginPage
	dashboard *pages.DashboardPage
}

func newTestScope(c *framework.Context, env *environment) *T {
	client := apiclient.New(env.harness.AppBaseURL(), c.DebugLogger())
	client.SetTimeout(env.cfg.APITimeout())
	return &T{
		context:   c,
		env:       env,
		client:    client,
		login:     pages.NewLoginPage(client, c.DebugLogger()),
		dashboard: pages.NewDashboardPage(client, c.DebugLogger()),
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an
// immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately
// exit. The methods in the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest with its own client, pages, and assertion tracker.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Skip skips the current test with an explanation.
func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

// Debug logs output that the test logger shows for failed tests.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Assert returns the assertion tracker owned by this test.
func (t *T) Assert() *assertions.Tracker {
	return t.context.Tracker()
}

// Client returns this test's API client.
func (t *T) Client() *apiclient.Client {
	return t.client
}

// LoginPage returns this test's login page object.
func (t *T) LoginPage() *pages.LoginPage {
	return t.login
}

// DashboardPage returns this test's dashboard page object.
func (t *T) DashboardPage() *pages.DashboardPage {
	return t.dashboard
}

// Config returns the environment configuration for this run.
func (t *T) Config() config.EnvironmentConfig {
	return t.env.cfg
}

// Harness returns the test harness, for tests that need mock endpoints.
func (t *T) Harness() *framework.TestHarness {
	return t.env.harness
}

// RequireLogin logs in with the configured credentials and fails the test
// immediately if the session could not be established.
func (t *T) RequireLogin() {
	require.NoError(t, t.login.Login(t.env.cfg.Username, t.env.cfg.Password))
	t.Assert().RecordHard(t.login.LoginSuccessful(),
		"login with configured credentials should succeed", nil, nil)
}
