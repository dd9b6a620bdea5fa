package webtests

import (
	"github.com/qaengine/webtest-harness/config"
	"github.com/qaengine/webtest-harness/framework"
)

// RunTestSuite runs all registered tests against the application hosted by
// the harness and returns the accumulated results.
func RunTestSuite(
	harness *framework.TestHarness,
	cfg config.EnvironmentConfig,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	env := &environment{harness: harness, cfg: cfg}

	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, env)

		t.Run("login", DoLoginTests)
		t.Run("dashboard", DoDashboardTests)
		t.Run("http api", DoHTTPAPITests)
		t.Run("users api", DoUserAPITests)
		t.Run("client behavior", DoClientBehaviorTests)
		t.Run("data workflow", DoDataWorkflowTests)
	})
}
