package webtests

import (
	"github.com/stretchr/testify/require"

	"github.com/qaengine/webtest-harness/assertions"
)

func DoLoginTests(t *T) {
	t.Run("valid credentials", func(t *T) {
		cfg := t.Config()
		require.NoError(t, t.LoginPage().Login(cfg.Username, cfg.Password))

		a := t.Assert()
		a.IsTrue(t.LoginPage().LoginSuccessful(), "login should succeed with valid credentials", assertions.LevelHard)
		a.NotEquals(t.LoginPage().Token(), "", "a session token should be issued", assertions.LevelHard)
		a.Contains(t.Client().LastResponse().JSONValue("message").StringValue(), "Welcome",
			"the response should greet the user", assertions.LevelSoft)
	})

	t.Run("invalid password", func(t *T) {
		cfg := t.Config()
		require.NoError(t, t.LoginPage().Login(cfg.Username, "definitely-wrong"))

		a := t.Assert()
		a.IsFalse(t.LoginPage().LoginSuccessful(), "login should be rejected", assertions.LevelHard)
		a.Equals(t.Client().LastResponse().StatusCode, 401, "", assertions.LevelSoft)
		a.Equals(t.LoginPage().ErrorMessage(), "invalid credentials", "", assertions.LevelSoft)
	})

	t.Run("unknown user", func(t *T) {
		require.NoError(t, t.LoginPage().Login("nobody@example.com", "whatever"))

		a := t.Assert()
		a.IsFalse(t.LoginPage().LoginSuccessful(), "login should be rejected", assertions.LevelHard)
		a.Equals(t.Client().LastResponse().StatusCode, 401, "", assertions.LevelSoft)
	})

	t.Run("empty credentials", func(t *T) {
		require.NoError(t, t.LoginPage().Login("", ""))

		a := t.Assert()
		a.IsFalse(t.LoginPage().LoginSuccessful(), "login should be rejected", assertions.LevelHard)
		a.Equals(t.Client().LastResponse().StatusCode, 400,
			"empty credentials are a bad request, not an auth failure", assertions.LevelSoft)
	})

	t.Run("logout ends the session", func(t *T) {
		t.RequireLogin()
		require.NoError(t, t.LoginPage().Logout())

		require.NoError(t, t.DashboardPage().Open())
		t.Assert().IsFalse(t.DashboardPage().Loaded(),
			"the dashboard should not load after logout", assertions.LevelHard)
	})
}
