package webtests

import (
	"github.com/stretchr/testify/require"

	"github.com/qaengine/webtest-harness/assertions"
)

func DoDashboardTests(t *T) {
	t.Run("requires a session", func(t *T) {
		require.NoError(t, t.DashboardPage().Open())

		a := t.Assert()
		a.IsFalse(t.DashboardPage().Loaded(), "the dashboard must not load without a session", assertions.LevelHard)
		a.Equals(t.DashboardPage().StatusCode(), 401, "", assertions.LevelSoft)
	})

	t.Run("greets the logged-in user", func(t *T) {
		t.RequireLogin()
		require.NoError(t, t.DashboardPage().Open())

		a := t.Assert()
		a.IsTrue(t.DashboardPage().Loaded(), "the dashboard should load after login", assertions.LevelHard)
		a.Contains(t.DashboardPage().WelcomeMessage(), t.Config().Username,
			"the greeting should name the user", assertions.LevelSoft)
	})

	t.Run("shows the standard widgets", func(t *T) {
		t.RequireLogin()
		require.NoError(t, t.DashboardPage().Open())

		a := t.Assert()
		titles := t.DashboardPage().WidgetTitles()
		a.HasLength(titles, 3, "", assertions.LevelSoft)
		a.Contains(titles, "System Health", "", assertions.LevelSoft)
		a.Contains(titles, "Recent Activity", "", assertions.LevelSoft)
	})

	t.Run("reports the user count", func(t *T) {
		t.RequireLogin()
		require.NoError(t, t.DashboardPage().Open())
		before := t.DashboardPage().UserCount()

		resp, err := t.Client().Post("/users", userPayload("Count Check", "count.check@example.com"))
		require.NoError(t, err)
		require.Equal(t, 201, resp.StatusCode)

		require.NoError(t, t.DashboardPage().Open())
		t.Assert().Equals(t.DashboardPage().UserCount(), before+1,
			"creating a user should be reflected on the dashboard", assertions.LevelSoft)
	})
}
