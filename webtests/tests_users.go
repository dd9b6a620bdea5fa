package webtests

import (
	"github.com/stretchr/testify/require"

	"github.com/qaengine/webtest-harness/apiclient"
	"github.com/qaengine/webtest-harness/assertions"
)

func userPayload(name, email string) *apiclient.RequestOpts {
	return &apiclient.RequestOpts{JSON: map[string]string{"name": name, "email": email}}
}

func DoUserAPITests(t *T) {
	t.Run("requires a session", func(t *T) {
		resp, err := t.Client().Get("/users", nil)
		require.NoError(t, err)
		t.Assert().Equals(resp.StatusCode, 401, "", assertions.LevelHard)
	})

	t.Run("create and fetch", func(t *T) {
		t.RequireLogin()
		a := t.Assert()

		resp, err := t.Client().Post("/users", userPayload("Alex Crawford", "alex.crawford@example.com"))
		require.NoError(t, err)
		a.Equals(resp.StatusCode, 201, "creating a user should return 201", assertions.LevelHard)
		id := resp.JSONValue("id").StringValue()
		a.NotEquals(id, "", "the created user should have an ID", assertions.LevelHard)

		resp, err = t.Client().Get("/users/"+id, nil)
		require.NoError(t, err)
		a.Equals(resp.StatusCode, 200, "", assertions.LevelHard)
		a.Equals(resp.JSONValue("email").StringValue(), "alex.crawford@example.com", "", assertions.LevelSoft)
		a.Equals(resp.JSONValue("name").StringValue(), "Alex Crawford", "", assertions.LevelSoft)
	})

	t.Run("update keeps unspecified fields", func(t *T) {
		t.RequireLogin()
		a := t.Assert()

		resp, err := t.Client().Post("/users", userPayload("Robin Tate", "robin.tate@example.com"))
		require.NoError(t, err)
		require.Equal(t, 201, resp.StatusCode)
		id := resp.JSONValue("id").StringValue()

		resp, err = t.Client().Put("/users/"+id, &apiclient.RequestOpts{
			JSON: map[string]string{"name": "Robin Updated"},
		})
		require.NoError(t, err)
		a.Equals(resp.StatusCode, 200, "", assertions.LevelHard)
		a.Equals(resp.JSONValue("name").StringValue(), "Robin Updated", "", assertions.LevelSoft)
		a.Equals(resp.JSONValue("email").StringValue(), "robin.tate@example.com",
			"an update without an email should keep the old one", assertions.LevelSoft)
	})

	t.Run("delete removes the user", func(t *T) {
		t.RequireLogin()
		a := t.Assert()

		resp, err := t.Client().Post("/users", userPayload("Gone Soon", "gone.soon@example.com"))
		require.NoError(t, err)
		require.Equal(t, 201, resp.StatusCode)
		id := resp.JSONValue("id").StringValue()

		resp, err = t.Client().Delete("/users/"+id, nil)
		require.NoError(t, err)
		a.Equals(resp.StatusCode, 204, "", assertions.LevelHard)

		resp, err = t.Client().Get("/users/"+id, nil)
		require.NoError(t, err)
		a.Equals(resp.StatusCode, 404, "a deleted user should not be found", assertions.LevelHard)
	})

	t.Run("unknown user returns 404", func(t *T) {
		t.RequireLogin()
		resp, err := t.Client().Get("/users/no-such-id", nil)
		require.NoError(t, err)
		t.Assert().Equals(resp.StatusCode, 404, "", assertions.LevelHard)
	})
}
