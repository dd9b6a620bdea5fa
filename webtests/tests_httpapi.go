package webtests

import (
	"fmt"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qaengine/webtest-harness/apiclient"
	"github.com/qaengine/webtest-harness/assertions"
)

const responseTimeWarning = 2 * time.Second

func DoHTTPAPITests(t *T) {
	t.Run("get echoes query parameters", func(t *T) {
		resp, err := t.Client().Get("/get", &apiclient.RequestOpts{
			Params: map[string]string{"search": "widgets", "page": "2"},
		})
		require.NoError(t, err)

		a := t.Assert()
		a.Equals(resp.StatusCode, 200, "", assertions.LevelHard)
		a.Equals(resp.JSONValue("args", "search").StringValue(), "widgets", "", assertions.LevelSoft)
		a.Equals(resp.JSONValue("args", "page").StringValue(), "2", "", assertions.LevelSoft)
		for _, field := range []string{"args", "headers", "origin", "url"} {
			a.IsFalse(resp.JSONValue(field).IsNull(),
				fmt.Sprintf("response should contain the %s field", field), assertions.LevelSoft)
		}
	})

	t.Run("post echoes the json body", func(t *T) {
		resp, err := t.Client().Post("/post", &apiclient.RequestOpts{
			JSON: map[string]interface{}{"name": "sample", "count": 3},
		})
		require.NoError(t, err)

		a := t.Assert()
		a.Equals(resp.StatusCode, 200, "", assertions.LevelHard)
		a.Equals(resp.JSONValue("json", "name").StringValue(), "sample", "", assertions.LevelSoft)
		a.Equals(resp.JSONValue("json", "count").IntValue(), 3, "", assertions.LevelSoft)
	})

	t.Run("put patch and delete round-trip", func(t *T) {
		a := t.Assert()

		resp, err := t.Client().Put("/put", &apiclient.RequestOpts{JSON: map[string]string{"op": "put"}})
		require.NoError(t, err)
		a.Equals(resp.JSONValue("json", "op").StringValue(), "put", "", assertions.LevelSoft)

		resp, err = t.Client().Patch("/patch", &apiclient.RequestOpts{JSON: map[string]string{"op": "patch"}})
		require.NoError(t, err)
		a.Equals(resp.JSONValue("json", "op").StringValue(), "patch", "", assertions.LevelSoft)

		resp, err = t.Client().Delete("/delete", nil)
		require.NoError(t, err)
		a.Equals(resp.StatusCode, 200, "", assertions.LevelSoft)
	})

	t.Run("status codes are passed through", func(t *T) {
		a := t.Assert()
		for _, code := range []int{200, 201, 204, 400, 404, 500, 503} {
			resp, err := t.Client().Get(fmt.Sprintf("/status/%d", code), nil)
			require.NoError(t, err)
			a.Equals(resp.StatusCode, code,
				fmt.Sprintf("status endpoint should return %d", code), assertions.LevelSoft)
		}
	})

	t.Run("request headers are visible", func(t *T) {
		t.Client().SetHeader("X-Test-Run", "suite")
		resp, err := t.Client().Get("/headers", nil)
		require.NoError(t, err)

		a := t.Assert()
		a.Equals(resp.JSONValue("headers", "X-Test-Run").StringValue(), "suite", "", assertions.LevelSoft)
		a.NotEquals(resp.JSONValue("headers", "User-Agent").StringValue(), "",
			"the client should identify itself", assertions.LevelSoft)
	})

	t.Run("responses arrive promptly", func(t *T) {
		resp, err := t.Client().Get("/get", nil)
		require.NoError(t, err)

		// a slow response is worth knowing about but should not fail the run
		t.Assert().IsTrue(resp.TimeUnder(responseTimeWarning),
			fmt.Sprintf("response took %s, expected under %s", resp.Elapsed, responseTimeWarning),
			assertions.LevelWarning)
	})
}
