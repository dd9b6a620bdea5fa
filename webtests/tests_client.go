package webtests

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qaengine/webtest-harness/assertions"
)

const awaitRequestTimeout = 5 * time.Second

// These tests point the API client at mock endpoints registered on the
// harness, to verify the client's own behavior on the wire.
func DoClientBehaviorTests(t *T) {
	t.Run("default headers are sent", func(t *T) {
		endpoint := t.Harness().NewMockEndpoint(statusHandler(200), 10, nil)
		defer endpoint.Close()

		_, err := t.Client().Get(endpoint.BaseURL(), nil)
		require.NoError(t, err)

		received, err := endpoint.AwaitConnection(awaitRequestTimeout)
		require.NoError(t, err)

		a := t.Assert()
		a.Equals(received.Headers.Get("Content-Type"), "application/json", "", assertions.LevelSoft)
		a.Equals(received.Headers.Get("Accept"), "application/json", "", assertions.LevelSoft)
		a.NotEquals(received.Headers.Get("User-Agent"), "", "", assertions.LevelSoft)
	})

	t.Run("auth token is sent until cleared", func(t *T) {
		endpoint := t.Harness().NewMockEndpoint(statusHandler(200), 10, nil)
		defer endpoint.Close()

		t.Client().SetAuthToken("abc123", "")
		_, err := t.Client().Get(endpoint.BaseURL(), nil)
		require.NoError(t, err)
		received, err := endpoint.AwaitConnection(awaitRequestTimeout)
		require.NoError(t, err)
		t.Assert().Equals(received.Headers.Get("Authorization"), "Bearer abc123", "", assertions.LevelHard)

		t.Client().ClearAuth()
		_, err = t.Client().Get(endpoint.BaseURL(), nil)
		require.NoError(t, err)
		received, err = endpoint.AwaitConnection(awaitRequestTimeout)
		require.NoError(t, err)
		t.Assert().Equals(received.Headers.Get("Authorization"), "", "", assertions.LevelHard)
	})

	t.Run("request bodies arrive intact", func(t *T) {
		endpoint := t.Harness().NewMockEndpoint(statusHandler(200), 10, nil)
		defer endpoint.Close()

		_, err := t.Client().Post(endpoint.BaseURL(), userPayload("Body Check", "body.check@example.com"))
		require.NoError(t, err)

		received, err := endpoint.AwaitConnection(awaitRequestTimeout)
		require.NoError(t, err)
		t.Assert().Contains(string(received.Body), "body.check@example.com", "", assertions.LevelHard)
	})

	t.Run("closed endpoints return 404", func(t *T) {
		endpoint := t.Harness().NewMockEndpoint(statusHandler(200), 10, nil)
		url := endpoint.BaseURL()
		endpoint.Close()

		resp, err := t.Client().Get(url, nil)
		require.NoError(t, err)
		t.Assert().Equals(resp.StatusCode, 404, "", assertions.LevelHard)
	})
}

func statusHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}
