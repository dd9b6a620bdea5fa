package apiclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHeadersAreSent(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		_, err := client.Get("/anything", nil)
		require.NoError(t, err)

		received := <-requests
		assert.Equal(t, "application/json", received.Request.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", received.Request.Header.Get("Accept"))
		assert.Equal(t, userAgent, received.Request.Header.Get("User-Agent"))
	})
}

func TestHeaderManagement(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		client.SetHeader("X-Custom", "abc")
		_, err := client.Get("/", nil)
		require.NoError(t, err)
		received := <-requests
		assert.Equal(t, "abc", received.Request.Header.Get("X-Custom"))

		client.RemoveHeader("X-Custom")
		_, err = client.Get("/", nil)
		require.NoError(t, err)
		received = <-requests
		assert.Empty(t, received.Request.Header.Get("X-Custom"))
	})
}

func TestPerRequestHeadersOverrideDefaults(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		_, err := client.Get("/", &RequestOpts{Headers: map[string]string{"Accept": "text/plain"}})
		require.NoError(t, err)
		received := <-requests
		assert.Equal(t, "text/plain", received.Request.Header.Get("Accept"))
	})
}

func TestBearerAndBasicAuth(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)

		client.SetAuthToken("tok123", "")
		_, err := client.Get("/", nil)
		require.NoError(t, err)
		received := <-requests
		assert.Equal(t, "Bearer tok123", received.Request.Header.Get("Authorization"))

		client.ClearAuth()
		client.SetBasicAuth("user", "pass")
		_, err = client.Get("/", nil)
		require.NoError(t, err)
		received = <-requests
		user, pass, ok := received.Request.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "pass", pass)

		client.ClearAuth()
		_, err = client.Get("/", nil)
		require.NoError(t, err)
		received = <-requests
		assert.Empty(t, received.Request.Header.Get("Authorization"))
	})
}

func TestQueryParams(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		_, err := client.Get("/search", &RequestOpts{Params: map[string]string{"q": "hello world"}})
		require.NoError(t, err)
		received := <-requests
		assert.Equal(t, "hello world", received.Request.URL.Query().Get("q"))
	})
}

func TestPostJSONBody(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(201))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		resp, err := client.Post("/things", &RequestOpts{JSON: map[string]string{"name": "x"}})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		received := <-requests
		assert.JSONEq(t, `{"name":"x"}`, string(received.Body))
	})
}

func TestJSONValueNavigation(t *testing.T) {
	respBody := map[string]interface{}{
		"user": map[string]interface{}{"name": "pat", "age": 42},
	}
	handler := httphelpers.HandlerWithJSONResponse(respBody, nil)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		resp, err := client.Get("/user", nil)
		require.NoError(t, err)

		assert.Equal(t, "pat", resp.JSONValue("user", "name").StringValue())
		assert.Equal(t, 42, resp.JSONValue("user", "age").IntValue())
		assert.True(t, resp.JSONValue("user", "missing").IsNull())
	})
}

func TestJSONErrorOnNonJSONBody(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, nil, []byte("<html>nope</html>"))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		resp, err := client.Get("/", nil)
		require.NoError(t, err)

		_, jsonErr := resp.JSON()
		assert.Error(t, jsonErr)
		assert.True(t, resp.JSONValue("anything").IsNull())
	})
}

func TestLastResponseTracking(t *testing.T) {
	handler := httphelpers.HandlerWithStatus(204)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		assert.Nil(t, client.LastResponse())

		resp, err := client.Delete("/things/1", nil)
		require.NoError(t, err)
		assert.Same(t, resp, client.LastResponse())
		assert.Equal(t, 204, resp.StatusCode)
	})
}

func TestAbsoluteURLBypassesBaseURL(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New("http://example.invalid", nil)
		_, err := client.Get(server.URL+"/direct", nil)
		require.NoError(t, err)
		received := <-requests
		assert.Equal(t, "/direct", received.Request.URL.Path)
	})
}

func TestElapsedTimeIsMeasured(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(200)
	})
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := New(server.URL, nil)
		resp, err := client.Get("/", nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, resp.Elapsed, 20*time.Millisecond)
		assert.True(t, resp.TimeUnder(10*time.Second))
		assert.False(t, resp.TimeUnder(time.Millisecond))
	})
}

func TestTransportErrorIsReturned(t *testing.T) {
	client := New("http://localhost:1", nil) // nothing listens here
	client.SetTimeout(time.Second)
	_, err := client.Get("/", nil)
	assert.Error(t, err)
}
