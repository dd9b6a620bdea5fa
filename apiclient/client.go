// Package apiclient provides the HTTP keyword layer: a session-like client
// with default headers and authentication state, request helpers for each
// method, and response inspection helpers that the assertion keywords
// consume. It wraps net/http; every operation returns an error rather than
// failing the test itself.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/qaengine/webtest-harness/framework"
)

const defaultTimeout = 30 * time.Second
const userAgent = "webtest-harness/1.0"

// Client is a stateful HTTP session: base URL, default headers, and optional
// authentication that apply to every request until changed. It is not safe
// for concurrent use; each test owns its own instance.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	headers      http.Header
	basicUser    string
	basicPass    string
	useBasic     bool
	logger       framework.Logger
	lastResponse *Response
}

// RequestOpts are per-request options. All fields are optional.
type RequestOpts struct {
	// Params are query string parameters.
	Params map[string]string
	// Headers are added on top of the client's default headers.
	Headers map[string]string
	// JSON, if non-nil, is marshaled as the request body. Body is ignored
	// when JSON is set.
	JSON interface{}
	// Body is a raw request body.
	Body []byte
}

// Response captures one HTTP exchange. The body is fully read before the
// Response is returned, so inspection helpers never do I/O.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Elapsed    time.Duration

	parsed    ldvalue.Value
	parseErr  error
	parseDone bool
}

func New(baseURL string, logger framework.Logger) *Client {
	if logger == nil {
		logger = framework.NullLogger()
	}
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", userAgent)
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		headers:    headers,
		logger:     logger,
	}
}

// SetBaseURL changes the base URL for subsequent requests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	c.logger.Printf("API base URL set to %s", c.baseURL)
}

// SetTimeout changes the timeout for subsequent requests.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
	c.logger.Printf("API timeout set to %s", timeout)
}

// SetHeader sets or replaces a default header.
func (c *Client) SetHeader(key, value string) {
	c.headers.Set(key, value)
	c.logger.Printf("header set: %s = %s", key, value)
}

// RemoveHeader removes a default header.
func (c *Client) RemoveHeader(key string) {
	c.headers.Del(key)
	c.logger.Printf("header removed: %s", key)
}

// SetAuthToken sets a token in the Authorization header. The token type
// defaults to Bearer when empty.
func (c *Client) SetAuthToken(token, tokenType string) {
	if tokenType == "" {
		tokenType = "Bearer"
	}
	c.headers.Set("Authorization", tokenType+" "+token)
	c.logger.Printf("authentication token set (%s)", tokenType)
}

// SetBasicAuth enables basic authentication for subsequent requests.
func (c *Client) SetBasicAuth(username, password string) {
	c.basicUser, c.basicPass, c.useBasic = username, password, true
	c.logger.Printf("basic authentication set for user %s", username)
}

// ClearAuth removes all authentication state.
func (c *Client) ClearAuth() {
	c.useBasic = false
	c.basicUser, c.basicPass = "", ""
	c.headers.Del("Authorization")
	c.logger.Printf("authentication cleared")
}

func (c *Client) Get(endpoint string, opts *RequestOpts) (*Response, error) {
	return c.do(http.MethodGet, endpoint, opts)
}

func (c *Client) Post(endpoint string, opts *RequestOpts) (*Response, error) {
	return c.do(http.MethodPost, endpoint, opts)
}

func (c *Client) Put(endpoint string, opts *RequestOpts) (*Response, error) {
	return c.do(http.MethodPut, endpoint, opts)
}

func (c *Client) Patch(endpoint string, opts *RequestOpts) (*Response, error) {
	return c.do(http.MethodPatch, endpoint, opts)
}

func (c *Client) Delete(endpoint string, opts *RequestOpts) (*Response, error) {
	return c.do(http.MethodDelete, endpoint, opts)
}

// LastResponse returns the response from the most recent request, or nil if
// no request has completed.
func (c *Client) LastResponse() *Response {
	return c.lastResponse
}

func (c *Client) do(method, endpoint string, opts *RequestOpts) (*Response, error) {
	if opts == nil {
		opts = &RequestOpts{}
	}

	fullURL, err := c.buildURL(endpoint, opts.Params)
	if err != nil {
		return nil, err
	}

	body := opts.Body
	if opts.JSON != nil {
		body, err = json.Marshal(opts.JSON)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
	}

	req, err := http.NewRequest(method, fullURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}
	for key, v := range opts.Headers {
		req.Header.Set(key, v)
	}
	if c.useBasic {
		req.SetBasicAuth(c.basicUser, c.basicPass)
	}

	c.logger.Printf("sending %s request to %s", method, fullURL)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("%s request failed: %s", method, err)
		return nil, fmt.Errorf("%s %s failed: %w", method, fullURL, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	r := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       buf.Bytes(),
		Elapsed:    time.Since(start),
	}
	c.lastResponse = r
	c.logger.Printf("received %d in %s (%d bytes)", r.StatusCode, r.Elapsed, len(r.Body))
	return r, nil
}

func (c *Client) buildURL(endpoint string, params map[string]string) (string, error) {
	full := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		full = c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	}
	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %q: %w", full, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// JSON parses the response body once and returns it as an ldvalue.Value.
func (r *Response) JSON() (ldvalue.Value, error) {
	if !r.parseDone {
		r.parseDone = true
		if len(r.Body) == 0 {
			r.parseErr = fmt.Errorf("response body is empty")
		} else {
			r.parsed = ldvalue.Parse(r.Body)
			if r.parsed.IsNull() {
				r.parseErr = fmt.Errorf("response body is not valid JSON: %q", string(r.Body))
			}
		}
	}
	return r.parsed, r.parseErr
}

// JSONValue navigates the parsed body by object keys and returns the value
// at that path, or a null value if any step is missing.
func (r *Response) JSONValue(path ...string) ldvalue.Value {
	v, err := r.JSON()
	if err != nil {
		return ldvalue.Null()
	}
	for _, key := range path {
		v = v.GetByKey(key)
	}
	return v
}

// HeaderValue returns a response header value.
func (r *Response) HeaderValue(key string) string {
	return r.Headers.Get(key)
}

// TimeUnder reports whether the exchange completed within the limit.
func (r *Response) TimeUnder(limit time.Duration) bool {
	return r.Elapsed <= limit
}
