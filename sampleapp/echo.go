package sampleapp

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const maxDelay = 10 * time.Second

var echoMethods = map[string]string{
	"/get":    http.MethodGet,
	"/post":   http.MethodPost,
	"/put":    http.MethodPut,
	"/patch":  http.MethodPatch,
	"/delete": http.MethodDelete,
}

// handleEcho mirrors the request back as JSON, in the shape the public
// httpbin service uses: args, headers, origin, url, and for requests with a
// body also data and json.
func (a *App) handleEcho(w http.ResponseWriter, req *http.Request) {
	if expected := echoMethods[req.URL.Path]; req.Method != expected {
		writeError(w, http.StatusMethodNotAllowed, "this endpoint requires "+expected)
		return
	}

	resp := map[string]interface{}{
		"args":    singleValueMap(req.URL.Query()),
		"headers": singleValueMap(req.Header),
		"origin":  req.RemoteAddr,
		"url":     req.URL.String(),
	}

	if req.Method != http.MethodGet {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not read request body")
			return
		}
		resp["data"] = string(body)
		if len(body) > 0 {
			if parsed := ldvalue.Parse(body); parsed.Type() != ldvalue.NullType {
				resp["json"] = parsed
			}
		}
	}

	writeJSON(w, 200, resp)
}

func (a *App) handleHeaders(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, 200, map[string]interface{}{"headers": singleValueMap(req.Header)})
}

func (a *App) handleStatusCode(w http.ResponseWriter, req *http.Request) {
	code, err := strconv.Atoi(strings.TrimPrefix(req.URL.Path, "/status/"))
	if err != nil || code < 100 || code > 599 {
		writeError(w, http.StatusBadRequest, "invalid status code")
		return
	}
	w.WriteHeader(code)
}

func (a *App) handleDelay(w http.ResponseWriter, req *http.Request) {
	seconds, err := strconv.ParseFloat(strings.TrimPrefix(req.URL.Path, "/delay/"), 64)
	if err != nil || seconds < 0 {
		writeError(w, http.StatusBadRequest, "invalid delay")
		return
	}
	delay := time.Duration(seconds * float64(time.Second))
	if delay > maxDelay {
		delay = maxDelay
	}

	select {
	case <-time.After(delay):
	case <-req.Context().Done():
		return
	}
	writeJSON(w, 200, map[string]interface{}{
		"delay": seconds,
		"url":   req.URL.String(),
	})
}

func singleValueMap(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
