package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const appPathPrefix = "/app"
const endpointPathPrefix = "/endpoints/"
const httpListenerTimeout = time.Second * 10

// AppInfo is metadata returned by the hosted application's status resource.
type AppInfo struct {
	Description string   `json:"description"`
	Endpoints   []string `json:"endpoints"`
}

// TestHarness hosts the application under test on an embedded HTTP listener,
// and can expose any number of mock endpoints for tests that need to inspect
// the requests a client sends.
type TestHarness struct {
	externalBaseURL string
	appHandler      http.Handler
	appInfo         AppInfo
	endpoints       map[string]*MockEndpoint
	lastEndpointID  int
	logger          Logger
	lock            sync.Mutex
}

// NewTestHarness starts an HTTP listener on the specified port, mounts the
// application handler under /app, and verifies that both the listener and
// the application's status resource are responding before returning.
func NewTestHarness(
	appHandler http.Handler,
	externalHostname string,
	port int,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}

	h := &TestHarness{
		externalBaseURL: fmt.Sprintf("http://%s:%d", externalHostname, port),
		appHandler:      appHandler,
		endpoints:       make(map[string]*MockEndpoint),
		logger:          debugLogger,
	}

	if err := startServer(port, http.HandlerFunc(h.serveHTTP)); err != nil {
		return nil, err
	}

	info, err := queryAppInfo(h.AppBaseURL()+"/status", httpListenerTimeout, startupOutput)
	if err != nil {
		return nil, err
	}
	h.appInfo = info

	return h, nil
}

// AppBaseURL returns the external base URL of the hosted application.
func (h *TestHarness) AppBaseURL() string {
	return h.externalBaseURL + appPathPrefix
}

// AppInfo returns the metadata the application reported at startup.
func (h *TestHarness) AppInfo() AppInfo {
	return h.appInfo
}

func (h *TestHarness) serveHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method == "HEAD" {
		w.WriteHeader(200) // we use this to test whether our own listener is active yet
		return
	}

	if req.URL.Path == appPathPrefix || strings.HasPrefix(req.URL.Path, appPathPrefix+"/") {
		url := *req.URL
		url.Path = strings.TrimPrefix(req.URL.Path, appPathPrefix)
		if url.Path == "" {
			url.Path = "/"
		}
		transformedReq := req.Clone(req.Context())
		transformedReq.URL = &url
		h.appHandler.ServeHTTP(w, transformedReq)
		return
	}

	if !strings.HasPrefix(req.URL.Path, endpointPathPrefix) {
		h.logger.Printf("Received request for unrecognized URL path %s", req.URL.Path)
		w.WriteHeader(404)
		return
	}
	path := strings.TrimPrefix(req.URL.Path, endpointPathPrefix)
	var endpointID string
	slashPos := strings.Index(path, "/")
	if slashPos >= 0 {
		endpointID = path[0:slashPos]
		path = path[slashPos:]
	} else {
		endpointID = path
		path = ""
	}

	h.lock.Lock()
	e := h.endpoints[endpointID]
	h.lock.Unlock()
	if e == nil {
		h.logger.Printf("Received request for unrecognized endpoint %s", req.URL.Path)
		w.WriteHeader(404)
		return
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			h.logger.Printf("Unexpected error trying to read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	e.lock.Lock()
	ctx, canceller := context.WithCancel(req.Context())
	cancellerPtr := &canceller
	e.cancels = append(e.cancels, cancellerPtr)
	e.lock.Unlock()

	incoming := IncomingRequestInfo{
		Headers: req.Header,
		Method:  req.Method,
		Body:    body,
		Context: ctx,
	}
	select { // non-blocking push
	case e.newConns <- incoming:
		break
	default:
		h.logger.Printf("Incoming connection channel was full for %s", req.URL)
	}

	transformedReq := req.WithContext(ctx)
	url := *req.URL
	url.Path = path
	transformedReq.URL = &url
	if body != nil {
		transformedReq.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	e.handler.ServeHTTP(w, transformedReq)

	e.lock.Lock()
	for i, c := range e.cancels {
		if c == cancellerPtr { // can't compare functions with ==, but can compare pointers
			e.cancels = append(e.cancels[:i], e.cancels[i+1:]...)
			break
		}
	}
	e.lock.Unlock()
}

// queryAppInfo polls the application's status resource until it responds or
// the timeout elapses, printing progress dots to the startup output.
func queryAppInfo(url string, timeout time.Duration, output io.Writer) (AppInfo, error) {
	fmt.Fprintf(output, "Waiting for the application at %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := http.DefaultClient.Get(url)
		if err == nil {
			fmt.Fprintln(output)
			if resp.StatusCode != 200 {
				return AppInfo{}, fmt.Errorf("application returned status code %d", resp.StatusCode)
			}
			respData, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return AppInfo{}, err
			}
			fmt.Fprintf(output, "Status query returned metadata: %s\n", string(respData))
			var info AppInfo
			if err := json.Unmarshal(respData, &info); err != nil {
				return AppInfo{}, fmt.Errorf("malformed status response from application: %s", string(respData))
			}
			return info, nil
		}
		if !time.Now().Before(deadline) {
			return AppInfo{}, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(time.Millisecond * 100)
	}
}

func startServer(port int, handler http.Handler) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil {
			panic(err)
		}
	}()

	// Wait till the server is definitely listening for requests before we run any tests
	deadline := time.NewTimer(httpListenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			return fmt.Errorf("could not detect own listener at %s", server.Addr)
		case <-ticker.C:
			resp, err := http.DefaultClient.Head(fmt.Sprintf("http://localhost:%d", port))
			if err == nil && resp.StatusCode == 200 {
				return nil
			}
		}
	}
}
