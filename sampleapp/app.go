// Package sampleapp implements the application that the test suites run
// against: a small session-based web application (login, dashboard, a user
// store) plus a set of echo endpoints in the style of the public httpbin
// service, so the HTTP keyword layer can be exercised without any external
// dependency.
package sampleapp

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/qaengine/webtest-harness/framework"
)

// Options configures the sample application.
type Options struct {
	// Username and Password are the only credentials the login endpoint
	// accepts.
	Username string
	Password string
	Logger   framework.Logger
}

// App is the in-process application under test. All state is in memory and
// guarded by a single mutex; the app is shared by every test in a run.
type App struct {
	username string
	password string
	logger   framework.Logger

	lock     sync.Mutex
	sessions map[string]string // token -> username
	users    map[string]User
	order    []string // user IDs in creation order
}

// User is a record in the application's user store.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = framework.NullLogger()
	}
	return &App{
		username: opts.Username,
		password: opts.Password,
		logger:   opts.Logger,
		sessions: make(map[string]string),
		users:    make(map[string]User),
	}
}

// Handler returns the application's HTTP handler. Paths are relative to
// wherever the caller mounts it.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", a.handleStatus)
	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/dashboard", a.handleDashboard)
	mux.HandleFunc("/users", a.handleUsers)
	mux.HandleFunc("/users/", a.handleUserByID)

	mux.HandleFunc("/get", a.handleEcho)
	mux.HandleFunc("/post", a.handleEcho)
	mux.HandleFunc("/put", a.handleEcho)
	mux.HandleFunc("/patch", a.handleEcho)
	mux.HandleFunc("/delete", a.handleEcho)
	mux.HandleFunc("/headers", a.handleHeaders)
	mux.HandleFunc("/status/", a.handleStatusCode)
	mux.HandleFunc("/delay/", a.handleDelay)
	return mux
}

func (a *App) handleStatus(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, 200, framework.AppInfo{
		Description: "sample web application",
		Endpoints: []string{
			"login", "logout", "dashboard", "users",
			"get", "post", "put", "patch", "delete", "headers", "status", "delay",
		},
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *App) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "login requires POST")
		return
	}

	var creds loginRequest
	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
			writeError(w, http.StatusBadRequest, "malformed login request")
			return
		}
	} else {
		if err := req.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "malformed login request")
			return
		}
		creds.Username = req.PostFormValue("username")
		creds.Password = req.PostFormValue("password")
	}

	if creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if creds.Username != a.username || creds.Password != a.password {
		a.logger.Printf("rejected login for %q", creds.Username)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	a.lock.Lock()
	a.sessions[token] = creds.Username
	a.lock.Unlock()
	a.logger.Printf("issued session %s for %q", token, creds.Username)

	http.SetCookie(w, &http.Cookie{Name: "session_token", Value: token, Path: "/"})
	writeJSON(w, 200, map[string]string{
		"message": "Welcome, " + creds.Username,
		"token":   token,
	})
}

func (a *App) handleLogout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "logout requires POST")
		return
	}
	token, user := a.sessionFor(req)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	a.lock.Lock()
	delete(a.sessions, token)
	a.lock.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleDashboard(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "dashboard requires GET")
		return
	}
	_, user := a.sessionFor(req)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	a.lock.Lock()
	userCount := len(a.users)
	a.lock.Unlock()

	writeJSON(w, 200, map[string]interface{}{
		"welcome": "Welcome back, " + user,
		"widgets": []map[string]string{
			{"title": "Recent Activity"},
			{"title": "User Statistics"},
			{"title": "System Health"},
		},
		"userCount": userCount,
	})
}

// sessionFor returns the token and username of the request's session, or
// empty strings if there is none. A bearer token takes precedence over the
// session cookie.
func (a *App) sessionFor(req *http.Request) (token, user string) {
	if auth := req.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	} else if c, err := req.Cookie("session_token"); err == nil {
		token = c.Value
	}
	if token == "" {
		return "", ""
	}
	a.lock.Lock()
	user = a.sessions[token]
	a.lock.Unlock()
	return token, user
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
