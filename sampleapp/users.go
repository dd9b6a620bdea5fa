package sampleapp

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// The user store requires a logged-in session for all operations, like the
// rest of the application surface.

func (a *App) handleUsers(w http.ResponseWriter, req *http.Request) {
	if _, user := a.sessionFor(req); user == "" {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	switch req.Method {
	case http.MethodGet:
		a.lock.Lock()
		list := make([]User, 0, len(a.order))
		for _, id := range a.order {
			list = append(list, a.users[id])
		}
		a.lock.Unlock()
		writeJSON(w, 200, map[string]interface{}{"users": list, "total": len(list)})

	case http.MethodPost:
		var u User
		if err := json.NewDecoder(req.Body).Decode(&u); err != nil {
			writeError(w, http.StatusBadRequest, "malformed user")
			return
		}
		if u.Name == "" || u.Email == "" {
			writeError(w, http.StatusBadRequest, "name and email are required")
			return
		}
		u.ID = uuid.NewString()
		a.lock.Lock()
		a.users[u.ID] = u
		a.order = append(a.order, u.ID)
		a.lock.Unlock()
		a.logger.Printf("created user %s (%s)", u.ID, u.Email)
		writeJSON(w, http.StatusCreated, u)

	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (a *App) handleUserByID(w http.ResponseWriter, req *http.Request) {
	if _, user := a.sessionFor(req); user == "" {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	id := strings.TrimPrefix(req.URL.Path, "/users/")
	a.lock.Lock()
	u, found := a.users[id]
	a.lock.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "no such user")
		return
	}

	switch req.Method {
	case http.MethodGet:
		writeJSON(w, 200, u)

	case http.MethodPut:
		var update User
		if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "malformed user")
			return
		}
		update.ID = id
		if update.Name == "" {
			update.Name = u.Name
		}
		if update.Email == "" {
			update.Email = u.Email
		}
		a.lock.Lock()
		a.users[id] = update
		a.lock.Unlock()
		writeJSON(w, 200, update)

	case http.MethodDelete:
		a.lock.Lock()
		delete(a.users, id)
		for i, existing := range a.order {
			if existing == id {
				a.order = append(a.order[:i], a.order[i+1:]...)
				break
			}
		}
		a.lock.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}
