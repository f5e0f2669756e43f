package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/gorilla/mux"
)

const sessionCookie = "session"

// fakeBackend mimics the REST backend closely enough to exercise the client
type fakeBackend struct {
	mu       sync.Mutex
	requests []*http.Request
	server   *httptest.Server
	router   *mux.Router
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{router: mux.NewRouter()}
	fb.router.Use(fb.record)

	fb.router.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds types.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
			return
		}
		if creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "s-123", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, types.LoginResponse{
			AccessToken: "tok",
			User:        testUser(),
		})
	}).Methods(http.MethodPost)

	fb.router.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}).Methods(http.MethodPost)

	fb.router.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookie); err != nil || c.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, testUser())
	}).Methods(http.MethodGet)

	fb.server = httptest.NewServer(fb.router)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.requests = append(fb.requests, r.Clone(r.Context()))
		fb.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (fb *fakeBackend) lastRequest() *http.Request {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.requests) == 0 {
		return nil
	}
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) handle(path string, h http.HandlerFunc) {
	fb.router.HandleFunc(path, h).Methods(http.MethodGet)
}

func (fb *fakeBackend) client(opts ...Option) *Client {
	return NewClient(fb.server.URL, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func testUser() types.User {
	return types.User{ID: "u1", Email: "ops@example.com", Role: types.RoleAdmin, AccountID: "a1"}
}
