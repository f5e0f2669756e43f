package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dennisdiepolder/hopwhistle/internal/auth"
	"github.com/dennisdiepolder/hopwhistle/internal/session"
	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/dennisdiepolder/hopwhistle/pkg/client"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type fakeAuthBackend struct{}

func (fakeAuthBackend) Login(ctx context.Context, creds types.LoginRequest) (*types.LoginResponse, error) {
	if creds.Password != "secret" {
		return nil, &client.APIError{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	}
	return &types.LoginResponse{User: types.User{ID: "u1", Email: creds.Email, Role: types.RoleViewer, AccountID: "a1"}}, nil
}

func (fakeAuthBackend) Logout(ctx context.Context) error { return nil }

func (fakeAuthBackend) CurrentUser(ctx context.Context) (*types.User, error) {
	return nil, &client.APIError{Message: "not authenticated", StatusCode: http.StatusUnauthorized}
}

// setupSession mounts the session routes the way the gateway does, with a
// protected route standing in for the dashboard data
func setupSession() (http.Handler, *session.Store) {
	store := session.NewStore()
	svc := auth.NewService(fakeAuthBackend{}, store, zerolog.Nop())
	h := NewSessionHandler(svc, zerolog.Nop())

	r := chi.NewRouter()
	r.Post("/api/session/login", h.HandleLogin)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(svc))
		r.Post("/api/session/logout", h.HandleLogout)
		r.Get("/api/session", h.HandleCurrent)
		r.Get("/api/calls/{callID}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "callID")})
		})
	})
	return r, store
}

func send(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			if !c.HttpOnly {
				t.Error("expected session cookie to be HttpOnly")
			}
			return c
		}
	}
	t.Fatal("expected session cookie on login response")
	return nil
}

func TestSessionLoginLogout(t *testing.T) {
	h, store := setupSession()

	rec := send(h, http.MethodPost, "/api/session/login", `{"email":"ops@example.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.User() == nil || store.User().ID != "u1" {
		t.Fatalf("expected store to hold u1, got %v", store.User())
	}
	cookie := sessionCookie(t, rec)

	rec = send(h, http.MethodGet, "/api/session", "", cookie)
	var user types.User
	json.NewDecoder(rec.Body).Decode(&user)
	if rec.Code != http.StatusOK || user.Email != "ops@example.com" {
		t.Errorf("unexpected current session %d %+v", rec.Code, user)
	}

	rec = send(h, http.MethodPost, "/api/session/logout", "", cookie)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if store.User() != nil {
		t.Error("expected store to be cleared")
	}

	rec = send(h, http.MethodGet, "/api/session", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestSessionIsPerCaller(t *testing.T) {
	h, store := setupSession()

	rec := send(h, http.MethodPost, "/api/session/login", `{"email":"ops@example.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d", rec.Code)
	}
	owner := sessionCookie(t, rec)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"call data", http.MethodGet, "/api/calls/c1"},
		{"current session", http.MethodGet, "/api/session"},
		{"logout", http.MethodPost, "/api/session/logout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(h, tt.method, tt.path, "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 for a caller without the cookie, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}

	// A failed login from another caller does not end the owner's session
	rec = send(h, http.MethodPost, "/api/session/login", `{"email":"ops@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}
	if store.User() == nil {
		t.Fatal("expected owner session to survive another caller's failed login")
	}

	rec = send(h, http.MethodGet, "/api/calls/c1", "", owner)
	if rec.Code != http.StatusOK {
		t.Errorf("expected owner to keep access, got %d", rec.Code)
	}

	// The owner's own failed login does end it
	rec = send(h, http.MethodPost, "/api/session/login", `{"email":"ops@example.com","password":"wrong"}`, owner)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}
	if store.User() != nil {
		t.Error("expected owner's failed login to clear the session")
	}
}

func TestSessionLoginErrors(t *testing.T) {
	h, _ := setupSession()

	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"invalid json", `{`, http.StatusBadRequest, "invalid JSON"},
		{"missing password", `{"email":"ops@example.com"}`, http.StatusBadRequest, "email and password are required"},
		{"wrong password", `{"email":"ops@example.com","password":"nope"}`, http.StatusUnauthorized, "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(h, http.MethodPost, "/api/session/login", tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			var body map[string]string
			json.NewDecoder(rec.Body).Decode(&body)
			if body["detail"] != tt.detail {
				t.Errorf("expected detail %q, got %q", tt.detail, body["detail"])
			}
		})
	}
}
