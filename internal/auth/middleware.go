package auth

import (
	"context"
	"net/http"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
)

type contextKey string

const UserContextKey contextKey = "user"

// SessionCookie names the gateway session cookie issued on login
const SessionCookie = "hopwhistle_session"

// RequireSession rejects requests that do not carry the current gateway
// session and puts the session user on the request context otherwise
func RequireSession(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := svc.store.User()
			if user == nil || !svc.Authorize(SessionToken(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"not authenticated"}`))
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken returns the gateway token sent by the caller, if any
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetSessionCookie hands token to the browser
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the gateway cookie from the browser
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetUserFromContext retrieves the session user from request context
func GetUserFromContext(ctx context.Context) (*types.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*types.User)
	return user, ok
}

// HasRole checks if user has specific role
func HasRole(user *types.User, role string) bool {
	return user != nil && user.Role == role
}
