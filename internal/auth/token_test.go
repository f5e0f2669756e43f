package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestInspectAccessToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub":   "u1",
		"email": "ops@example.com",
		"role":  "admin",
		"exp":   exp.Unix(),
	})

	info, err := InspectAccessToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Subject != "u1" {
		t.Errorf("expected subject u1, got %s", info.Subject)
	}
	if info.Email != "ops@example.com" || info.Role != "admin" {
		t.Errorf("unexpected claims %+v", info)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, info.ExpiresAt)
	}
	if info.Expired(time.Now()) {
		t.Error("token should not be expired")
	}
}

func TestInspectAccessTokenExpired(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()})

	// Expired tokens are still readable; nothing here verifies them
	info, err := InspectAccessToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.Expired(time.Now()) {
		t.Error("expected token to be expired")
	}
}

func TestInspectAccessTokenInvalid(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := InspectAccessToken(token); err == nil {
			t.Errorf("expected error for %q", token)
		}
	}
}

func TestTokenWithoutExpiry(t *testing.T) {
	info, err := InspectAccessToken(signedToken(t, jwt.MapClaims{"sub": "u1"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.ExpiresAt.IsZero() || info.Expired(time.Now()) {
		t.Errorf("expected no expiry, got %v", info.ExpiresAt)
	}
}
