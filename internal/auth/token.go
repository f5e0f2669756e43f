package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the gateway can read from the login access token without
// verifying it. The token is never used for authentication.
type TokenInfo struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the token carried an expiry that has passed
func (i *TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// InspectAccessToken decodes the token claims without signature verification
func InspectAccessToken(tokenString string) (*TokenInfo, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("empty token")
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	info := &TokenInfo{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if email, ok := mapClaims["email"].(string); ok {
		info.Email = email
	}
	if role, ok := mapClaims["role"].(string); ok {
		info.Role = role
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}

	return info, nil
}
