package client

import (
	"context"
	"net/http"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
)

// Login submits credentials. On success the backend also sets the session
// cookie, which the client's jar keeps for later requests.
func (c *Client) Login(ctx context.Context, creds types.LoginRequest) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	err := c.do(ctx, request{
		operation: "login",
		method:    http.MethodPost,
		path:      "/api/auth/login",
		body:      creds,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout ends the backend session. The response body is discarded.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{
		operation: "logout",
		method:    http.MethodPost,
		path:      "/api/auth/logout",
	}, nil)
}

// CurrentUser returns the user bound to the session cookie. Without a valid
// session the backend answers 401; see IsUnauthorized.
func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	var user types.User
	err := c.do(ctx, request{
		operation: "me",
		method:    http.MethodGet,
		path:      "/api/auth/me",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
