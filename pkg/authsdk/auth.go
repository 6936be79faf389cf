package authsdk

import (
	"context"
	"net/http"
)

// Register creates a new account. On success the server sets both auth
// cookies, which land in the client's jar.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (MessageResponse, error) {
	var out MessageResponse
	err := c.doJSON(ctx, http.MethodPost, c.AuthURL+"/v1/auth/register", req, &out)
	return out, err
}

// Login authenticates with email and password. All previously issued
// refresh tokens for the user are invalidated by the server.
func (c *Client) Login(ctx context.Context, req LoginRequest) (MessageResponse, error) {
	var out MessageResponse
	err := c.doJSON(ctx, http.MethodPost, c.AuthURL+"/v1/auth/login", req, &out)
	return out, err
}

// Logout invalidates the current refresh token and clears both cookies.
func (c *Client) Logout(ctx context.Context) (MessageResponse, error) {
	var out MessageResponse
	err := c.doJSON(ctx, http.MethodDelete, c.AuthURL+"/v1/auth/logout", nil, &out)
	return out, err
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (UserProfile, error) {
	var out MeResponse
	if err := c.doJSON(ctx, http.MethodGet, c.AuthURL+"/v1/auth/me", nil, &out); err != nil {
		return UserProfile{}, err
	}
	return out.User, nil
}
