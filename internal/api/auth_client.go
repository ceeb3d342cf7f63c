package api

import (
	"context"
	"net/http"

	"campusmarket/internal/auth"
)

// AuthClient talks to /api/auth/login.
type AuthClient struct {
	*Client
}

func NewAuthClient(base *Client) *AuthClient {
	return &AuthClient{Client: base}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token bundle. The caller decides whether
// to persist it.
func (c *AuthClient) Login(ctx context.Context, email, password string) (auth.Credentials, error) {
	var creds auth.Credentials
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &creds)
	if err != nil {
		return auth.Credentials{}, err
	}
	return creds, nil
}
