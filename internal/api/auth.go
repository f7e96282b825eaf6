package api

import (
	"context"
	"net/http"

	"thinktank/internal/models"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The response may or may not carry a token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if req.Role == "" {
		req.Role = models.DefaultRole
	}
	var out models.AuthResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
