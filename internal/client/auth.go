package client

import (
	"context"
	"net/http"
)

func (c *Client) Register(ctx context.Context, input RegisterInput) (*UserMessage, error) {
	var out UserMessage
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyEmail(ctx context.Context, email, code string) (*UserMessage, error) {
	body := map[string]string{"email": email, "verification_code": code}
	var out UserMessage
	if err := c.do(ctx, http.MethodPost, "/auth/verify-email", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/resend-verification", nil, map[string]string{"email": email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Login stores the session cookies in the jar on success.
func (c *Client) Login(ctx context.Context, identifier, password string) (*Session, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges the refresh_token cookie for a new access token.
func (c *Client) RefreshToken(ctx context.Context) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/refresh-token", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) LogoutAll(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout-all", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
