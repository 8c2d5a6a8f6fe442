// Package client is the API-facing state container for SecureRisk
// front ends. A Client is stateless and safe to share; each Session
// holds one user's token and a local copy of the register, refreshed
// wholesale on login and patched in place on successful mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"securerisk/internal/models"
)

// ErrUnauthorized reports a rejected token. The session drops its
// credential when this happens; callers are expected to log in again.
var ErrUnauthorized = errors.New("session unauthorized")

// APIError is a non-2xx response decoded from the server's
// {"error": msg} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

type authResp struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates an account and returns an authenticated session.
func (c *Client) Register(ctx context.Context, username, password string, role models.Role) (*Session, error) {
	body := map[string]string{"username": username, "password": password, "role": string(role)}
	var resp authResp
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &resp); err != nil {
		return nil, err
	}
	return &Session{c: c, token: resp.Token, user: resp.User}, nil
}

// Login authenticates and returns a session primed with a fresh copy
// of the register.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	body := map[string]string{"username": username, "password": password}
	var resp authResp
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	s := &Session{c: c, token: resp.Token, user: resp.User}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
