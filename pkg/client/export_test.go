package client

import "securerisk/internal/models"

// NewSessionForTest builds a session around an arbitrary token so
// tests can exercise stale-credential behavior.
func NewSessionForTest(c *Client, token string, u models.User) *Session {
	return &Session{c: c, token: token, user: u}
}
