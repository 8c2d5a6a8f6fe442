package auth

import (
	"context"

	"securerisk/internal/models"
)

type ctxKey string

const claimsKey ctxKey = "userClaims"

// Claims is the identity a verified token asserts. The role is trusted
// as-is until the token expires; a role change in the store takes
// effect only after the user logs in again.
type Claims struct {
	UserID   string
	Username string
	Role     models.Role
}

func (c Claims) HasAnyRole(roles ...models.Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func FromContext(ctx context.Context) Claims {
	if v, ok := ctx.Value(claimsKey).(Claims); ok {
		return v
	}
	return Claims{}
}

func Subject(ctx context.Context) string {
	return FromContext(ctx).UserID
}
