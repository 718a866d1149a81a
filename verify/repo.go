// Package verify stores one-shot verification tokens for email
// verification and password reset. Tokens are random, short-lived, and
// deleted on successful use.
package verify

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("verification token not found")

// Token links a random token string to the email it was issued for.
type Token struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the token's own deadline has passed. The
// store TTL usually evicts first; this guards the window in between.
func (t Token) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

type Repo interface {
	Save(ctx context.Context, token Token, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
