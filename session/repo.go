// Package session persists the single live refresh token per subject.
// The store is the anti-replay authority: a refresh token that decodes
// validly but no longer matches the stored value has been rotated out
// and must be rejected.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no refresh token is stored for a subject.
var ErrNotFound = errors.New("refresh token not found")

// Repo maps subject (email) to its current refresh token, with TTL.
// Eviction of expired entries is the store's own job.
type Repo interface {
	Save(ctx context.Context, email, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}
