package fakesessionrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jsw-dev/portfolio-server/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

type entry struct {
	value    string
	deadline time.Time
}

type FakeSessionRepo struct {
	tokens map[string]entry
	lock   sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{tokens: make(map[string]entry)}
}

func (sr *FakeSessionRepo) Save(_ context.Context, email, refreshToken string, ttl time.Duration) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.tokens[email] = entry{value: refreshToken, deadline: time.Now().Add(ttl)}
	return nil
}

func (sr *FakeSessionRepo) Get(_ context.Context, email string) (string, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	e, ok := sr.tokens[email]
	if !ok || time.Now().After(e.deadline) {
		return "", session.ErrNotFound
	}
	return e.value, nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, email string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.tokens, email)
	return nil
}

// Len reports the number of live entries, for test assertions.
func (sr *FakeSessionRepo) Len() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	return len(sr.tokens)
}
