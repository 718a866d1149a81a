package fakeverificationrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jsw-dev/portfolio-server/verify"
)

var _ verify.Repo = (*FakeVerificationRepo)(nil)

type FakeVerificationRepo struct {
	tokens map[string]verify.Token
	lock   sync.RWMutex
}

func NewFakeVerificationRepo() *FakeVerificationRepo {
	return &FakeVerificationRepo{tokens: make(map[string]verify.Token)}
}

func (vr *FakeVerificationRepo) Save(_ context.Context, token verify.Token, _ time.Duration) error {
	vr.lock.Lock()
	defer vr.lock.Unlock()

	vr.tokens[token.Token] = token
	return nil
}

func (vr *FakeVerificationRepo) Get(_ context.Context, token string) (*verify.Token, error) {
	vr.lock.RLock()
	defer vr.lock.RUnlock()

	stored, ok := vr.tokens[token]
	if !ok {
		return nil, verify.ErrNotFound
	}
	return &stored, nil
}

func (vr *FakeVerificationRepo) Delete(_ context.Context, token string) error {
	vr.lock.Lock()
	defer vr.lock.Unlock()

	delete(vr.tokens, token)
	return nil
}
