package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsw-dev/portfolio-server/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	byEmail map[string]*users.User
	lock    sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byEmail: make(map[string]*users.User),
	}
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.byEmail[email]
	if !ok || user.Deleted() {
		return nil, users.ErrNotFound
	}

	clone := *user
	return &clone, nil
}

func (ur *FakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	_, ok := ur.byEmail[email]
	return ok, nil
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.byEmail[user.Email]; ok {
		return users.ErrAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	clone := *user
	ur.byEmail[user.Email] = &clone
	return nil
}

func (ur *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.byEmail[user.Email]
	if !ok || existing.Deleted() {
		return users.ErrNotFound
	}
	user.UpdatedAt = time.Now()

	clone := *user
	ur.byEmail[user.Email] = &clone
	return nil
}

func (ur *FakeUserRepo) SoftDelete(_ context.Context, email string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.byEmail[email]
	if !ok || existing.Deleted() {
		return users.ErrNotFound
	}

	now := time.Now()
	existing.DeletedAt = &now
	existing.UpdatedAt = now
	return nil
}
