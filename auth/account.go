package auth

import (
	"context"

	"github.com/jsw-dev/portfolio-server/internal/apperr"
	"github.com/jsw-dev/portfolio-server/users"
	"github.com/pkg/errors"
)

// UpdateRequest carries the optional profile changes. Nil fields are
// left untouched; a request changing nothing is rejected.
type UpdateRequest struct {
	Nickname        *string
	CurrentPassword *string
	NewPassword     *string
}

// GetUser returns the live account for an email.
func (s *Service) GetUser(ctx context.Context, email string) (*users.User, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.ErrStore.Wrap(err)
	}
	return user, nil
}

// UpdateUser changes nickname and/or password for the authenticated
// subject. A password change requires the current password to match.
func (s *Service) UpdateUser(ctx context.Context, email string, request UpdateRequest) (*users.User, error) {
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}

	if request.Nickname == nil && request.NewPassword == nil {
		return nil, apperr.ErrInvalidRequest
	}

	if request.CurrentPassword != nil && !users.CheckPasswordHash(*request.CurrentPassword, user.PasswordHash) {
		return nil, apperr.ErrInvalidPassword
	}

	if request.Nickname != nil {
		user.Nickname = *request.Nickname
	}

	if request.NewPassword != nil {
		hash, err := users.HashPassword(*request.NewPassword)
		if err != nil {
			return nil, errors.Wrap(err, "[UpdateUser] HashPassword")
		}
		user.PasswordHash = hash
	}

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, apperr.ErrStore.Wrap(err)
	}
	return user, nil
}

// DeleteAccount soft deletes the account and purges its session record
// so the outstanding refresh token stops working immediately.
func (s *Service) DeleteAccount(ctx context.Context, email string) error {
	if _, err := s.GetUser(ctx, email); err != nil {
		return err
	}

	if err := s.repos.Users.SoftDelete(ctx, email); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// Lost a race with another delete for the same account.
			return apperr.ErrUserAlreadyDeleted
		}
		return apperr.ErrStore.Wrap(err)
	}

	if err := s.repos.Sessions.Delete(ctx, email); err != nil {
		return apperr.ErrStore.Wrap(err)
	}
	return nil
}
