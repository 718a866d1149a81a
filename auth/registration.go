package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jsw-dev/portfolio-server/internal/apperr"
	"github.com/jsw-dev/portfolio-server/mail"
	"github.com/jsw-dev/portfolio-server/users"
	"github.com/jsw-dev/portfolio-server/verify"
	"github.com/pkg/errors"
)

// InitiateRegistration starts the signup flow: the account is not
// created yet, only a verification token is stored and mailed.
func (s *Service) InitiateRegistration(ctx context.Context, email, password, confirmPassword string) error {
	exists, err := s.repos.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return apperr.ErrStore.Wrap(err)
	}
	if exists {
		return apperr.ErrEmailAlreadyExists
	}

	if password != confirmPassword {
		return apperr.ErrInvalidPasswordConfirmation
	}

	return s.sendVerification(ctx, email, mail.VerificationMessage)
}

// ResendVerification issues a fresh verification token for an address
// that already requested one. Earlier tokens stay in the store until
// their TTL; only the presented token is checked on completion.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	exists, err := s.repos.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return apperr.ErrStore.Wrap(err)
	}
	if !exists {
		return apperr.ErrUserNotFound
	}

	return s.sendVerification(ctx, email, mail.VerificationMessage)
}

// CompleteRegistration consumes a verification token and creates the
// account at the lowest-privilege tier.
func (s *Service) CompleteRegistration(ctx context.Context, tokenStr, password, nickname string) (*users.User, error) {
	stored, err := s.repos.Verifications.Get(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, verify.ErrNotFound) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, apperr.ErrStore.Wrap(err)
	}
	if stored.Expired() {
		return nil, apperr.ErrTokenExpired
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "[CompleteRegistration] HashPassword")
	}

	user := &users.User{
		Email:        stored.Email,
		PasswordHash: hash,
		Nickname:     nickname,
		Role:         users.RoleVisitor,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrAlreadyExists) {
			return nil, apperr.ErrEmailAlreadyExists
		}
		return nil, apperr.ErrStore.Wrap(err)
	}

	if err := s.repos.Verifications.Delete(ctx, tokenStr); err != nil {
		return nil, apperr.ErrStore.Wrap(err)
	}
	return user, nil
}

// RequestPasswordReset mails a reset token to an existing account.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.GetUser(ctx, email); err != nil {
		return err
	}

	return s.sendVerification(ctx, email, mail.PasswordResetMessage)
}

// ConfirmPasswordReset consumes a reset token and replaces the password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperr.ErrInvalidPasswordConfirmation
	}

	stored, err := s.repos.Verifications.Get(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, verify.ErrNotFound) {
			return apperr.ErrInvalidToken
		}
		return apperr.ErrStore.Wrap(err)
	}
	if stored.Expired() {
		return apperr.ErrTokenExpired
	}

	user, err := s.GetUser(ctx, stored.Email)
	if err != nil {
		return err
	}

	hash, err := users.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "[ConfirmPasswordReset] HashPassword")
	}
	user.PasswordHash = hash

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return apperr.ErrStore.Wrap(err)
	}

	if err := s.repos.Verifications.Delete(ctx, tokenStr); err != nil {
		return apperr.ErrStore.Wrap(err)
	}
	return nil
}

func (s *Service) sendVerification(ctx context.Context, email string, message func(frontendURL, token string) (string, string)) error {
	ttl := s.config.GetVerificationTokenExpiry()
	verification := verify.Token{
		Token:     uuid.New().String(),
		Email:     email,
		ExpiresAt: s.nowTime().Add(ttl),
	}

	if err := s.repos.Verifications.Save(ctx, verification, ttl); err != nil {
		return apperr.ErrStore.Wrap(err)
	}

	subject, body := message(s.config.GetFrontendURL(), verification.Token)
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		return errors.Wrap(err, "[sendVerification] Send")
	}
	return nil
}
