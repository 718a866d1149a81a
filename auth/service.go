// Package auth orchestrates credential verification, token issuance,
// refresh rotation, and account lifecycle for the portfolio backend.
package auth

import (
	"context"
	"time"

	"github.com/jsw-dev/portfolio-server/internal/apperr"
	"github.com/jsw-dev/portfolio-server/internal/config"
	"github.com/jsw-dev/portfolio-server/mail"
	"github.com/jsw-dev/portfolio-server/session"
	"github.com/jsw-dev/portfolio-server/token"
	"github.com/jsw-dev/portfolio-server/users"
	"github.com/jsw-dev/portfolio-server/verify"
	"github.com/pkg/errors"
)

// TokenPair is one access token and one refresh token issued together.
type TokenPair struct {
	Access  string
	Refresh string
}

// Repos holds all repository dependencies for the Service.
type Repos struct {
	Users         users.Repo
	Sessions      session.Repo
	Verifications verify.Repo
}

// Service implements the login, reissue, logout, social-login, and
// account-management flows.
type Service struct {
	repos   Repos
	codec   *token.Codec
	mailer  mail.Sender
	config  config.Config
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repos Repos, codec *token.Codec, mailer mail.Sender, cfg config.Config, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if repos.Verifications == nil {
		return nil, errors.New("[NewService] Verifications repo is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] token codec is required")
	}
	if mailer == nil {
		return nil, errors.New("[NewService] mail sender is required")
	}

	service := &Service{
		repos:   repos,
		codec:   codec,
		mailer:  mailer,
		config:  cfg,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Login verifies the credentials and, on success, issues a token pair
// and stores the refresh token. Logging in again overwrites any prior
// session record for the subject.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*users.User, *TokenPair, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil, apperr.ErrUserNotFound
		}
		return nil, nil, apperr.ErrStore.Wrap(err)
	}

	if !users.CheckPasswordHash(rawPassword, user.PasswordHash) {
		return nil, nil, apperr.ErrInvalidPassword
	}

	pair, err := s.issuePair(ctx, user.Email, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Reissue exchanges a still-valid refresh token for a fresh pair. The
// store-equality check rejects tokens that decode validly but were
// already rotated out by a newer login or reissue.
func (s *Service) Reissue(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := s.validateRefresh(ctx, presented)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePairRotating(ctx, claims.Subject, claims.Role)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout validates the refresh token the same way Reissue does, then
// deletes the session record. Clearing the client cookie is the
// handler's job.
func (s *Service) Logout(ctx context.Context, presented string) error {
	claims, err := s.validateRefresh(ctx, presented)
	if err != nil {
		return err
	}

	if err := s.repos.Sessions.Delete(ctx, claims.Subject); err != nil {
		return apperr.ErrStore.Wrap(err)
	}
	return nil
}

// OAuthLogin runs after a successful third-party authentication. A
// local account is provisioned on first login, at the lowest-privilege
// tier, then the normal token-issuance path runs.
func (s *Service) OAuthLogin(ctx context.Context, email, name string) (*users.User, *TokenPair, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			return nil, nil, apperr.ErrStore.Wrap(err)
		}
		user = &users.User{
			Email:    email,
			Nickname: name,
			Role:     users.RoleVisitor,
		}
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return nil, nil, apperr.ErrStore.Wrap(err)
		}
	}

	pair, err := s.issuePair(ctx, user.Email, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// validateRefresh runs the shared refresh-token checks: decode, expiry,
// category, and equality against the stored value.
func (s *Service) validateRefresh(ctx context.Context, presented string) (token.Claims, error) {
	result := s.codec.Decode(presented)
	switch result.Status {
	case token.StatusExpired:
		return token.Claims{}, apperr.ErrInvalidToken.WithMessage("refresh token expired")
	case token.StatusInvalid:
		return token.Claims{}, apperr.ErrInvalidToken.WithMessage("invalid refresh token")
	}

	if result.Claims.Category != token.CategoryRefresh {
		return token.Claims{}, apperr.ErrInvalidToken.WithMessage("invalid refresh token")
	}

	stored, err := s.repos.Sessions.Get(ctx, result.Claims.Subject)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return token.Claims{}, apperr.ErrInvalidToken.WithMessage("invalid refresh token")
		}
		return token.Claims{}, apperr.ErrStore.Wrap(err)
	}
	if stored != presented {
		return token.Claims{}, apperr.ErrInvalidToken.WithMessage("invalid refresh token")
	}

	return result.Claims, nil
}

// issuePair creates an access/refresh pair and stores the refresh token,
// overwriting whatever was stored for the subject before.
func (s *Service) issuePair(ctx context.Context, email, role string) (*TokenPair, error) {
	access, err := s.codec.Issue(token.CategoryAccess, email, role, s.config.GetAccessTokenExpiry())
	if err != nil {
		return nil, errors.Wrap(err, "[issuePair] access token")
	}

	refreshTTL := s.config.GetRefreshTokenExpiry()
	refresh, err := s.codec.Issue(token.CategoryRefresh, email, role, refreshTTL)
	if err != nil {
		return nil, errors.Wrap(err, "[issuePair] refresh token")
	}

	if err := s.repos.Sessions.Save(ctx, email, refresh, refreshTTL); err != nil {
		return nil, apperr.ErrStore.Wrap(err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// issuePairRotating deletes the old session record before saving the
// new one. The delete+save is not atomic; two concurrent reissues for
// one subject resolve as last-writer-wins (the loser's token fails the
// equality check on its next use).
func (s *Service) issuePairRotating(ctx context.Context, email, role string) (*TokenPair, error) {
	if err := s.repos.Sessions.Delete(ctx, email); err != nil {
		return nil, apperr.ErrStore.Wrap(err)
	}
	return s.issuePair(ctx, email, role)
}
