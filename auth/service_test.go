package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jsw-dev/portfolio-server/auth"
	"github.com/jsw-dev/portfolio-server/internal/apperr"
	"github.com/jsw-dev/portfolio-server/internal/config"
	"github.com/jsw-dev/portfolio-server/session"
	fakesessionrepo "github.com/jsw-dev/portfolio-server/session/repofake"
	"github.com/jsw-dev/portfolio-server/token"
	"github.com/jsw-dev/portfolio-server/users"
	fakeuserrepo "github.com/jsw-dev/portfolio-server/users/repofake"
	fakeverificationrepo "github.com/jsw-dev/portfolio-server/verify/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "user@example.com"
	testPassword = "correct horse battery staple"
)

// mailRecorder implements mail.Sender and records every message.
type mailRecorder struct {
	lock sync.Mutex
	sent []recordedMail
}

type recordedMail struct {
	to      string
	subject string
	body    string
}

func (m *mailRecorder) Send(_ context.Context, to, subject, body string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.sent = append(m.sent, recordedMail{to: to, subject: subject, body: body})
	return nil
}

func (m *mailRecorder) last(t *testing.T) recordedMail {
	t.Helper()
	m.lock.Lock()
	defer m.lock.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

// lastToken fishes the verification token out of the most recent mail's
// link, the same way a user would follow it.
func (m *mailRecorder) lastToken(t *testing.T) string {
	t.Helper()
	body := m.last(t).body
	idx := strings.LastIndex(body, "token=")
	require.GreaterOrEqual(t, idx, 0)
	return strings.TrimSpace(body[idx+len("token="):])
}

type fixture struct {
	users         *fakeuserrepo.FakeUserRepo
	sessions      *fakesessionrepo.FakeSessionRepo
	verifications *fakeverificationrepo.FakeVerificationRepo
	mailer        *mailRecorder
	codec         *token.Codec
	service       *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := token.NewCodec("test-signing-secret")
	require.NoError(t, err)

	f := &fixture{
		users:         fakeuserrepo.NewFakeUserRepo(),
		sessions:      fakesessionrepo.NewFakeSessionRepo(),
		verifications: fakeverificationrepo.NewFakeVerificationRepo(),
		mailer:        &mailRecorder{},
		codec:         codec,
	}

	f.service, err = auth.NewService(auth.Repos{
		Users:         f.users,
		Sessions:      f.sessions,
		Verifications: f.verifications,
	}, codec, f.mailer, config.New())
	require.NoError(t, err)

	return f
}

func (f *fixture) seedUser(t *testing.T, email, password string, role users.Role) {
	t.Helper()
	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), &users.User{
		Email:        email,
		PasswordHash: hash,
		Nickname:     "tester",
		Role:         role,
	}))
}

func TestService_Login(t *testing.T) {
	t.Run("success issues pair and stores refresh", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		user, pair, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)
		require.Equal(t, testEmail, user.Email)

		access := f.codec.Decode(pair.Access)
		require.Equal(t, token.StatusOK, access.Status)
		require.Equal(t, token.CategoryAccess, access.Claims.Category)
		require.Equal(t, "VISITOR", access.Claims.Role)

		stored, err := f.sessions.Get(context.Background(), testEmail)
		require.NoError(t, err)
		require.Equal(t, pair.Refresh, stored)
	})

	t.Run("second login overwrites the session record", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		_, first, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)
		_, second, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		require.Equal(t, 1, f.sessions.Len())
		stored, err := f.sessions.Get(context.Background(), testEmail)
		require.NoError(t, err)
		require.Equal(t, second.Refresh, stored)
		require.NotEqual(t, first.Refresh, stored)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)

		_, _, err := f.service.Login(context.Background(), "nobody@example.com", testPassword)
		require.ErrorIs(t, err, apperr.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		_, _, err := f.service.Login(context.Background(), testEmail, "wrong")
		require.ErrorIs(t, err, apperr.ErrInvalidPassword)
	})
}

func TestService_Reissue(t *testing.T) {
	t.Run("rotation makes the old token single use", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		_, pair, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		fresh, err := f.service.Reissue(context.Background(), pair.Refresh)
		require.NoError(t, err)
		require.NotEqual(t, pair.Refresh, fresh.Refresh)

		// The rotated-out token no longer matches the store.
		_, err = f.service.Reissue(context.Background(), pair.Refresh)
		require.ErrorIs(t, err, apperr.ErrInvalidToken)

		// The fresh one still works.
		_, err = f.service.Reissue(context.Background(), fresh.Refresh)
		require.NoError(t, err)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		_, pair, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		_, err = f.service.Reissue(context.Background(), pair.Access)
		require.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("forged token fails the signature check", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		forger, err := token.NewCodec("attacker-secret")
		require.NoError(t, err)
		forged, err := forger.Issue(token.CategoryRefresh, testEmail, "ADMIN", time.Hour)
		require.NoError(t, err)

		_, err = f.service.Reissue(context.Background(), forged)
		require.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("valid token with no session record is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		// Signed with the right secret but never stored.
		orphan, err := f.codec.Issue(token.CategoryRefresh, testEmail, "VISITOR", time.Hour)
		require.NoError(t, err)

		_, err = f.service.Reissue(context.Background(), orphan)
		require.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("expired token is reported as expired", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		token.NowTimeFunc = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		expired, err := f.codec.Issue(token.CategoryRefresh, testEmail, "VISITOR", time.Hour)
		token.NowTimeFunc = time.Now
		require.NoError(t, err)
		require.NoError(t, f.sessions.Save(context.Background(), testEmail, expired, time.Hour))

		_, err = f.service.Reissue(context.Background(), expired)
		require.ErrorIs(t, err, apperr.ErrInvalidToken)
		appErr, ok := apperr.From(err)
		require.True(t, ok)
		require.Equal(t, "refresh token expired", appErr.Message)
	})
}

func TestService_Logout(t *testing.T) {
	t.Run("deletes the session record", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		_, pair, err := f.service.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		require.NoError(t, f.service.Logout(context.Background(), pair.Refresh))

		_, err = f.sessions.Get(context.Background(), testEmail)
		require.ErrorIs(t, err, session.ErrNotFound)

		// The token is dead after logout.
		_, err = f.service.Reissue(context.Background(), pair.Refresh)
		require.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.Logout(context.Background(), "garbage")
		require.ErrorIs(t, err, apperr.ErrInvalidToken)
	})
}

func TestService_OAuthLogin(t *testing.T) {
	t.Run("provisions a visitor account on first login", func(t *testing.T) {
		f := newFixture(t)

		user, pair, err := f.service.OAuthLogin(context.Background(), "social@example.com", "Social User")
		require.NoError(t, err)
		require.Equal(t, users.RoleVisitor, user.Role)
		require.Equal(t, "Social User", user.Nickname)
		require.NotEmpty(t, pair.Access)

		stored, err := f.users.GetByEmail(context.Background(), "social@example.com")
		require.NoError(t, err)
		require.Empty(t, stored.PasswordHash)
	})

	t.Run("reuses the existing account and role", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleAdmin)

		user, _, err := f.service.OAuthLogin(context.Background(), testEmail, "Ignored Name")
		require.NoError(t, err)
		require.Equal(t, users.RoleAdmin, user.Role)
		require.Equal(t, "tester", user.Nickname)
	})
}

func TestService_Registration(t *testing.T) {
	t.Run("full round trip", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		err := f.service.InitiateRegistration(ctx, testEmail, testPassword, testPassword)
		require.NoError(t, err)
		require.Equal(t, testEmail, f.mailer.last(t).to)

		user, err := f.service.CompleteRegistration(ctx, f.mailer.lastToken(t), testPassword, "newbie")
		require.NoError(t, err)
		require.Equal(t, users.RoleVisitor, user.Role)

		_, _, err = f.service.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)
	})

	t.Run("existing email", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		err := f.service.InitiateRegistration(context.Background(), testEmail, testPassword, testPassword)
		require.ErrorIs(t, err, apperr.ErrEmailAlreadyExists)
	})

	t.Run("password confirmation mismatch", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.InitiateRegistration(context.Background(), testEmail, testPassword, "different")
		require.ErrorIs(t, err, apperr.ErrInvalidPasswordConfirmation)
	})

	t.Run("verification token is single use", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		require.NoError(t, f.service.InitiateRegistration(ctx, testEmail, testPassword, testPassword))
		verificationToken := f.mailer.lastToken(t)

		_, err := f.service.CompleteRegistration(ctx, verificationToken, testPassword, "newbie")
		require.NoError(t, err)

		_, err = f.service.CompleteRegistration(ctx, verificationToken, testPassword, "newbie")
		require.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("unknown verification token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.CompleteRegistration(context.Background(), "never-issued", testPassword, "newbie")
		require.ErrorIs(t, err, apperr.ErrInvalidToken)
	})

	t.Run("expired verification token", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		past := time.Now().Add(-48 * time.Hour)
		service, err := auth.NewService(auth.Repos{
			Users:         f.users,
			Sessions:      f.sessions,
			Verifications: f.verifications,
		}, f.codec, f.mailer, config.New(), auth.WithNowTime(func() time.Time { return past }))
		require.NoError(t, err)

		require.NoError(t, service.InitiateRegistration(ctx, testEmail, testPassword, testPassword))

		_, err = f.service.CompleteRegistration(ctx, f.mailer.lastToken(t), testPassword, "newbie")
		require.ErrorIs(t, err, apperr.ErrTokenExpired)
	})

	t.Run("resend requires a pending address", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.ResendVerification(context.Background(), "nobody@example.com")
		require.ErrorIs(t, err, apperr.ErrUserNotFound)
	})
}

func TestService_PasswordReset(t *testing.T) {
	t.Run("full round trip", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		require.NoError(t, f.service.RequestPasswordReset(ctx, testEmail))

		const newPassword = "a brand new password"
		err := f.service.ConfirmPasswordReset(ctx, f.mailer.lastToken(t), newPassword, newPassword)
		require.NoError(t, err)

		_, _, err = f.service.Login(ctx, testEmail, testPassword)
		require.ErrorIs(t, err, apperr.ErrInvalidPassword)
		_, _, err = f.service.Login(ctx, testEmail, newPassword)
		require.NoError(t, err)
	})

	t.Run("request for unknown account", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.RequestPasswordReset(context.Background(), "nobody@example.com")
		require.ErrorIs(t, err, apperr.ErrUserNotFound)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		err := f.service.ConfirmPasswordReset(context.Background(), "any", "new", "different")
		require.ErrorIs(t, err, apperr.ErrInvalidPasswordConfirmation)
	})
}

func TestService_Account(t *testing.T) {
	t.Run("update nickname", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		nickname := "renamed"
		user, err := f.service.UpdateUser(context.Background(), testEmail, auth.UpdateRequest{Nickname: &nickname})
		require.NoError(t, err)
		require.Equal(t, "renamed", user.Nickname)
	})

	t.Run("password change requires the current password", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		wrong := "not the password"
		newPassword := "another password"
		_, err := f.service.UpdateUser(context.Background(), testEmail, auth.UpdateRequest{
			CurrentPassword: &wrong,
			NewPassword:     &newPassword,
		})
		require.ErrorIs(t, err, apperr.ErrInvalidPassword)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		_, err := f.service.UpdateUser(context.Background(), testEmail, auth.UpdateRequest{})
		require.ErrorIs(t, err, apperr.ErrInvalidRequest)
	})

	t.Run("delete purges the session record", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.seedUser(t, testEmail, testPassword, users.RoleVisitor)

		_, _, err := f.service.Login(ctx, testEmail, testPassword)
		require.NoError(t, err)
		require.Equal(t, 1, f.sessions.Len())

		require.NoError(t, f.service.DeleteAccount(ctx, testEmail))
		require.Equal(t, 0, f.sessions.Len())

		// The account is invisible to lookups afterwards.
		_, err = f.service.GetUser(ctx, testEmail)
		require.ErrorIs(t, err, apperr.ErrUserNotFound)
	})
}
