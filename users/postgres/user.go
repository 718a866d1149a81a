package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jsw-dev/portfolio-server/users"
)

var _ users.Repo = (*Storage)(nil)

// GetByEmail returns the live (not soft-deleted) account for an email.
func (s *Storage) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	const op = "users.postgres.GetByEmail"

	query := `
		SELECT id, email, password_hash, nickname, role, created_at, updated_at, deleted_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`

	var user users.User
	err := s.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, users.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

// ExistsByEmail reports whether any account, deleted or not, uses the email.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "users.postgres.ExistsByEmail"

	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (s *Storage) Create(ctx context.Context, user *users.User) error {
	const op = "users.postgres.Create"

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users(id, email, password_hash, nickname, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		user.Role,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, users.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Update(ctx context.Context, user *users.User) error {
	const op = "users.postgres.Update"

	query := `
		UPDATE users
		SET password_hash = $2, nickname = $3, role = $4, updated_at = now()
		WHERE email = $1 AND deleted_at IS NULL
	`

	tag, err := s.db.Exec(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		user.Role,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, users.ErrNotFound)
	}

	return nil
}

// SoftDelete marks the account deleted. The row stays so the email
// remains reserved and the deletion is auditable.
func (s *Storage) SoftDelete(ctx context.Context, email string) error {
	const op = "users.postgres.SoftDelete"

	query := `
		UPDATE users
		SET deleted_at = now(), updated_at = now()
		WHERE email = $1 AND deleted_at IS NULL
	`

	tag, err := s.db.Exec(ctx, query, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, users.ErrNotFound)
	}

	return nil
}
