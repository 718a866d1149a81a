package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jsw-dev/portfolio-server/session"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*session.RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisRepo(client, 3*time.Second), mr
}

func TestRedisRepo_SaveAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "user@example.com", "refresh-token-value", time.Hour))

	stored, err := repo.Get(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "refresh-token-value", stored)
}

func TestRedisRepo_SaveOverwrites(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "user@example.com", "first", time.Hour))
	require.NoError(t, repo.Save(ctx, "user@example.com", "second", time.Hour))

	stored, err := repo.Get(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "second", stored)
}

func TestRedisRepo_GetMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedisRepo_TTLEviction(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "user@example.com", "refresh-token-value", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "user@example.com")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedisRepo_Delete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "user@example.com", "refresh-token-value", time.Hour))
	require.NoError(t, repo.Delete(ctx, "user@example.com"))

	_, err := repo.Get(ctx, "user@example.com")
	require.ErrorIs(t, err, session.ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, repo.Delete(ctx, "user@example.com"))
}
