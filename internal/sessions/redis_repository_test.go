package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T, prefix string) (*mr.Miniredis, *RedisRepository) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, NewRedisRepository(redis.NewClient(&redis.Options{Addr: m.Addr()}), prefix)
}

func TestRedisRepository_CreateGetDelete(t *testing.T) {
	m, repo := newRedisRepo(t, "test:session:")
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	s := &Session{TokenID: "r1", UserID: "user-1", UserAgent: "curl/8", CreatedAt: now, ExpiresAt: now.Add(5 * time.Second)}

	require.NoError(t, repo.Create(ctx, s))
	require.True(t, m.Exists("test:session:r1"))
	assert.Equal(t, "user-1", m.HGet("test:session:r1", "userId"))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "curl/8", got.UserAgent)
	assert.True(t, got.ExpiresAt.Equal(s.ExpiresAt))

	ids, err := repo.UserSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)

	require.NoError(t, repo.Delete(ctx, "r1"))
	got, err = repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got)
	ids, err = repo.UserSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// deleting an unknown session is not an error
	require.NoError(t, repo.Delete(ctx, "missing"))
}

func TestRedisRepository_TTLExpiry(t *testing.T) {
	m, repo := newRedisRepo(t, "")
	svc := NewService(repo)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, "user-2", "", 2*time.Second)
	require.NoError(t, err)
	require.True(t, m.Exists("session:"+sess.TokenID))

	got, err := svc.Validate(ctx, sess.TokenID)
	require.NoError(t, err)
	require.NotNil(t, got)

	m.FastForward(3 * time.Second)

	got, err = svc.Validate(ctx, sess.TokenID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
