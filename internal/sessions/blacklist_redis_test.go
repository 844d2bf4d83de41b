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

func TestBlacklist(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	SetBlacklistClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	t.Cleanup(func() { SetBlacklistClient(nil) })
	ctx := context.Background()

	t.Run("revoked until ttl", func(t *testing.T) {
		require.NoError(t, BlacklistAccessToken(ctx, "tok-a", 2*time.Second))
		revoked, err := IsAccessTokenBlacklisted(ctx, "tok-a")
		require.NoError(t, err)
		assert.True(t, revoked)
		assert.True(t, m.Exists(blacklistKey("tok-a")))
		assert.False(t, m.Exists(blacklistPrefix+"tok-a"))

		m.FastForward(3 * time.Second)
		revoked, err = IsAccessTokenBlacklisted(ctx, "tok-a")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("non-positive ttl ignored", func(t *testing.T) {
		require.NoError(t, BlacklistAccessToken(ctx, "tok-b", 0))
		revoked, err := IsAccessTokenBlacklisted(ctx, "tok-b")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("unknown token", func(t *testing.T) {
		revoked, err := IsAccessTokenBlacklisted(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestBlacklist_WithoutRedis(t *testing.T) {
	SetBlacklistClient(nil)
	ctx := context.Background()
	require.NoError(t, BlacklistAccessToken(ctx, "tok", time.Minute))
	revoked, err := IsAccessTokenBlacklisted(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}
