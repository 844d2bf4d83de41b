package sessions

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps each session in a hash at "<prefix><tokenId>" that
// expires together with the session. A set at "<prefix>user:<userId>" lists
// the live token ids of a user.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-based session repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(tokenID string) string { return r.prefix + tokenID }

func (r *RedisRepository) userKey(userID string) string { return r.prefix + "user:" + userID }

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	key := r.key(s.TokenID)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, map[string]interface{}{
			"userId":    s.UserID,
			"userAgent": s.UserAgent,
			"createdAt": s.CreatedAt.UnixMilli(),
			"expiresAt": s.ExpiresAt.UnixMilli(),
		})
		p.PExpireAt(ctx, key, s.ExpiresAt)
		p.SAdd(ctx, r.userKey(s.UserID), s.TokenID)
		p.PExpireAt(ctx, r.userKey(s.UserID), s.ExpiresAt)
		return nil
	})
	return err
}

// Get returns nil, nil for unknown or expired sessions.
func (r *RedisRepository) Get(ctx context.Context, tokenID string) (*Session, error) {
	h, err := r.client.HGetAll(ctx, r.key(tokenID)).Result()
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, nil
	}
	s := &Session{
		ID:        tokenID,
		TokenID:   tokenID,
		UserID:    h["userId"],
		UserAgent: h["userAgent"],
		CreatedAt: millis(h["createdAt"]),
		ExpiresAt: millis(h["expiresAt"]),
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		_ = r.Delete(ctx, tokenID)
		return nil, nil
	}
	return s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, tokenID string) error {
	userID, err := r.client.HGet(ctx, r.key(tokenID), "userId").Result()
	if err != nil && err != redis.Nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.key(tokenID))
		if userID != "" {
			p.SRem(ctx, r.userKey(userID), tokenID)
		}
		return nil
	})
	return err
}

// UserSessions lists the token ids still registered for userID.
func (r *RedisRepository) UserSessions(ctx context.Context, userID string) ([]string, error) {
	return r.client.SMembers(ctx, r.userKey(userID)).Result()
}

func millis(s string) time.Time {
	ms, _ := strconv.ParseInt(s, 10, 64)
	return time.UnixMilli(ms).UTC()
}
