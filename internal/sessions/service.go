package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Service wraps repository operations with session rules
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// CreateSession stores a new refresh session for userID and returns its token id.
func (s *Service) CreateSession(ctx context.Context, userID, userAgent string, ttl time.Duration) (*Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &Session{
		TokenID:   hex.EncodeToString(b),
		UserID:    userID,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Validate returns the session if it exists and has not expired.
func (s *Service) Validate(ctx context.Context, tokenID string) (*Session, error) {
	sess, err := s.repo.Get(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = s.repo.Delete(ctx, tokenID)
		return nil, nil
	}
	return sess, nil
}

func (s *Service) Revoke(ctx context.Context, tokenID string) error {
	return s.repo.Delete(ctx, tokenID)
}
