package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// KV is the slice of the Redis cache the token store needs.
type KV interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	GetDel(ctx context.Context, key string) ([]byte, bool, error)
}

const (
	revokedPrefix = "auth:revoked:"
	resetPrefix   = "auth:reset:"
)

// TokenStore keeps signed-out token ids and single-use reset tokens.
type TokenStore struct {
	kv  KV
	now func() time.Time
}

func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv, now: time.Now}
}

// Revoke blacklists jti until the token would have expired anyway.
func (s *TokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return errors.Wrap(s.kv.Set(ctx, revokedPrefix+jti, []byte("1"), ttl), "revoke token")
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ok, err := s.kv.Exists(ctx, revokedPrefix+jti)
	if err != nil {
		return false, errors.Wrap(err, "check revoked token")
	}
	return ok, nil
}

// IssueReset creates a single-use token that resolves to userID.
func (s *TokenStore) IssueReset(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	token := NewOpaqueToken()
	if err := s.kv.Set(ctx, resetPrefix+token, []byte(userID.String()), ttl); err != nil {
		return "", errors.Wrap(err, "store reset token")
	}
	return token, nil
}

// ConsumeReset returns the user a reset token was issued for and burns it.
func (s *TokenStore) ConsumeReset(ctx context.Context, token string) (uuid.UUID, bool, error) {
	raw, ok, err := s.kv.GetDel(ctx, resetPrefix+token)
	if err != nil {
		return uuid.Nil, false, errors.Wrap(err, "read reset token")
	}
	if !ok {
		return uuid.Nil, false, nil
	}
	id, err := uuid.ParseBytes(raw)
	if err != nil {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// NewOpaqueToken returns 64 hex characters of randomness.
func NewOpaqueToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
