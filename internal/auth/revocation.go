package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks session tokens invalidated before expiry (logout).
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore keeps revoked token IDs in Redis until the token
// would have expired anyway.
func NewRedisRevocationStore(client *redis.Client) RevocationStore {
	return &redisRevocationStore{client: client}
}

func revocationKey(jti string) string {
	return "session:revoked:" + jti
}

func (s *redisRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revocationKey(jti), "1", ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
