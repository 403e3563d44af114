package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/config"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"
)

const revokedKeyPrefix = "session:revoked:"

// RedisClient is the part of the Redis client the revocation store uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRevoker records logged-out session ids in Redis. Entries expire when
// the session itself would have, so the key space stays bounded.
type RedisRevoker struct {
	client RedisClient
	cb     *gobreaker.CircuitBreaker
	now    func() time.Time
}

var _ ports.SessionRevoker = (*RedisRevoker)(nil)

func NewRedisRevoker(client RedisClient) *RedisRevoker {
	return &RedisRevoker{
		client: client,
		cb:     config.NewCircuitBreaker(config.BreakerRedisSession),
		now:    time.Now,
	}
}

func (r *RedisRevoker) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, revokedKeyPrefix+sessionID, "1", ttl).Err()
	})
	return err
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.cb.Execute(func() (interface{}, error) {
		return r.client.Exists(ctx, revokedKeyPrefix+sessionID).Result()
	})
	if err != nil {
		return false, err
	}
	return n.(int64) > 0, nil
}
