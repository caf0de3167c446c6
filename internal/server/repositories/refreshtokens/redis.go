package refreshtokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ideapool:refresh_token:"

// revokeScript deletes KEYS[1] only when it equals ARGV[1], in one round trip.
var revokeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRegistry implements Registry on top of a Redis client.
type RedisRegistry struct {
	client redis.UniversalClient
}

func NewRedisRegistry(client redis.UniversalClient) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func key(userID string) string {
	return keyPrefix + userID
}

func (r *RedisRegistry) Store(ctx context.Context, userID string, token string) error {
	if err := r.client.Set(ctx, key(userID), token, 0).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Retrieve(ctx context.Context, userID string) (string, error) {
	token, err := r.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis error: %w", err)
	}
	return token, nil
}

func (r *RedisRegistry) Revoke(ctx context.Context, userID string, token string) (bool, error) {
	n, err := revokeScript.Run(ctx, r.client, []string{key(userID)}, token).Int64()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n == 1, nil
}

// Ping verifies the Redis connection is alive.
func (r *RedisRegistry) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
