// internal/facets/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "marketplace-facets/internal/common/errors"
	"marketplace-facets/internal/models"
)

const snapshotKeyPrefix = "facets:snapshot:"

// RedisStore is the Redis-backed SharedStore. Snapshots are stored as JSON
// with the cache TTL as the key expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetSnapshot(ctx context.Context, key string) (*models.Snapshot, error) {
	raw, err := s.client.Get(ctx, snapshotKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.NewCacheBackendError(err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		// A corrupt entry behaves like a miss.
		return nil, nil
	}
	return &snap, nil
}

func (s *RedisStore) PutSnapshot(ctx context.Context, key string, snap *models.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return apperrors.NewCacheBackendError(err)
	}
	if err := s.client.Set(ctx, snapshotKeyPrefix+key, raw, ttl).Err(); err != nil {
		return apperrors.NewCacheBackendError(err)
	}
	return nil
}
