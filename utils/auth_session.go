package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SaveAuthSession stores value as JSON under the session key for uid.
func SaveAuthSession(ctx context.Context, client *redis.Client, uid string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	if err := client.Set(ctx, AuthCachePrefix+uid, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// GetAuthSession decodes the cached session for uid into out. It reports
// false when nothing is cached.
func GetAuthSession(ctx context.Context, client *redis.Client, uid string, out any) (bool, error) {
	data, err := client.Get(ctx, AuthCachePrefix+uid).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return true, nil
}

// DeleteAuthSession removes the cached session for uid.
func DeleteAuthSession(ctx context.Context, client *redis.Client, uid string) error {
	return client.Del(ctx, AuthCachePrefix+uid).Err()
}
