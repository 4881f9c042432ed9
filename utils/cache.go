package utils

import (
	"context"
	"log"
	"time"

	"cleaningmanager/config"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for restored session profiles.
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client for session caching (REDIS_AUTH_DB).
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AuthCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for session caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// CloseCaches closes the Redis clients opened by this package.
func CloseCaches() {
	if AuthCacheClient != nil {
		if err := AuthCacheClient.Close(); err != nil {
			GetLogger().Sugar().Warnf("closing auth cache: %v", err)
		}
	}
}
