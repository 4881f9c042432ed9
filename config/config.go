package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Record store: "firestore", "mongo" or "memory".
	StoreBackend  string `mapstructure:"STORE_BACKEND"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Firebase project access.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseAPIKey          string `mapstructure:"FIREBASE_API_KEY"`
	NotificationsEnabled    bool   `mapstructure:"NOTIFICATIONS_ENABLED"`

	// Redis configuration.
	RedisAddr              string `mapstructure:"REDIS_ADDR"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB            int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB           int    `mapstructure:"REDIS_QUEUE_DB"`
	SessionCacheTTLMinutes int    `mapstructure:"SESSION_CACHE_TTL_MINUTES"`
	BackgroundSyncEnabled  bool   `mapstructure:"BACKGROUND_SYNC_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	applyDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// applyDefaults also registers every key so AutomaticEnv picks them up during Unmarshal.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("STORE_BACKEND", "firestore")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "cleaningmanager")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_API_KEY", "")
	v.SetDefault("NOTIFICATIONS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("SESSION_CACHE_TTL_MINUTES", 10)
	v.SetDefault("BACKGROUND_SYNC_ENABLED", false)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SessionCacheTTL is how long a restored session profile stays in Redis.
func SessionCacheTTL() time.Duration {
	if AppConfig.SessionCacheTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(AppConfig.SessionCacheTTLMinutes) * time.Minute
}
