package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all server configuration, resolved from environment variables
type Config struct {
	Env  string
	Port int

	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Storage StorageConfig
}

// DBConfig MySQL connection settings
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// RedisConfig Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// JWTConfig token signing settings
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// StorageConfig attachment storage settings
type StorageConfig struct {
	// Driver selects the attachment backend: "local" (default) or "s3"
	Driver    string
	UploadDir string
	BaseURL   string // public URL prefix for local uploads

	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3CDNURL          string
	S3ForcePathStyle  bool
}

// Load resolves configuration from the environment
func Load() *Config {
	return &Config{
		Env:  envStr("APP_ENV", "local"),
		Port: envInt("PORT", 3001),
		DB: DBConfig{
			Host:     envStr("DB_HOST", "127.0.0.1"),
			Port:     envInt("DB_PORT", 3306),
			User:     envStr("DB_USER", "root"),
			Password: envStr("DB_PASSWORD", ""),
			Name:     envStr("DB_NAME", "memo"),
		},
		Redis: RedisConfig{
			Host:     envStr("REDIS_HOST", "127.0.0.1"),
			Port:     envInt("REDIS_PORT", 6379),
			Password: envStr("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
			PoolSize: envInt("REDIS_POOL_SIZE", 10),
		},
		JWT: JWTConfig{
			Secret:    envStr("JWT_SECRET", "dev-secret-change-me"),
			ExpiresIn: envDuration("JWT_EXPIRES_IN", 24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:            envStr("STORAGE_DRIVER", "local"),
			UploadDir:         envStr("UPLOAD_DIR", "uploads"),
			BaseURL:           envStr("UPLOAD_BASE_URL", "/uploads"),
			S3Endpoint:        envStr("S3_ENDPOINT", ""),
			S3Region:          envStr("S3_REGION", "auto"),
			S3AccessKeyID:     envStr("S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: envStr("S3_SECRET_ACCESS_KEY", ""),
			S3Bucket:          envStr("S3_BUCKET", ""),
			S3CDNURL:          envStr("S3_CDN_URL", ""),
			S3ForcePathStyle:  envBool("S3_FORCE_PATH_STYLE", true),
		},
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
