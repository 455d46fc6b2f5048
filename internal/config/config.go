// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	StorePostgres = "postgres"
	StoreMySQL    = "mysql"
	StoreMemory   = "memory"

	QueueRedis = "redis"
	QueueLocal = "local"
)

// Config 由環境變數載入的應用程式設定
type Config struct {
	HTTPAddr  string
	HTTPDebug bool

	StoreDriver string
	DatabaseURL string
	MySQLDSN    string

	QueueDriver    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	QueueStream    string
	QueueGroup     string
	QueueConsumer  string
	QueueClaimIdle time.Duration

	WorkerCount   int
	WorkerBacklog int

	SlackWebhookURL       string
	NotifyTimeout         time.Duration
	NotifyIncludePassword bool

	LogLevel  string
	LogFormat string
}

// Load 讀取環境變數，未設定者使用預設值；所選 driver 需要的變數缺少時回傳錯誤
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		StoreDriver:     getEnv("STORE_DRIVER", StorePostgres),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MySQLDSN:        os.Getenv("MYSQL_DSN"),
		QueueDriver:     getEnv("QUEUE_DRIVER", QueueRedis),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		QueueStream:     getEnv("QUEUE_STREAM", "user-api:jobs"),
		QueueGroup:      getEnv("QUEUE_GROUP", "user-api-workers"),
		QueueConsumer:   getEnv("QUEUE_CONSUMER", defaultConsumerName()),
		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.HTTPDebug, err = getEnvBool("HTTP_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = getEnvInt("WORKER_COUNT", 1); err != nil {
		return nil, err
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("無效的 WORKER_COUNT: %d", cfg.WorkerCount)
	}
	if cfg.WorkerBacklog, err = getEnvInt("WORKER_BACKLOG", 64); err != nil {
		return nil, err
	}
	if cfg.WorkerBacklog < 0 {
		return nil, fmt.Errorf("無效的 WORKER_BACKLOG: %d", cfg.WorkerBacklog)
	}
	if cfg.QueueClaimIdle, err = getEnvDuration("QUEUE_CLAIM_IDLE", time.Minute); err != nil {
		return nil, err
	}
	if cfg.NotifyTimeout, err = getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.NotifyIncludePassword, err = getEnvBool("NOTIFY_INCLUDE_PASSWORD", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("環境變數 DATABASE_URL 未設定")
		}
	case StoreMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("環境變數 MYSQL_DSN 未設定")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("無效的 STORE_DRIVER: %q", c.StoreDriver)
	}

	switch c.QueueDriver {
	case QueueRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("環境變數 REDIS_ADDR 未設定")
		}
	case QueueLocal:
	default:
		return fmt.Errorf("無效的 QUEUE_DRIVER: %q", c.QueueDriver)
	}
	return nil
}

func defaultConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return host + "-" + uuid.NewString()[:8]
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return n, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return d, nil
}
