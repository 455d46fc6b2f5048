package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/users")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, StorePostgres, cfg.StoreDriver)
	require.Equal(t, QueueRedis, cfg.QueueDriver)
	require.Equal(t, 0, cfg.RedisDB)
	require.Equal(t, "user-api:jobs", cfg.QueueStream)
	require.Equal(t, "user-api-workers", cfg.QueueGroup)
	require.NotEmpty(t, cfg.QueueConsumer)
	require.Equal(t, 1, cfg.WorkerCount)
	require.Equal(t, 64, cfg.WorkerBacklog)
	require.Equal(t, time.Minute, cfg.QueueClaimIdle)
	require.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	require.False(t, cfg.NotifyIncludePassword)
	require.False(t, cfg.HTTPDebug)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("WORKER_BACKLOG", "0")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("NOTIFY_INCLUDE_PASSWORD", "true")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/x")
	t.Setenv("QUEUE_CONSUMER", "c1")
	t.Setenv("QUEUE_CLAIM_IDLE", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 4, cfg.WorkerCount)
	require.Equal(t, 0, cfg.WorkerBacklog)
	require.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	require.True(t, cfg.NotifyIncludePassword)
	require.Equal(t, "https://hooks.slack.test/x", cfg.SlackWebhookURL)
	require.Equal(t, "c1", cfg.QueueConsumer)
	require.Equal(t, 30*time.Second, cfg.QueueClaimIdle)
}

func TestLoadDrivers(t *testing.T) {
	t.Run("memory store and local queue need nothing", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", StoreMemory)
		t.Setenv("QUEUE_DRIVER", QueueLocal)
		t.Setenv("DATABASE_URL", "")
		t.Setenv("REDIS_ADDR", "")
		_, err := Load()
		require.NoError(t, err)
	})

	t.Run("mysql requires dsn", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("STORE_DRIVER", StoreMySQL)
		t.Setenv("MYSQL_DSN", "")
		_, err := Load()
		require.Error(t, err)

		t.Setenv("MYSQL_DSN", "user:pw@tcp(localhost:3306)/users")
		_, err = Load()
		require.NoError(t, err)
	})
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"DATABASE_URL":            "",
		"REDIS_ADDR":              "",
		"STORE_DRIVER":            "oracle",
		"QUEUE_DRIVER":            "sqs",
		"REDIS_DB":                "x",
		"WORKER_COUNT":            "0",
		"WORKER_BACKLOG":          "-1",
		"NOTIFY_TIMEOUT":          "soon",
		"QUEUE_CLAIM_IDLE":        "later",
		"NOTIFY_INCLUDE_PASSWORD": "maybe",
		"HTTP_DEBUG":              "yes please",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(key, val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
