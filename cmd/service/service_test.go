package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"user-api/internal/broker"
	"user-api/internal/config"
	"user-api/internal/database"
	"user-api/internal/logging"
	"user-api/internal/repository"
	"user-api/internal/worker"
)

func restoreGlobals() {
	loadConfig = config.Load
	newLogger = func(*config.Config) (logging.Logger, error) { return logging.Discard(), nil }
	newPgxPool = database.NewPgxPool
	newMySQL = repository.NewMySQL
	newRedisClient = broker.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn = database.RollbackAll
	cmdArgs = func() []string { return nil }
	newWorkerPool = worker.NewPool
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	signalContext = func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }
	exitFunc = func(code int) {}
}

func setup(t *testing.T) {
	t.Helper()
	restoreGlobals()
	t.Cleanup(restoreGlobals)
}

func TestRunPostgresRedis(t *testing.T) {
	setup(t)
	called := make(map[string]bool)
	newPgxPool = func(ctx context.Context, url string) (database.DB, error) {
		called["pgx"] = true
		require.Equal(t, "db", url)
		return &database.FakeDB{CloseFn: func() { called["dbClose"] = true }}, nil
	}
	newRedisClient = func(ctx context.Context, addr, pwd string, db int) (broker.Broker, error) {
		called["redis"] = true
		require.Equal(t, "127", addr)
		require.Equal(t, "pw", pwd)
		require.Equal(t, 1, db)
		return &broker.FakeBroker{CloseFn: func() error { called["redisClose"] = true; return nil }}, nil
	}
	runMigrationsFn = func(url string) error { called["migrate"] = true; return nil }
	startServer = func(e *echo.Echo, addr string) error {
		called["start"] = true
		require.Equal(t, ":9090", addr)
		return nil
	}

	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("REDIS_ADDR", "127")
	t.Setenv("REDIS_DB", "1")
	t.Setenv("REDIS_PASSWORD", "pw")

	require.NoError(t, run())
	for _, k := range []string{"pgx", "redis", "migrate", "start", "dbClose", "redisClose"} {
		require.True(t, called[k], k)
	}
}

func TestRunMemoryLocal(t *testing.T) {
	setup(t)
	stopped := false
	newWorkerPool = func(n, backlog int, logger logging.Logger) worker.Pool {
		require.Equal(t, 2, n)
		return &fakePool{stopFn: func() { stopped = true }}
	}
	newPgxPool = func(context.Context, string) (database.DB, error) {
		t.Fatal("postgres should not be used")
		return nil, nil
	}
	var routes []string
	startServer = func(e *echo.Echo, addr string) error {
		for _, r := range e.Routes() {
			routes = append(routes, r.Method+" "+r.Path)
		}
		return http.ErrServerClosed
	}

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("QUEUE_DRIVER", "local")
	t.Setenv("WORKER_COUNT", "2")

	require.NoError(t, run())
	require.True(t, stopped)
	require.Contains(t, routes, "GET /api/users")
	require.Contains(t, routes, "GET /swagger/*")
}

func TestRunMySQL(t *testing.T) {
	setup(t)
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	newMySQL = func(dsn string) (*gorm.DB, error) {
		require.Equal(t, "user:pw@tcp(db:3306)/app", dsn)
		return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	}
	startServer = func(*echo.Echo, string) error { return nil }

	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("MYSQL_DSN", "user:pw@tcp(db:3306)/app")
	t.Setenv("QUEUE_DRIVER", "local")
	require.NoError(t, run())

	newMySQL = func(string) (*gorm.DB, error) { return nil, errors.New("mysql") }
	require.ErrorContains(t, run(), "MySQL 連線失敗")
}

func TestRunGracefulShutdown(t *testing.T) {
	setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	signalContext = func() (context.Context, context.CancelFunc) { return ctx, cancel }
	release := make(chan struct{})
	startServer = func(*echo.Echo, string) error {
		cancel()
		<-release
		return http.ErrServerClosed
	}
	shutdownCalled := false
	shutdownServer = func(context.Context, *echo.Echo) error {
		shutdownCalled = true
		close(release)
		return nil
	}
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("QUEUE_DRIVER", "local")

	require.NoError(t, run())
	require.True(t, shutdownCalled)
}

func TestRunShutdownError(t *testing.T) {
	setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	signalContext = func() (context.Context, context.CancelFunc) { return ctx, cancel }
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	startServer = func(*echo.Echo, string) error { <-block; return nil }
	shutdownServer = func(context.Context, *echo.Echo) error { return errors.New("shutdown") }
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("QUEUE_DRIVER", "local")

	require.ErrorContains(t, run(), "關閉失敗")
}

func TestRunErrors(t *testing.T) {
	setup(t)
	t.Setenv("DATABASE_URL", "")
	require.ErrorContains(t, run(), "設定載入失敗")

	t.Setenv("DATABASE_URL", "db")
	t.Setenv("REDIS_ADDR", "addr")
	newLogger = func(*config.Config) (logging.Logger, error) { return nil, errors.New("logger") }
	require.ErrorContains(t, run(), "logger")
	newLogger = func(*config.Config) (logging.Logger, error) { return logging.Discard(), nil }

	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("db") }
	require.ErrorContains(t, run(), "DB 連線失敗")

	closed := false
	newPgxPool = func(context.Context, string) (database.DB, error) {
		return &database.FakeDB{CloseFn: func() { closed = true }}, nil
	}
	runMigrationsFn = func(string) error { return errors.New("migrate") }
	require.ErrorContains(t, run(), "Migration 執行失敗")
	require.True(t, closed)

	runMigrationsFn = func(string) error { return nil }
	newRedisClient = func(context.Context, string, string, int) (broker.Broker, error) { return nil, errors.New("redis") }
	require.ErrorContains(t, run(), "Redis 連線失敗")

	newRedisClient = func(context.Context, string, string, int) (broker.Broker, error) {
		return &broker.FakeBroker{CloseFn: func() error { return nil }}, nil
	}
	startServer = func(*echo.Echo, string) error { return errors.New("start") }
	require.ErrorContains(t, run(), "HTTP server 失敗")
}

func TestRunMigrateDown(t *testing.T) {
	setup(t)
	cmdArgs = func() []string { return []string{"-migrate-down"} }
	var rolledBack string
	rollbackAllFn = func(url string) error { rolledBack = url; return nil }
	newPgxPool = func(context.Context, string) (database.DB, error) {
		t.Fatal("rollback should not open the pool")
		return nil, nil
	}
	startServer = func(*echo.Echo, string) error {
		t.Fatal("rollback should not start the server")
		return nil
	}
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("QUEUE_DRIVER", "local")

	require.NoError(t, run())
	require.Equal(t, "db", rolledBack)

	rollbackAllFn = func(string) error { return errors.New("down") }
	require.ErrorContains(t, run(), "Migration 回滾失敗")

	t.Setenv("STORE_DRIVER", "memory")
	require.ErrorIs(t, run(), errMigrateDownDriver)

	cmdArgs = func() []string { return []string{"-bogus"} }
	require.ErrorContains(t, run(), "參數解析失敗")
}

func TestMainExit(t *testing.T) {
	setup(t)
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	t.Setenv("STORE_DRIVER", "bogus")
	main()
	require.Equal(t, 1, exitCode)
}

func TestMainSuccess(t *testing.T) {
	setup(t)
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	startServer = func(*echo.Echo, string) error { return nil }
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("QUEUE_DRIVER", "local")
	main()
	require.Equal(t, 0, exitCode)
}

type fakePool struct {
	stopFn func()
}

func (p *fakePool) Submit(ctx context.Context, task worker.Task) error {
	task()
	return nil
}

func (p *fakePool) Stop() {
	if p.stopFn != nil {
		p.stopFn()
	}
}
