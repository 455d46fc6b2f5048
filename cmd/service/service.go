// @title        User API
// @version      1.0
// @description  使用者 CRUD 與新使用者通知服務
// @host         localhost:8080
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-api/internal/broker"
	"user-api/internal/config"
	"user-api/internal/database"
	"user-api/internal/handler"
	"user-api/internal/jobs"
	"user-api/internal/logging"
	appmw "user-api/internal/middleware"
	"user-api/internal/notify"
	"user-api/internal/queue"
	"user-api/internal/repository"
	"user-api/internal/router"
	"user-api/internal/service"
	"user-api/internal/validation"
	"user-api/internal/worker"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "user-api/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

const shutdownTimeout = 10 * time.Second

var errMigrateDownDriver = errors.New("-migrate-down 只支援 STORE_DRIVER=postgres")

// userStore 可做健康檢查的 UserRepository
type userStore interface {
	repository.UserRepository
	handler.Pinger
}

var (
	loadConfig = config.Load
	newLogger  = func(cfg *config.Config) (logging.Logger, error) {
		return logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	}
	newPgxPool      = database.NewPgxPool
	newMySQL        = repository.NewMySQL
	newRedisClient  = broker.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	cmdArgs         = func() []string { return os.Args[1:] }
	newWorkerPool   = worker.NewPool
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer  = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	signalContext   = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	exitFunc = os.Exit
)

// openStore 依 STORE_DRIVER 建立儲存層，回傳的 close 需在結束時呼叫
func openStore(ctx context.Context, cfg *config.Config) (userStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := newPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("DB 連線失敗: %w", err)
		}
		if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("Migration 執行失敗: %w", err)
		}
		return repository.NewPostgresUserRepository(db), db.Close, nil

	case config.StoreMySQL:
		gdb, err := newMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("MySQL 連線失敗: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormUserRepository(gdb), closeFn, nil

	default:
		return repository.NewMemoryUserRepository(), func() {}, nil
	}
}

// openQueue 依 QUEUE_DRIVER 建立 Dispatcher；local 模式下 b 為 nil
func openQueue(ctx context.Context, cfg *config.Config, logger logging.Logger) (queue.Dispatcher, broker.Broker, func(), error) {
	if cfg.QueueDriver == config.QueueRedis {
		b, err := newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("Redis 連線失敗: %w", err)
		}
		return queue.NewStreamDispatcher(b, cfg.QueueStream), b, func() { _ = b.Close() }, nil
	}

	pool := newWorkerPool(cfg.WorkerCount, cfg.WorkerBacklog, logger)
	registry := queue.NewRegistry()
	jobs.Register(registry, notify.NewSlackSender(cfg.SlackWebhookURL, cfg.NotifyTimeout), logger)
	return queue.NewLocalDispatcher(pool, registry, logger), nil, pool.Stop, nil
}

func newEcho(cfg *config.Config, logger logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.HTTPDebug
	e.Validator = validation.New()
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Recover())
	e.Use(appmw.RequestLogger(logger))
	return e
}

// parseFlags -migrate-down：回滾所有 migration 後結束，不啟動 HTTP server
func parseFlags(args []string) (migrateDown bool, err error) {
	fs := flag.NewFlagSet("service", flag.ContinueOnError)
	fs.BoolVar(&migrateDown, "migrate-down", false, "回滾所有 migration 後結束 (僅 postgres)")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	return migrateDown, nil
}

func rollbackMigrations(cfg *config.Config, logger logging.Logger) error {
	if cfg.StoreDriver != config.StorePostgres {
		return errMigrateDownDriver
	}
	if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 回滾失敗: %w", err)
	}
	logger.Info(context.Background(), "migrations rolled back")
	return nil
}

func run() error {
	migrateDown, err := parseFlags(cmdArgs())
	if err != nil {
		return fmt.Errorf("參數解析失敗: %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if migrateDown {
		return rollbackMigrations(cfg, logger)
	}

	ctx, stop := signalContext()
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	dispatcher, b, closeQueue, err := openQueue(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeQueue()

	svc := service.NewUserService(store, dispatcher, logger, cfg.NotifyIncludePassword)

	e := newEcho(cfg, logger)
	router.Setup(e, svc, store, b, logger)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	logger.Info(ctx, "http server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver, "queue", cfg.QueueDriver)

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.HTTPAddr) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server 失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info(context.Background(), "http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownServer(shutdownCtx, e); err != nil {
			return fmt.Errorf("HTTP server 關閉失敗: %w", err)
		}
		return nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
