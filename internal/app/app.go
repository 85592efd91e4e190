package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/jobtrack-backend/internal/clients/redis"
	"github.com/yungbote/jobtrack-backend/internal/data/db"
	httpserver "github.com/yungbote/jobtrack-backend/internal/http"
	"github.com/yungbote/jobtrack-backend/internal/observability"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Redis    *goredis.Client
	Cfg      Config
	Metrics  *observability.Metrics
	Repos    Repos
	Services Services
	Server   *httpserver.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "jobtrack-backend",
		Environment: logMode,
	})
	metrics := observability.Init(log)

	theDB, err := db.Open(cfg.Database.toDB(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisclient.NewClient(ctx, log, redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init redis: %w", err)
		}
	} else {
		log.Info("REDIS_ADDR not set; using in-process application locks")
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, rdb, log, cfg, metrics, reposet)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := httpserver.NewServer(cfg.Addr(), wireRouterConfig(log, cfg, metrics, handlerset, middleware))

	return &App{
		Log:          log,
		DB:           theDB,
		Redis:        rdb,
		Cfg:          cfg,
		Metrics:      metrics,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and runs background workers until ctx is cancelled or one of
// them fails, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartDBCollector(gctx, a.Log, a.DB)
	if a.Redis != nil {
		a.Metrics.StartRedisCollector(gctx, a.Log, a.Redis)
	}
	if a.Services.ReminderDigest != nil {
		if err := a.Services.ReminderDigest.Start(gctx); err != nil {
			return err
		}
	}

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
		return a.Server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
