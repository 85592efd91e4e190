package app

import (
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/jobtrack-backend/internal/clients/redis"
	"github.com/yungbote/jobtrack-backend/internal/data/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/data/repos"
	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	httpserver "github.com/yungbote/jobtrack-backend/internal/http"
	httpH "github.com/yungbote/jobtrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/jobtrack-backend/internal/http/middleware"
	"github.com/yungbote/jobtrack-backend/internal/observability"
	"github.com/yungbote/jobtrack-backend/internal/platform/envutil"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
	"github.com/yungbote/jobtrack-backend/internal/services"
)

type Repos struct {
	User            repos.UserRepo
	UserApplication repos.UserApplicationRepo
	Application     repos.ApplicationRepo
	StatusHistory   repos.StatusHistoryRepo
	Communication   repos.CommunicationRepo
	Reminder        repos.ReminderRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		UserApplication: repos.NewUserApplicationRepo(db, log),
		Application:     repos.NewApplicationRepo(db, log),
		StatusHistory:   repos.NewStatusHistoryRepo(db, log),
		Communication:   repos.NewCommunicationRepo(db, log),
		Reminder:        repos.NewReminderRepo(db, log),
	}
}

type Services struct {
	Aggregate      domainagg.ApplicationAggregate
	Auth           services.AuthService
	User           services.UserService
	Application    services.ApplicationService
	Analytics      services.AnalyticsService
	ReminderDigest *services.ReminderDigest
}

func wireServices(db *gorm.DB, rdb *goredis.Client, log *logger.Logger, cfg Config, metrics *observability.Metrics, r Repos) (Services, error) {
	log.Info("Wiring services...")

	var locker aggregates.Locker
	if rdb != nil {
		lock, err := redisclient.NewLock(log, rdb, cfg.Writes.LockTTL)
		if err != nil {
			return Services{}, fmt.Errorf("init redis lock: %w", err)
		}
		locker = lock
	}

	agg := aggregates.NewApplicationAggregate(aggregates.ApplicationAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:          db,
			Log:         log,
			Hooks:       aggregates.NewObservabilityHooks(metrics),
			Locker:      locker,
			MaxAttempts: cfg.Writes.MaxAttempts,
		},
		Users:          r.User,
		Refs:           r.UserApplication,
		Applications:   r.Application,
		History:        r.StatusHistory,
		Communications: r.Communication,
		Reminders:      r.Reminder,
	})
	log.Info("aggregate wired", agg.Contract().Describe()...)

	userSvc := services.NewUserService(log, r.User, cfg.AutoProvisionUsers)
	authSvc, err := services.NewAuthService(log, cfg.JWTSecretKey, userSvc)
	if err != nil {
		return Services{}, err
	}

	out := Services{
		Aggregate:   agg,
		Auth:        authSvc,
		User:        userSvc,
		Application: services.NewApplicationService(log, agg),
		Analytics: services.NewAnalyticsService(services.AnalyticsServiceDeps{
			Log:          log,
			Users:        r.User,
			Applications: r.Application,
			Aggregate:    agg,
		}),
	}

	if cfg.Digest.Enabled {
		deps := services.ReminderDigestDeps{Log: log, Reminders: r.Reminder, Metrics: metrics}
		if rdb != nil {
			pub, err := redisclient.NewPublisher(log, rdb, cfg.Digest.Channel)
			if err != nil {
				return Services{}, fmt.Errorf("init digest publisher: %w", err)
			}
			deps.Publisher = pub
		}
		digest, err := services.NewReminderDigest(services.ReminderDigestConfig{
			Schedule: cfg.Digest.Schedule,
			Window:   time.Duration(cfg.Digest.WindowHours) * time.Hour,
		}, deps)
		if err != nil {
			return Services{}, err
		}
		out.ReminderDigest = digest
	}
	return out, nil
}

type Handlers struct {
	Application *httpH.ApplicationHandler
	Analytics   *httpH.AnalyticsHandler
	User        *httpH.UserHandler
	Health      *httpH.HealthHandler
}

func wireHandlers(db *gorm.DB, s Services) Handlers {
	return Handlers{
		Application: httpH.NewApplicationHandler(s.Application, s.Analytics),
		Analytics:   httpH.NewAnalyticsHandler(s.Analytics),
		User:        httpH.NewUserHandler(s.User),
		Health:      httpH.NewHealthHandler(db),
	}
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, s.Auth)}
}

func wireRouterConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) httpserver.RouterConfig {
	return httpserver.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		CORSOrigins:        cfg.CORSOrigins,
		TracingEnabled:     envutil.Bool("OTEL_ENABLED", false),
		ServiceName:        "jobtrack-backend",
		AuthMiddleware:     mw.Auth,
		ApplicationHandler: h.Application,
		AnalyticsHandler:   h.Analytics,
		UserHandler:        h.User,
		HealthHandler:      h.Health,
	}
}
