package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/jobtrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/jobtrack-backend/internal/http/middleware"
	"github.com/yungbote/jobtrack-backend/internal/observability"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	TracingEnabled bool
	ServiceName    string

	AuthMiddleware *httpMW.AuthMiddleware

	ApplicationHandler *httpH.ApplicationHandler
	AnalyticsHandler   *httpH.AnalyticsHandler
	UserHandler        *httpH.UserHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "jobtrack-backend"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	protected := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Applications
		if cfg.ApplicationHandler != nil {
			h := cfg.ApplicationHandler
			protected.POST("/applications", h.Create)
			protected.GET("/applications", h.List)
			protected.GET("/applications/:id", h.Get)
			protected.PUT("/applications/:id", h.Update)
			protected.DELETE("/applications/:id", h.Delete)
			protected.PUT("/applications/:id/status", h.UpdateStatus)
			protected.POST("/applications/:id/communications", h.AddCommunication)
			protected.PUT("/applications/:id/notes", h.UpdateNotes)
			protected.POST("/applications/:id/reminders", h.AddReminder)
			protected.PUT("/applications/:id/reminders/:reminderId", h.UpdateReminder)
			protected.DELETE("/applications/:id/reminders/:reminderId", h.DeleteReminder)
			protected.GET("/applications/:id/timeline", h.Timeline)
		}

		// Reminders + analytics
		if cfg.AnalyticsHandler != nil {
			protected.GET("/reminders", cfg.AnalyticsHandler.Reminders)
			protected.GET("/reminders/upcoming", cfg.AnalyticsHandler.UpcomingReminders)
			protected.GET("/stats", cfg.AnalyticsHandler.Stats)
			protected.GET("/dashboard", cfg.AnalyticsHandler.Dashboard)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me/goals", cfg.UserHandler.GetGoals)
			protected.PUT("/me/goals", cfg.UserHandler.UpdateGoals)
		}
	}

	return r
}
