package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/jobtrack-backend/internal/analytics"
	"github.com/yungbote/jobtrack-backend/internal/http/response"
	"github.com/yungbote/jobtrack-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/reminders?completed=&upcoming=&overdue=
func (h *AnalyticsHandler) Reminders(c *gin.Context) {
	filter := analytics.ReminderFilter{
		Completed: queryBool(c, "completed"),
		Upcoming:  queryFlag(c, "upcoming"),
		Overdue:   queryFlag(c, "overdue"),
	}
	views, err := h.analytics.Reminders(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondList(c, views, len(views))
}

// GET /api/reminders/upcoming?days=
func (h *AnalyticsHandler) UpcomingReminders(c *gin.Context) {
	views, err := h.analytics.UpcomingReminders(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondList(c, views, len(views))
}

// GET /api/stats?period=
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	st, err := h.analytics.Stats(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "", st)
}

// GET /api/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	d, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "", d)
}
