package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/jobtrack-backend/internal/analytics"
	types "github.com/yungbote/jobtrack-backend/internal/domain"
	"github.com/yungbote/jobtrack-backend/internal/http/response"
	"github.com/yungbote/jobtrack-backend/internal/platform/apierr"
	"github.com/yungbote/jobtrack-backend/internal/services"
)

type ApplicationHandler struct {
	apps      services.ApplicationService
	analytics services.AnalyticsService
}

func NewApplicationHandler(apps services.ApplicationService, analytics services.AnalyticsService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, analytics: analytics}
}

// POST /api/applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	var in types.ApplicationInput
	if !bindJSON(c, &in) {
		return
	}
	app, err := h.apps.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, "Application created successfully", app)
}

// GET /api/applications?status=&company=&sortBy=&sortOrder=
func (h *ApplicationHandler) List(c *gin.Context) {
	filter := analytics.ListFilter{
		Status:          c.Query("status"),
		CompanyContains: c.Query("company"),
	}
	order := analytics.ParseSort(c.Query("sortBy"), c.Query("sortOrder"))
	apps, err := h.analytics.List(c.Request.Context(), filter, order)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondList(c, apps, len(apps))
}

// GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	app, err := h.apps.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "", app)
}

// PUT /api/applications/:id
// Unknown fields such as status_history or created_at are ignored by decoding.
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var patch types.ApplicationPatch
	if !bindJSON(c, &patch) {
		return
	}
	app, err := h.apps.UpdateDetails(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "Application updated successfully", app)
}

// DELETE /api/applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.apps.Delete(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "Application deleted successfully", nil)
}

// PUT /api/applications/:id/status
// body: { "status": "...", "note": "..." }
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.apps.UpdateStatus(c.Request.Context(), id, req.Status, req.Note)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "Application status updated successfully", app)
}

// POST /api/applications/:id/communications
func (h *ApplicationHandler) AddCommunication(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in types.CommunicationInput
	if !bindJSON(c, &in) {
		return
	}
	app, err := h.apps.AddCommunication(c.Request.Context(), id, in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "Communication added successfully", app)
}

// PUT /api/applications/:id/notes
// body: { "notes": "..." }
func (h *ApplicationHandler) UpdateNotes(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.apps.SetNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "Notes updated successfully", app)
}

// POST /api/applications/:id/reminders
func (h *ApplicationHandler) AddReminder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in types.ReminderInput
	if !bindJSON(c, &in) {
		return
	}
	app, err := h.apps.AddReminder(c.Request.Context(), id, in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, "Reminder added successfully", app)
}

// PUT /api/applications/:id/reminders/:reminderId
// body: { "is_completed": true }
func (h *ApplicationHandler) UpdateReminder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	reminderID, ok := pathUUID(c, "reminderId")
	if !ok {
		return
	}
	var req struct {
		IsCompleted *bool `json:"is_completed"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.IsCompleted == nil {
		response.RespondDomainError(c, apierr.BadRequest("is_completed is required", nil))
		return
	}
	app, err := h.apps.SetReminderCompletion(c.Request.Context(), id, reminderID, *req.IsCompleted)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "Reminder updated successfully", app)
}

// DELETE /api/applications/:id/reminders/:reminderId
func (h *ApplicationHandler) DeleteReminder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	reminderID, ok := pathUUID(c, "reminderId")
	if !ok {
		return
	}
	app, err := h.apps.DeleteReminder(c.Request.Context(), id, reminderID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "Reminder deleted successfully", app)
}

// GET /api/applications/:id/timeline
func (h *ApplicationHandler) Timeline(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tl, err := h.analytics.Timeline(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "", tl)
}
