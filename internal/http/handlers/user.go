package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/jobtrack-backend/internal/http/response"
	"github.com/yungbote/jobtrack-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me/goals
func (uh *UserHandler) GetGoals(c *gin.Context) {
	goal, err := uh.userService.GetGoals(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "", goal)
}

// PUT /api/me/goals
// body: { "weekly_target": 5, "current_week_count": 2 }
func (uh *UserHandler) UpdateGoals(c *gin.Context) {
	var req services.GoalsUpdate
	if !bindJSON(c, &req) {
		return
	}
	goal, err := uh.userService.UpdateGoals(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, "Goals updated successfully", goal)
}
