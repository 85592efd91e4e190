package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/jobtrack-backend/internal/http/response"
	"github.com/yungbote/jobtrack-backend/internal/platform/apierr"
)

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		response.RespondDomainError(c, apierr.BadRequest("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondDomainError(c, apierr.BadRequest("invalid request body", err))
		return false
	}
	return true
}

// queryBool returns nil when the parameter is absent or not a boolean.
func queryBool(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

func queryFlag(c *gin.Context, name string) bool {
	v := queryBool(c, name)
	return v != nil && *v
}

// queryInt returns 0 for a missing or malformed value.
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return v
}
