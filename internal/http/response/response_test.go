package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/platform/apierr"
)

func TestRespondDomainErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", domainagg.Validation("op", "jobTitle is required"), http.StatusBadRequest, "validation", "jobTitle is required"},
		{"denied", domainagg.AccessDenied("op", "access denied to this application"), http.StatusForbidden, "access_denied", "access denied to this application"},
		{"missing", domainagg.NotFound("op", "application not found"), http.StatusNotFound, "not_found", "application not found"},
		{"unauthenticated", domainagg.Unauthenticated("op"), http.StatusUnauthorized, "unauthenticated", "authentication required"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "stale", nil), http.StatusConflict, "conflict", "stale"},
		{"risk", domainagg.ConsistencyRisk("op", "x", errors.New("db down")), http.StatusInternalServerError, "consistency_risk", ""},
		{"request", apierr.BadRequest("invalid id", errors.New("invalid UUID length: 3")), http.StatusBadRequest, "validation", "invalid id"},
		{"raw", errors.New("pq: password authentication failed"), http.StatusInternalServerError, "internal", "operation did not complete"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondDomainError(c, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("status: want=%d got=%d", tc.status, rec.Code)
			}
			var body Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.Error == nil {
				t.Fatalf("expected error envelope, got %+v", body)
			}
			if body.Error.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, body.Error.Code)
			}
			if tc.message != "" && body.Error.Message != tc.message {
				t.Fatalf("message: want=%q got=%q", tc.message, body.Error.Message)
			}
		})
	}
}

func TestRespondListCarriesCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondList(c, []int{}, 0)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["count"] != float64(0) {
		t.Fatalf("count: got %v", body["count"])
	}
	if body["success"] != true {
		t.Fatalf("success: got %v", body["success"])
	}
}
