package services

import (
	"context"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/platform/ctxutil"
)

// actingUser returns the verified user attached by the auth middleware.
func actingUser(ctx context.Context, op string) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, domainagg.Unauthenticated(op)
	}
	return id, nil
}
