package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/jobtrack-backend/internal/data/repos"
	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
)

type ownershipGuard struct {
	users repos.UserRepo
	refs  repos.UserApplicationRepo
	apps  repos.ApplicationRepo
}

// NewOwnershipGuard allows exactly the ids in the user's reference set. Outside
// the set it only checks existence so an id that names nothing is NotFound and
// one owned by someone else is AccessDenied.
func NewOwnershipGuard(users repos.UserRepo, refs repos.UserApplicationRepo, apps repos.ApplicationRepo) domainagg.OwnershipGuard {
	return &ownershipGuard{users: users, refs: refs, apps: apps}
}

func (g *ownershipGuard) Authorize(ctx context.Context, userID, applicationID uuid.UUID) error {
	const op = "Tracker.Ownership.Authorize"
	if userID == uuid.Nil {
		return domainagg.Validation(op, "missing user id")
	}
	if applicationID == uuid.Nil {
		return domainagg.Validation(op, "missing application id")
	}
	dbc := dbctx.Context{Ctx: ctx}
	ok, err := g.refs.Contains(dbc, userID, applicationID)
	if err != nil {
		return MapError(op, err)
	}
	if ok {
		return nil
	}
	exists, err := g.users.Exists(dbc, userID)
	if err != nil {
		return MapError(op, err)
	}
	if !exists {
		return domainagg.NotFound(op, "user not found")
	}
	found, err := g.apps.Exists(dbc, applicationID)
	if err != nil {
		return MapError(op, err)
	}
	if !found {
		return domainagg.NotFound(op, "application not found")
	}
	return domainagg.AccessDenied(op, "access denied to this application")
}
