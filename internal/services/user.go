package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrack-backend/internal/data/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/data/repos"
	types "github.com/yungbote/jobtrack-backend/internal/domain"
	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

// GoalsUpdate leaves nil fields unchanged.
type GoalsUpdate struct {
	WeeklyTarget     *int `json:"weekly_target"`
	CurrentWeekCount *int `json:"current_week_count"`
}

type UserService interface {
	// EnsureProvisioned creates the user record for a verified identity. It is
	// idempotent and only runs when auto provisioning is enabled.
	EnsureProvisioned(ctx context.Context, userID uuid.UUID) error
	GetGoals(ctx context.Context) (types.WeeklyGoal, error)
	UpdateGoals(ctx context.Context, update GoalsUpdate) (types.WeeklyGoal, error)
}

type userService struct {
	log       *logger.Logger
	userRepo  repos.UserRepo
	provision bool
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, autoProvision bool) UserService {
	return &userService{
		log:       log.With("service", "UserService"),
		userRepo:  userRepo,
		provision: autoProvision,
	}
}

func (us *userService) EnsureProvisioned(ctx context.Context, userID uuid.UUID) error {
	const op = "UserService.EnsureProvisioned"
	if !us.provision {
		return nil
	}
	if userID == uuid.Nil {
		return domainagg.Validation(op, "missing user id")
	}
	if err := us.userRepo.EnsureExists(dbctx.Context{Ctx: ctx}, userID); err != nil {
		us.log.Warn("user provisioning failed", "user_id", userID, "error", err)
		return aggregates.MapError(op, err)
	}
	return nil
}

func (us *userService) GetGoals(ctx context.Context) (types.WeeklyGoal, error) {
	const op = "UserService.GetGoals"
	userID, err := actingUser(ctx, op)
	if err != nil {
		return types.WeeklyGoal{}, err
	}
	user, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return types.WeeklyGoal{}, aggregates.MapError(op, err)
	}
	if user == nil {
		return types.WeeklyGoal{}, domainagg.NotFound(op, "user not found")
	}
	return user.Goal(), nil
}

func (us *userService) UpdateGoals(ctx context.Context, update GoalsUpdate) (types.WeeklyGoal, error) {
	const op = "UserService.UpdateGoals"
	userID, err := actingUser(ctx, op)
	if err != nil {
		return types.WeeklyGoal{}, err
	}
	if update.WeeklyTarget != nil && *update.WeeklyTarget < 0 {
		return types.WeeklyGoal{}, domainagg.Validation(op, "weekly_target must not be negative")
	}
	if update.CurrentWeekCount != nil && *update.CurrentWeekCount < 0 {
		return types.WeeklyGoal{}, domainagg.Validation(op, "current_week_count must not be negative")
	}

	dbc := dbctx.Context{Ctx: ctx}
	user, err := us.userRepo.GetByID(dbc, userID)
	if err != nil {
		return types.WeeklyGoal{}, aggregates.MapError(op, err)
	}
	if user == nil {
		return types.WeeklyGoal{}, domainagg.NotFound(op, "user not found")
	}

	goal := user.Goal()
	if update.WeeklyTarget != nil {
		goal.WeeklyTarget = *update.WeeklyTarget
	}
	if update.CurrentWeekCount != nil {
		goal.CurrentWeekCount = *update.CurrentWeekCount
	}
	if err := us.userRepo.UpdateGoal(dbc, userID, goal); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.WeeklyGoal{}, domainagg.NotFound(op, "user not found")
		}
		return types.WeeklyGoal{}, aggregates.MapError(op, err)
	}
	return goal, nil
}
