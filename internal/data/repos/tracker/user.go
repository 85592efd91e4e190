package tracker

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

type UserRepo interface {
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	Exists(dbc dbctx.Context, userID uuid.UUID) (bool, error)
	EnsureExists(dbc dbctx.Context, userID uuid.UUID) error
	UpdateGoal(dbc dbctx.Context, userID uuid.UUID, goal types.WeeklyGoal) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

// GetByID returns nil, nil when the user does not exist.
func (r *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	var results []*types.User
	if err := dbc.DB(r.db).
		Where("id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *userRepo) Exists(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) EnsureExists(dbc dbctx.Context, userID uuid.UUID) error {
	now := time.Now().UTC()
	u := &types.User{ID: userID, CreatedAt: now, UpdatedAt: now}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(u).Error
}

func (r *userRepo) UpdateGoal(dbc dbctx.Context, userID uuid.UUID, goal types.WeeklyGoal) error {
	res := dbc.DB(r.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"weekly_target":      goal.WeeklyTarget,
			"current_week_count": goal.CurrentWeekCount,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
