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

// UserApplicationRepo maintains the User -> Application reference set.
type UserApplicationRepo interface {
	Add(dbc dbctx.Context, userID, applicationID uuid.UUID) error
	Remove(dbc dbctx.Context, userID, applicationID uuid.UUID) (bool, error)
	Contains(dbc dbctx.Context, userID, applicationID uuid.UUID) (bool, error)
}

type userApplicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserApplicationRepo(db *gorm.DB, baseLog *logger.Logger) UserApplicationRepo {
	return &userApplicationRepo{db: db, log: baseLog.With("repo", "UserApplicationRepo")}
}

// Add appends the id at the end of the set. Adding an id twice is a no-op.
// Concurrent adds may share a position; scans break ties by created_at.
func (r *userApplicationRepo) Add(dbc dbctx.Context, userID, applicationID uuid.UUID) error {
	db := dbc.DB(r.db)
	var maxPos int64
	if err := db.Model(&types.UserApplication{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.UserApplication{
			UserID:        userID,
			ApplicationID: applicationID,
			Position:      maxPos + 1,
			CreatedAt:     time.Now().UTC(),
		}).Error
}

func (r *userApplicationRepo) Remove(dbc dbctx.Context, userID, applicationID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Delete(&types.UserApplication{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userApplicationRepo) Contains(dbc dbctx.Context, userID, applicationID uuid.UUID) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.UserApplication{}).
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
