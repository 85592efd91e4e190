package tracker

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

type ApplicationRepo interface {
	Create(dbc dbctx.Context, app *types.Application) error
	// GetByID loads the aggregate with its sub-collections; nil, nil when absent.
	// forUpdate takes a row lock on dialects that support it.
	GetByID(dbc dbctx.Context, applicationID uuid.UUID, forUpdate bool) (*types.Application, error)
	// ListByOwner scans the user's reference set in insertion order.
	ListByOwner(dbc dbctx.Context, userID uuid.UUID) ([]*types.Application, error)
	Exists(dbc dbctx.Context, applicationID uuid.UUID) (bool, error)
	Delete(dbc dbctx.Context, applicationID uuid.UUID) (bool, error)
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return &applicationRepo{db: db, log: baseLog.With("repo", "ApplicationRepo")}
}

func withSubCollections(q *gorm.DB) *gorm.DB {
	return q.
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Communications", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Reminders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

// Create inserts the application row only; sub-collections go through their own repos.
func (r *applicationRepo) Create(dbc dbctx.Context, app *types.Application) error {
	return dbc.DB(r.db).Omit(clause.Associations).Create(app).Error
}

func (r *applicationRepo) GetByID(dbc dbctx.Context, applicationID uuid.UUID, forUpdate bool) (*types.Application, error) {
	q := dbc.DB(r.db)
	if forUpdate && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var results []*types.Application
	if err := withSubCollections(q).
		Where("id = ?", applicationID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *applicationRepo) ListByOwner(dbc dbctx.Context, userID uuid.UUID) ([]*types.Application, error) {
	var results []*types.Application
	if err := withSubCollections(dbc.DB(r.db)).
		Joins("JOIN user_applications ON user_applications.application_id = applications.id AND user_applications.user_id = ?", userID).
		Order("user_applications.position ASC, user_applications.created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *applicationRepo) Exists(dbc dbctx.Context, applicationID uuid.UUID) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Application{}).
		Where("id = ?", applicationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes the application and everything it owns.
func (r *applicationRepo) Delete(dbc dbctx.Context, applicationID uuid.UUID) (bool, error) {
	db := dbc.DB(r.db)
	for _, child := range []any{&types.StatusHistoryEntry{}, &types.Communication{}, &types.Reminder{}} {
		if err := db.Where("application_id = ?", applicationID).Delete(child).Error; err != nil {
			return false, err
		}
	}
	res := db.Where("id = ?", applicationID).Delete(&types.Application{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
