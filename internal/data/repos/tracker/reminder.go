package tracker

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

type ReminderRepo interface {
	Create(dbc dbctx.Context, reminder *types.Reminder) error
	SetCompletion(dbc dbctx.Context, applicationID, reminderID uuid.UUID, isCompleted bool) (bool, error)
	Delete(dbc dbctx.Context, applicationID, reminderID uuid.UUID) (bool, error)
	// ListOpenDueBetween returns not-completed reminders with from <= due_date <= to,
	// joined with their application's owner and profile.
	ListOpenDueBetween(dbc dbctx.Context, from, to time.Time) ([]DueReminder, error)
}

// DueReminder is a reminder row flattened with its application context.
type DueReminder struct {
	ReminderID    uuid.UUID          `gorm:"column:reminder_id"`
	ApplicationID uuid.UUID          `gorm:"column:application_id"`
	OwnerUserID   uuid.UUID          `gorm:"column:owner_user_id"`
	JobTitle      string             `gorm:"column:job_title"`
	Company       string             `gorm:"column:company"`
	Type          types.ReminderType `gorm:"column:type"`
	DueDate       time.Time          `gorm:"column:due_date"`
	Note          string             `gorm:"column:note"`
}

type reminderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReminderRepo(db *gorm.DB, baseLog *logger.Logger) ReminderRepo {
	return &reminderRepo{db: db, log: baseLog.With("repo", "ReminderRepo")}
}

func (r *reminderRepo) Create(dbc dbctx.Context, reminder *types.Reminder) error {
	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(reminder).Error
}

func (r *reminderRepo) SetCompletion(dbc dbctx.Context, applicationID, reminderID uuid.UUID, isCompleted bool) (bool, error) {
	var count int64
	db := dbc.DB(r.db)
	if err := db.Model(&types.Reminder{}).
		Where("id = ? AND application_id = ?", reminderID, applicationID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	// Setting the same value again matches zero changed rows on some drivers, so
	// existence is decided by the count above.
	if err := db.Model(&types.Reminder{}).
		Where("id = ? AND application_id = ?", reminderID, applicationID).
		Update("is_completed", isCompleted).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *reminderRepo) Delete(dbc dbctx.Context, applicationID, reminderID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND application_id = ?", reminderID, applicationID).
		Delete(&types.Reminder{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reminderRepo) ListOpenDueBetween(dbc dbctx.Context, from, to time.Time) ([]DueReminder, error) {
	var out []DueReminder
	if err := dbc.DB(r.db).
		Table("application_reminders").
		Select(`application_reminders.id AS reminder_id,
			application_reminders.application_id AS application_id,
			applications.owner_user_id AS owner_user_id,
			applications.job_title AS job_title,
			applications.company AS company,
			application_reminders.type AS type,
			application_reminders.due_date AS due_date,
			application_reminders.note AS note`).
		Joins("JOIN applications ON applications.id = application_reminders.application_id").
		Where("application_reminders.is_completed = ?", false).
		Where("application_reminders.due_date >= ? AND application_reminders.due_date <= ?", from, to).
		Order("applications.owner_user_id ASC, application_reminders.due_date ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
