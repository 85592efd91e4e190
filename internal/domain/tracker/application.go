package tracker

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Application is the aggregate root. StatusHistory and Communications are
// append-only; Reminders are addressed by their stable ID.
type Application struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index;column:owner_user_id" json:"owner_user_id"`

	JobTitle       string `gorm:"column:job_title;not null" json:"job_title"`
	Company        string `gorm:"column:company;not null;index" json:"company"`
	Location       string `gorm:"column:location" json:"location"`
	JobLink        string `gorm:"column:job_link" json:"job_link"`
	JobDescription string `gorm:"column:job_description" json:"job_description"`

	CurrentStatus Status `gorm:"column:current_status;not null;default:'applied';index" json:"current_status"`
	Notes         string `gorm:"column:notes;not null;default:''" json:"notes"`

	// Generated assistant output. Stored as given.
	ResumeFeedback       string         `gorm:"column:resume_feedback" json:"resume_feedback,omitempty"`
	CoverLetterGenerated string         `gorm:"column:cover_letter_generated" json:"cover_letter_generated,omitempty"`
	InterviewPrep        datatypes.JSON `gorm:"column:interview_prep" json:"interview_prep,omitempty"`
	SuccessScore         *float64       `gorm:"column:success_score" json:"success_score,omitempty"`
	ImprovementTips      datatypes.JSON `gorm:"column:improvement_tips" json:"improvement_tips,omitempty"`

	AppliedAt *time.Time `gorm:"column:applied_at" json:"applied_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`

	// Version is bumped on every committed mutation and guards concurrent writers.
	Version int `gorm:"column:version;not null;default:0" json:"version"`

	StatusHistory  []StatusHistoryEntry `gorm:"foreignKey:ApplicationID" json:"status_history"`
	Communications []Communication      `gorm:"foreignKey:ApplicationID" json:"communications"`
	Reminders      []Reminder           `gorm:"foreignKey:ApplicationID" json:"reminders"`
}

func (Application) TableName() string { return "applications" }

// InterviewPrep is the shape stored in Application.InterviewPrep.
type InterviewPrep struct {
	PredictedQuestions []string `json:"predicted_questions"`
	SuggestedAnswers   []string `json:"suggested_answers"`
}

type StatusHistoryEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_status_history_app_seq,priority:1" json:"-"`
	Seq           int       `gorm:"not null;uniqueIndex:idx_status_history_app_seq,priority:2" json:"seq"`
	Status        Status    `gorm:"column:status;not null" json:"status"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
	UpdatedBy     uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by"`
	Note          string    `gorm:"column:note" json:"note"`
}

func (StatusHistoryEntry) TableName() string { return "application_status_history" }

type Communication struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_communication_app_seq,priority:1" json:"-"`
	Seq           int       `gorm:"not null;uniqueIndex:idx_communication_app_seq,priority:2" json:"seq"`
	Date          time.Time `gorm:"column:date;not null" json:"date"`
	Mode          string    `gorm:"column:mode" json:"mode"`
	Summary       string    `gorm:"column:summary" json:"summary"`
	ContactPerson string    `gorm:"column:contact_person" json:"contact_person"`
}

func (Communication) TableName() string { return "application_communications" }

type Reminder struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	Type          ReminderType `gorm:"column:type;not null" json:"type"`
	DueDate       time.Time    `gorm:"column:due_date;not null;index" json:"due_date"`
	Note          string       `gorm:"column:note" json:"note"`
	IsCompleted   bool         `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
}

func (Reminder) TableName() string { return "application_reminders" }

// LatestStatus returns the status of the most recent history entry.
func (a *Application) LatestStatus() (Status, bool) {
	if a == nil || len(a.StatusHistory) == 0 {
		return "", false
	}
	last := a.StatusHistory[0]
	for _, e := range a.StatusHistory[1:] {
		if e.Seq > last.Seq {
			last = e
		}
	}
	return last.Status, true
}

func (a *Application) ReminderByID(id uuid.UUID) *Reminder {
	if a == nil {
		return nil
	}
	for i := range a.Reminders {
		if a.Reminders[i].ID == id {
			return &a.Reminders[i]
		}
	}
	return nil
}
