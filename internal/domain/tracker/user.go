package tracker

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the identity subsystem. This service reads the weekly goal
// and maintains the application reference set through UserApplication rows.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WeeklyTarget     int       `gorm:"column:weekly_target;not null;default:0" json:"weekly_target"`
	CurrentWeekCount int       `gorm:"column:current_week_count;not null;default:0" json:"current_week_count"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// WeeklyGoal is the goal configuration used by the dashboard.
type WeeklyGoal struct {
	WeeklyTarget     int `json:"weekly_target"`
	CurrentWeekCount int `json:"current_week_count"`
}

func (u *User) Goal() WeeklyGoal {
	if u == nil {
		return WeeklyGoal{}
	}
	return WeeklyGoal{WeeklyTarget: u.WeeklyTarget, CurrentWeekCount: u.CurrentWeekCount}
}

// UserApplication is one entry of a user's application reference set.
// Position preserves insertion order for scans.
type UserApplication struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;primaryKey;column:application_id;index" json:"application_id"`
	Position      int64     `gorm:"column:position;not null;index" json:"position"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (UserApplication) TableName() string { return "user_applications" }
