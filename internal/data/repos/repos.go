package repos

import (
	"github.com/yungbote/jobtrack-backend/internal/data/repos/tracker"
)

type UserRepo = tracker.UserRepo
type UserApplicationRepo = tracker.UserApplicationRepo
type ApplicationRepo = tracker.ApplicationRepo
type StatusHistoryRepo = tracker.StatusHistoryRepo
type CommunicationRepo = tracker.CommunicationRepo
type ReminderRepo = tracker.ReminderRepo

type DueReminder = tracker.DueReminder

var (
	NewUserRepo            = tracker.NewUserRepo
	NewUserApplicationRepo = tracker.NewUserApplicationRepo
	NewApplicationRepo     = tracker.NewApplicationRepo
	NewStatusHistoryRepo   = tracker.NewStatusHistoryRepo
	NewCommunicationRepo   = tracker.NewCommunicationRepo
	NewReminderRepo        = tracker.NewReminderRepo
)
