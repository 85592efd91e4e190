package domain

import "github.com/yungbote/jobtrack-backend/internal/domain/tracker"

type Status = tracker.Status
type ReminderType = tracker.ReminderType

const (
	StatusApplied            = tracker.StatusApplied
	StatusUnderReview        = tracker.StatusUnderReview
	StatusInterviewScheduled = tracker.StatusInterviewScheduled
	StatusOffered            = tracker.StatusOffered
	StatusRejected           = tracker.StatusRejected

	ReminderFollowUp  = tracker.ReminderFollowUp
	ReminderInterview = tracker.ReminderInterview
)

// Statuses lists every status in display order.
var Statuses = tracker.Statuses

const NoteApplicationCreated = tracker.NoteApplicationCreated

func ParseStatus(raw string) (Status, bool) { return tracker.ParseStatus(raw) }

func DefaultStatusNote(s Status) string { return tracker.DefaultStatusNote(s) }

type User = tracker.User
type UserApplication = tracker.UserApplication
type WeeklyGoal = tracker.WeeklyGoal

type Application = tracker.Application
type InterviewPrep = tracker.InterviewPrep
type StatusHistoryEntry = tracker.StatusHistoryEntry
type Communication = tracker.Communication
type Reminder = tracker.Reminder

type ApplicationInput = tracker.ApplicationInput
type ApplicationPatch = tracker.ApplicationPatch
type CommunicationInput = tracker.CommunicationInput
type ReminderInput = tracker.ReminderInput

// Models lists every table owned by this service, in migration order.
func Models() []any {
	return []any{
		&tracker.User{},
		&tracker.UserApplication{},
		&tracker.Application{},
		&tracker.StatusHistoryEntry{},
		&tracker.Communication{},
		&tracker.Reminder{},
	}
}
