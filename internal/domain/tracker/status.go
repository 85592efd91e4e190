package tracker

import "strings"

// Status is the closed set of application states. Any status may follow any other.
type Status string

const (
	StatusApplied            Status = "applied"
	StatusUnderReview        Status = "under review"
	StatusInterviewScheduled Status = "interview scheduled"
	StatusOffered            Status = "offered"
	StatusRejected           Status = "rejected"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusApplied,
	StatusUnderReview,
	StatusInterviewScheduled,
	StatusOffered,
	StatusRejected,
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus normalizes case and surrounding whitespace.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Terminal reports whether the application is no longer active.
func (s Status) Terminal() bool {
	return s == StatusOffered || s == StatusRejected
}

type ReminderType string

const (
	ReminderFollowUp  ReminderType = "follow-up"
	ReminderInterview ReminderType = "interview"
)

func (t ReminderType) Valid() bool {
	return t == ReminderFollowUp || t == ReminderInterview
}

const (
	NoteApplicationCreated = "Application created"
)

// DefaultStatusNote is recorded when a status update carries no note.
func DefaultStatusNote(s Status) string {
	return "Status updated to " + string(s)
}
