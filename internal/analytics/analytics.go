// Package analytics derives read-only views (listings, reminder feeds,
// statistics, timelines, dashboards) from a user's loaded applications.
//
// Every function is pure: callers pass the applications, the clock reading and
// any user settings, and nothing here touches storage. That keeps the read side
// free to move to a precomputed view later without touching the write path.
package analytics

import (
	"github.com/google/uuid"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
)

// ReminderView is a reminder flattened with the application it belongs to.
type ReminderView struct {
	types.Reminder
	ApplicationID uuid.UUID `json:"application_id"`
	JobTitle      string    `json:"job_title"`
	Company       string    `json:"company"`
}

func newReminderView(app *types.Application, r types.Reminder) ReminderView {
	return ReminderView{
		Reminder:      r,
		ApplicationID: app.ID,
		JobTitle:      app.JobTitle,
		Company:       app.Company,
	}
}

// eachReminder visits reminders in application order, then reminder order.
func eachReminder(apps []*types.Application, fn func(app *types.Application, r types.Reminder)) {
	for _, app := range apps {
		if app == nil {
			continue
		}
		for _, r := range app.Reminders {
			fn(app, r)
		}
	}
}
