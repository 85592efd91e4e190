package analytics

import (
	"sort"
	"time"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
)

// DefaultUpcomingDays applies when a caller passes a non-positive window.
const DefaultUpcomingDays = 7

// ReminderFilter fields are AND-combined. Upcoming and Overdue use open
// intervals around now, so a reminder due exactly now matches neither.
type ReminderFilter struct {
	Completed *bool
	Upcoming  bool
	Overdue   bool
}

func (f ReminderFilter) match(r types.Reminder, now time.Time) bool {
	if f.Completed != nil && r.IsCompleted != *f.Completed {
		return false
	}
	if f.Upcoming && (r.IsCompleted || !r.DueDate.After(now)) {
		return false
	}
	if f.Overdue && (r.IsCompleted || !r.DueDate.Before(now)) {
		return false
	}
	return true
}

// Reminders returns every matching reminder across apps, soonest due first.
func Reminders(apps []*types.Application, now time.Time, filter ReminderFilter) []ReminderView {
	out := []ReminderView{}
	eachReminder(apps, func(app *types.Application, r types.Reminder) {
		if filter.match(r, now) {
			out = append(out, newReminderView(app, r))
		}
	})
	sortByDue(out)
	return out
}

// UpcomingReminders returns open reminders with now <= due <= now+daysAhead days.
func UpcomingReminders(apps []*types.Application, now time.Time, daysAhead int) []ReminderView {
	if daysAhead <= 0 {
		daysAhead = DefaultUpcomingDays
	}
	return openDueWithin(apps, now, now.AddDate(0, 0, daysAhead))
}

func openDueWithin(apps []*types.Application, from, to time.Time) []ReminderView {
	out := []ReminderView{}
	eachReminder(apps, func(app *types.Application, r types.Reminder) {
		if r.IsCompleted || r.DueDate.Before(from) || r.DueDate.After(to) {
			return
		}
		out = append(out, newReminderView(app, r))
	})
	sortByDue(out)
	return out
}

func openOverdue(apps []*types.Application, now time.Time) []ReminderView {
	return Reminders(apps, now, ReminderFilter{Overdue: true})
}

func sortByDue(views []ReminderView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].DueDate.Before(views[j].DueDate)
	})
}
