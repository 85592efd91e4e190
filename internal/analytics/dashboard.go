package analytics

import (
	"math"
	"time"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
)

const (
	dashboardWindowDays = 7
	dashboardListLimit  = 5
)

type GoalProgress struct {
	Target   int `json:"target"`
	Current  int `json:"current"`
	Progress int `json:"progress"`
}

type Dashboard struct {
	TotalApplications     int            `json:"total_applications"`
	ActiveApplications    int            `json:"active_applications"`
	RecentApplications    int            `json:"recent_applications"`
	InterviewsScheduled   int            `json:"interviews_scheduled"`
	UpcomingReminders     int            `json:"upcoming_reminders"`
	OverdueReminders      int            `json:"overdue_reminders"`
	WeeklyGoal            GoalProgress   `json:"weekly_goal"`
	UpcomingRemindersList []ReminderView `json:"upcoming_reminders_list"`
	OverdueRemindersList  []ReminderView `json:"overdue_reminders_list"`
}

// BuildDashboard summarizes apps as of now. Reminder lists hold the five
// soonest due entries; counts cover all of them.
func BuildDashboard(apps []*types.Application, goal types.WeeklyGoal, now time.Time) Dashboard {
	weekAgo := now.AddDate(0, 0, -dashboardWindowDays)
	d := Dashboard{}
	for _, app := range apps {
		if app == nil {
			continue
		}
		d.TotalApplications++
		if !app.CurrentStatus.Terminal() {
			d.ActiveApplications++
		}
		if !app.CreatedAt.Before(weekAgo) {
			d.RecentApplications++
		}
		if app.CurrentStatus == types.StatusInterviewScheduled {
			d.InterviewsScheduled++
		}
	}

	upcoming := openDueWithin(apps, now, now.AddDate(0, 0, dashboardWindowDays))
	overdue := openOverdue(apps, now)
	d.UpcomingReminders = len(upcoming)
	d.OverdueReminders = len(overdue)
	d.UpcomingRemindersList = head(upcoming, dashboardListLimit)
	d.OverdueRemindersList = head(overdue, dashboardListLimit)
	d.WeeklyGoal = GoalProgress{
		Target:   goal.WeeklyTarget,
		Current:  goal.CurrentWeekCount,
		Progress: goalProgress(goal),
	}
	return d
}

// goalProgress rounds half up; a zero target reports 0.
func goalProgress(goal types.WeeklyGoal) int {
	if goal.WeeklyTarget <= 0 {
		return 0
	}
	return int(math.Floor(float64(goal.CurrentWeekCount)/float64(goal.WeeklyTarget)*100 + 0.5))
}

func head(views []ReminderView, n int) []ReminderView {
	if len(views) > n {
		return views[:n]
	}
	return views
}
