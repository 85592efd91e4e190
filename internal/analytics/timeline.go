package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
)

type EventType string

const (
	EventStatusChange  EventType = "status_change"
	EventCommunication EventType = "communication"
	EventReminder      EventType = "reminder"
)

type TimelineEvent struct {
	Type        EventType `json:"type"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`

	UpdatedBy     *uuid.UUID `json:"updated_by,omitempty"`
	ContactPerson string     `json:"contact_person,omitempty"`
	IsCompleted   *bool      `json:"is_completed,omitempty"`
	IsPast        *bool      `json:"is_past,omitempty"`
}

type TimelineHeader struct {
	ID            uuid.UUID    `json:"id"`
	JobTitle      string       `json:"job_title"`
	Company       string       `json:"company"`
	CurrentStatus types.Status `json:"current_status"`
}

type Timeline struct {
	Application TimelineHeader  `json:"application"`
	Events      []TimelineEvent `json:"timeline"`
}

// BuildTimeline merges history, communications and reminders ascending by
// date. Events at the same instant keep history, communication, reminder order.
func BuildTimeline(app *types.Application, now time.Time) Timeline {
	tl := Timeline{Events: []TimelineEvent{}}
	if app == nil {
		return tl
	}
	tl.Application = TimelineHeader{
		ID:            app.ID,
		JobTitle:      app.JobTitle,
		Company:       app.Company,
		CurrentStatus: app.CurrentStatus,
	}

	history := append([]types.StatusHistoryEntry(nil), app.StatusHistory...)
	sort.SliceStable(history, func(i, j int) bool { return history[i].Seq < history[j].Seq })
	for _, h := range history {
		by := h.UpdatedBy
		tl.Events = append(tl.Events, TimelineEvent{
			Type:        EventStatusChange,
			Date:        h.UpdatedAt,
			Title:       "Status changed to: " + string(h.Status),
			Description: h.Note,
			UpdatedBy:   &by,
		})
	}

	comms := append([]types.Communication(nil), app.Communications...)
	sort.SliceStable(comms, func(i, j int) bool { return comms[i].Seq < comms[j].Seq })
	for _, c := range comms {
		tl.Events = append(tl.Events, TimelineEvent{
			Type:          EventCommunication,
			Date:          c.Date,
			Title:         "Communication via " + c.Mode,
			Description:   c.Summary,
			ContactPerson: c.ContactPerson,
		})
	}

	for _, r := range app.Reminders {
		completed := r.IsCompleted
		past := r.DueDate.Before(now)
		tl.Events = append(tl.Events, TimelineEvent{
			Type:        EventReminder,
			Date:        r.DueDate,
			Title:       string(r.Type) + " reminder",
			Description: r.Note,
			IsCompleted: &completed,
			IsPast:      &past,
		})
	}

	sort.SliceStable(tl.Events, func(i, j int) bool {
		return tl.Events[i].Date.Before(tl.Events[j].Date)
	})
	return tl
}
