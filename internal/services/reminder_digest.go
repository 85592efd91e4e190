package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/yungbote/jobtrack-backend/internal/data/repos"
	types "github.com/yungbote/jobtrack-backend/internal/domain"
	"github.com/yungbote/jobtrack-backend/internal/observability"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

const (
	DefaultDigestSchedule = "@hourly"
	DefaultDigestWindow   = 24 * time.Hour
)

// DigestPublisher delivers one digest. The Redis publisher satisfies it.
type DigestPublisher interface {
	Publish(ctx context.Context, payload any) error
}

type DigestItem struct {
	ReminderID    uuid.UUID          `json:"reminder_id"`
	ApplicationID uuid.UUID          `json:"application_id"`
	JobTitle      string             `json:"job_title"`
	Company       string             `json:"company"`
	Type          types.ReminderType `json:"type"`
	DueDate       time.Time          `json:"due_date"`
	Note          string             `json:"note,omitempty"`
}

// Digest lists one user's open reminders due inside the window, soonest first.
type Digest struct {
	UserID      uuid.UUID    `json:"user_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	WindowEnd   time.Time    `json:"window_end"`
	Reminders   []DigestItem `json:"reminders"`
}

type ReminderDigestConfig struct {
	Schedule string
	Window   time.Duration
}

type ReminderDigestDeps struct {
	Log       *logger.Logger
	Reminders repos.ReminderRepo
	// Publisher is optional; without it digests are logged.
	Publisher DigestPublisher
	Metrics   *observability.Metrics
	Now       func() time.Time
}

type ReminderDigest struct {
	log       *logger.Logger
	reminders repos.ReminderRepo
	publisher DigestPublisher
	metrics   *observability.Metrics
	now       func() time.Time
	schedule  string
	window    time.Duration
}

func NewReminderDigest(cfg ReminderDigestConfig, deps ReminderDigestDeps) (*ReminderDigest, error) {
	if deps.Reminders == nil {
		return nil, fmt.Errorf("reminder repo required")
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	schedule := strings.TrimSpace(cfg.Schedule)
	if schedule == "" {
		schedule = DefaultDigestSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("reminder digest schedule %q: %w", schedule, err)
	}
	window := cfg.Window
	if window <= 0 {
		window = DefaultDigestWindow
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReminderDigest{
		log:       log.With("service", "ReminderDigest"),
		reminders: deps.Reminders,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		now:       now,
		schedule:  schedule,
		window:    window,
	}, nil
}

// Start runs the digest on its schedule until ctx is cancelled.
func (d *ReminderDigest) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(d.schedule, func() {
		if _, err := d.RunOnce(ctx); err != nil {
			d.log.Warn("reminder digest run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule reminder digest: %w", err)
	}
	c.Start()
	d.log.Info("reminder digest scheduled", "schedule", d.schedule, "window", d.window.String())
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}

// RunOnce publishes one digest per user with open reminders due in
// [now, now+window] and returns how many reminders were included.
func (d *ReminderDigest) RunOnce(ctx context.Context) (int, error) {
	now := d.now().UTC()
	end := now.Add(d.window)

	due, err := d.reminders.ListOpenDueBetween(dbctx.Context{Ctx: ctx}, now, end)
	if err != nil {
		d.metrics.ObserveDigestRun("error", 0)
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	digests := groupDigests(due, now, end)
	sent := 0
	var firstErr error
	for _, dg := range digests {
		if d.publisher == nil {
			d.log.Info("reminder digest", "user_id", dg.UserID, "reminders", len(dg.Reminders), "window_end", end)
			sent += len(dg.Reminders)
			continue
		}
		if err := d.publisher.Publish(ctx, dg); err != nil {
			d.log.Warn("reminder digest publish failed", "user_id", dg.UserID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent += len(dg.Reminders)
	}

	status := "ok"
	if firstErr != nil {
		status = "error"
	}
	d.metrics.ObserveDigestRun(status, sent)
	return sent, firstErr
}

func groupDigests(due []repos.DueReminder, now, end time.Time) []Digest {
	byUser := map[uuid.UUID]*Digest{}
	var order []uuid.UUID
	for _, r := range due {
		dg, ok := byUser[r.OwnerUserID]
		if !ok {
			dg = &Digest{UserID: r.OwnerUserID, GeneratedAt: now, WindowEnd: end}
			byUser[r.OwnerUserID] = dg
			order = append(order, r.OwnerUserID)
		}
		dg.Reminders = append(dg.Reminders, DigestItem{
			ReminderID:    r.ReminderID,
			ApplicationID: r.ApplicationID,
			JobTitle:      r.JobTitle,
			Company:       r.Company,
			Type:          r.Type,
			DueDate:       r.DueDate,
			Note:          r.Note,
		})
	}
	out := make([]Digest, 0, len(order))
	for _, id := range order {
		dg := byUser[id]
		sort.SliceStable(dg.Reminders, func(i, j int) bool {
			return dg.Reminders[i].DueDate.Before(dg.Reminders[j].DueDate)
		})
		out = append(out, *dg)
	}
	return out
}
