package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/jobtrack-backend/internal/analytics"
	"github.com/yungbote/jobtrack-backend/internal/data/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/data/repos"
	types "github.com/yungbote/jobtrack-backend/internal/domain"
	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

// AnalyticsService answers read queries over the acting user's applications.
type AnalyticsService interface {
	List(ctx context.Context, filter analytics.ListFilter, order analytics.Sort) ([]*types.Application, error)
	Reminders(ctx context.Context, filter analytics.ReminderFilter) ([]analytics.ReminderView, error)
	UpcomingReminders(ctx context.Context, daysAhead int) ([]analytics.ReminderView, error)
	Stats(ctx context.Context, period string) (analytics.Stats, error)
	Timeline(ctx context.Context, applicationID uuid.UUID) (analytics.Timeline, error)
	Dashboard(ctx context.Context) (analytics.Dashboard, error)
}

type AnalyticsServiceDeps struct {
	Log          *logger.Logger
	Users        repos.UserRepo
	Applications repos.ApplicationRepo
	Aggregate    domainagg.ApplicationAggregate
	Now          func() time.Time
}

type analyticsService struct {
	log   *logger.Logger
	users repos.UserRepo
	apps  repos.ApplicationRepo
	agg   domainagg.ApplicationAggregate
	now   func() time.Time

	loads singleflight.Group
}

// snapshot is one user's loaded state. Callers share it, so it is read-only.
type snapshot struct {
	user *types.User
	apps []*types.Application
}

func NewAnalyticsService(deps AnalyticsServiceDeps) AnalyticsService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &analyticsService{
		log:   log.With("service", "AnalyticsService"),
		users: deps.Users,
		apps:  deps.Applications,
		agg:   deps.Aggregate,
		now:   now,
	}
}

// load reads the user and their applications once for every concurrent caller
// asking about the same user.
func (s *analyticsService) load(ctx context.Context, op string) (*snapshot, error) {
	userID, err := actingUser(ctx, op)
	if err != nil {
		return nil, err
	}
	v, err, shared := s.loads.Do(userID.String(), func() (any, error) {
		dbc := dbctx.Context{Ctx: ctx}
		user, err := s.users.GetByID(dbc, userID)
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		if user == nil {
			return nil, domainagg.NotFound(op, "user not found")
		}
		apps, err := s.apps.ListByOwner(dbc, userID)
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		return &snapshot{user: user, apps: apps}, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Debug("collapsed concurrent load", "user_id", userID)
	}
	return v.(*snapshot), nil
}

func (s *analyticsService) List(ctx context.Context, filter analytics.ListFilter, order analytics.Sort) ([]*types.Application, error) {
	snap, err := s.load(ctx, "Analytics.List")
	if err != nil {
		return nil, err
	}
	return analytics.ListApplications(snap.apps, filter, order), nil
}

func (s *analyticsService) Reminders(ctx context.Context, filter analytics.ReminderFilter) ([]analytics.ReminderView, error) {
	snap, err := s.load(ctx, "Analytics.Reminders")
	if err != nil {
		return nil, err
	}
	return analytics.Reminders(snap.apps, s.now().UTC(), filter), nil
}

func (s *analyticsService) UpcomingReminders(ctx context.Context, daysAhead int) ([]analytics.ReminderView, error) {
	snap, err := s.load(ctx, "Analytics.UpcomingReminders")
	if err != nil {
		return nil, err
	}
	return analytics.UpcomingReminders(snap.apps, s.now().UTC(), daysAhead), nil
}

func (s *analyticsService) Stats(ctx context.Context, period string) (analytics.Stats, error) {
	p, err := analytics.ParsePeriod(period)
	if err != nil {
		return analytics.Stats{}, err
	}
	snap, err := s.load(ctx, "Analytics.Stats")
	if err != nil {
		return analytics.Stats{}, err
	}
	return analytics.ComputeStats(snap.apps, s.now().UTC(), p)
}

// Timeline goes through the aggregate so the ownership guard applies.
func (s *analyticsService) Timeline(ctx context.Context, applicationID uuid.UUID) (analytics.Timeline, error) {
	userID, err := actingUser(ctx, "Analytics.Timeline")
	if err != nil {
		return analytics.Timeline{}, err
	}
	app, err := s.agg.Get(ctx, applicationID, userID)
	if err != nil {
		return analytics.Timeline{}, err
	}
	return analytics.BuildTimeline(app, s.now().UTC()), nil
}

func (s *analyticsService) Dashboard(ctx context.Context) (analytics.Dashboard, error) {
	snap, err := s.load(ctx, "Analytics.Dashboard")
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return analytics.BuildDashboard(snap.apps, snap.user.Goal(), s.now().UTC()), nil
}
