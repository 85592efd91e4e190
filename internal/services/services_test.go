package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrack-backend/internal/analytics"
	"github.com/yungbote/jobtrack-backend/internal/data/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/data/repos"
	repotest "github.com/yungbote/jobtrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/jobtrack-backend/internal/domain"
	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/observability"
	"github.com/yungbote/jobtrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

type harness struct {
	db        *gorm.DB
	now       time.Time
	users     repos.UserRepo
	reminders repos.ReminderRepo
	apps      ApplicationService
	analytics AnalyticsService
	userSvc   UserService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := repotest.DB(t)
	log := logger.Nop()
	h := &harness{
		db:        db,
		now:       time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		users:     repos.NewUserRepo(db, log),
		reminders: repos.NewReminderRepo(db, log),
	}
	clock := func() time.Time { return h.now }
	appRepo := repos.NewApplicationRepo(db, log)
	agg := aggregates.NewApplicationAggregate(aggregates.ApplicationAggregateDeps{
		Base:           aggregates.BaseDeps{DB: db, Log: log},
		Users:          h.users,
		Refs:           repos.NewUserApplicationRepo(db, log),
		Applications:   appRepo,
		History:        repos.NewStatusHistoryRepo(db, log),
		Communications: repos.NewCommunicationRepo(db, log),
		Reminders:      h.reminders,
		Now:            clock,
	})
	h.apps = NewApplicationService(log, agg)
	h.analytics = NewAnalyticsService(AnalyticsServiceDeps{
		Log: log, Users: h.users, Applications: appRepo, Aggregate: agg, Now: clock,
	})
	h.userSvc = NewUserService(log, h.users, true)
	return h
}

func as(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

func intPtr(v int) *int { return &v }

func TestServicesRequireActingUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.apps.Create(ctx, types.ApplicationInput{JobTitle: "Engineer", Company: "Acme"})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeUnauthenticated))
	_, err = h.analytics.Dashboard(ctx)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeUnauthenticated))
	_, err = h.userSvc.GetGoals(ctx)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeUnauthenticated))
}

func TestApplicationFlowThroughServices(t *testing.T) {
	h := newHarness(t)
	user := repotest.SeedUser(t, context.Background(), h.db, 4, 1)
	ctx := as(user.ID)

	app, err := h.apps.Create(ctx, types.ApplicationInput{JobTitle: "Engineer", Company: "Acme"})
	require.NoError(t, err)

	_, err = h.apps.UpdateStatus(ctx, app.ID, "interview scheduled", "")
	require.NoError(t, err)
	_, err = h.apps.AddCommunication(ctx, app.ID, types.CommunicationInput{Mode: "email", Summary: "scheduled"})
	require.NoError(t, err)
	withReminder, err := h.apps.AddReminder(ctx, app.ID, types.ReminderInput{
		Type: "interview", DueDate: repotest.PtrTime(h.now.Add(48 * time.Hour)),
	})
	require.NoError(t, err)
	require.Len(t, withReminder.Reminders, 1)

	list, err := h.analytics.List(ctx, analytics.ListFilter{Status: "interview scheduled"}, analytics.DefaultSort)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, app.ID, list[0].ID)

	upcoming, err := h.analytics.UpcomingReminders(ctx, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Acme", upcoming[0].Company)

	tl, err := h.analytics.Timeline(ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, tl.Events, 4)

	dash, err := h.analytics.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.InterviewsScheduled)
	assert.Equal(t, analytics.GoalProgress{Target: 4, Current: 1, Progress: 25}, dash.WeeklyGoal)

	stats, err := h.analytics.Stats(ctx, "week")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalApplications)
	assert.Equal(t, 100.0, stats.InterviewRate)

	_, err = h.analytics.Stats(ctx, "fortnight")
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	require.NoError(t, h.apps.Delete(ctx, app.ID))
	list, err = h.analytics.List(ctx, analytics.ListFilter{}, analytics.DefaultSort)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTimelineIsGuarded(t *testing.T) {
	h := newHarness(t)
	owner := repotest.SeedUser(t, context.Background(), h.db, 0, 0)
	other := repotest.SeedUser(t, context.Background(), h.db, 0, 0)

	app, err := h.apps.Create(as(owner.ID), types.ApplicationInput{JobTitle: "Engineer", Company: "Acme"})
	require.NoError(t, err)

	_, err = h.analytics.Timeline(as(other.ID), app.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeAccessDenied))
	_, err = h.apps.Get(as(other.ID), app.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeAccessDenied))
}

func TestAnalyticsUnknownUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.analytics.Dashboard(as(uuid.New()))
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
}

func TestUserGoals(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()
	require.NoError(t, h.userSvc.EnsureProvisioned(context.Background(), userID))
	require.NoError(t, h.userSvc.EnsureProvisioned(context.Background(), userID))

	goal, err := h.userSvc.GetGoals(as(userID))
	require.NoError(t, err)
	assert.Equal(t, types.WeeklyGoal{}, goal)

	goal, err = h.userSvc.UpdateGoals(as(userID), GoalsUpdate{WeeklyTarget: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, types.WeeklyGoal{WeeklyTarget: 10}, goal)

	goal, err = h.userSvc.UpdateGoals(as(userID), GoalsUpdate{CurrentWeekCount: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, types.WeeklyGoal{WeeklyTarget: 10, CurrentWeekCount: 3}, goal)

	_, err = h.userSvc.UpdateGoals(as(userID), GoalsUpdate{WeeklyTarget: intPtr(-1)})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	_, err = h.userSvc.GetGoals(as(uuid.New()))
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
}

func TestProvisioningDisabled(t *testing.T) {
	h := newHarness(t)
	svc := NewUserService(logger.Nop(), h.users, false)
	userID := uuid.New()
	require.NoError(t, svc.EnsureProvisioned(context.Background(), userID))
	exists, err := h.users.Exists(dbctx.Context{Ctx: context.Background()}, userID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAuthServiceVerifiesToken(t *testing.T) {
	h := newHarness(t)
	auth, err := NewAuthService(logger.Nop(), "secret", h.userSvc)
	require.NoError(t, err)

	userID := uuid.New()
	signed := signToken(t, "secret", userID.String(), time.Now().Add(time.Hour))
	ctx, err := auth.SetContextFromToken(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, userID, ctxutil.UserID(ctx))

	exists, err := h.users.Exists(dbctx.Context{Ctx: context.Background()}, userID)
	require.NoError(t, err)
	assert.True(t, exists, "verified user should be provisioned")

	_, err = auth.SetContextFromToken(context.Background(), signToken(t, "other", userID.String(), time.Now().Add(time.Hour)))
	assert.Error(t, err)
	_, err = auth.SetContextFromToken(context.Background(), signToken(t, "secret", userID.String(), time.Now().Add(-time.Hour)))
	assert.Error(t, err)
	_, err = auth.SetContextFromToken(context.Background(), signToken(t, "secret", "not-a-uuid", time.Now().Add(time.Hour)))
	assert.Error(t, err)
	_, err = auth.SetContextFromToken(context.Background(), "")
	assert.Error(t, err)

	_, err = NewAuthService(logger.Nop(), " ", nil)
	assert.Error(t, err)
}

type capturePublisher struct {
	payloads []any
	fail     bool
}

func (p *capturePublisher) Publish(_ context.Context, payload any) error {
	if p.fail {
		return errors.New("publish failed")
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestReminderDigestRunOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := repotest.SeedUser(t, ctx, h.db, 0, 0)
	bob := repotest.SeedUser(t, ctx, h.db, 0, 0)
	aliceApp := repotest.SeedApplication(t, ctx, h.db, alice.ID, "Acme", types.StatusApplied, h.now)
	bobApp := repotest.SeedApplication(t, ctx, h.db, bob.ID, "Globex", types.StatusApplied, h.now)

	later := repotest.SeedReminder(t, ctx, h.db, aliceApp.ID, types.ReminderFollowUp, h.now.Add(20*time.Hour), false)
	sooner := repotest.SeedReminder(t, ctx, h.db, aliceApp.ID, types.ReminderInterview, h.now.Add(2*time.Hour), false)
	repotest.SeedReminder(t, ctx, h.db, aliceApp.ID, types.ReminderFollowUp, h.now.Add(3*time.Hour), true)
	repotest.SeedReminder(t, ctx, h.db, bobApp.ID, types.ReminderFollowUp, h.now.Add(30*time.Hour), false)
	repotest.SeedReminder(t, ctx, h.db, bobApp.ID, types.ReminderFollowUp, h.now.Add(-time.Hour), false)

	pub := &capturePublisher{}
	m := observability.New()
	digest, err := NewReminderDigest(ReminderDigestConfig{}, ReminderDigestDeps{
		Reminders: h.reminders,
		Publisher: pub,
		Metrics:   m,
		Now:       func() time.Time { return h.now },
	})
	require.NoError(t, err)

	sent, err := digest.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, pub.payloads, 1)

	dg := pub.payloads[0].(Digest)
	assert.Equal(t, alice.ID, dg.UserID)
	require.Len(t, dg.Reminders, 2)
	assert.Equal(t, sooner.ID, dg.Reminders[0].ReminderID)
	assert.Equal(t, later.ID, dg.Reminders[1].ReminderID)
	assert.Equal(t, "Acme", dg.Reminders[0].Company)

	pub.fail = true
	_, err = digest.RunOnce(ctx)
	assert.Error(t, err)
}

func TestReminderDigestLogsWithoutPublisher(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := repotest.SeedUser(t, ctx, h.db, 0, 0)
	app := repotest.SeedApplication(t, ctx, h.db, user.ID, "Acme", types.StatusApplied, h.now)
	repotest.SeedReminder(t, ctx, h.db, app.ID, types.ReminderFollowUp, h.now.Add(time.Hour), false)

	digest, err := NewReminderDigest(ReminderDigestConfig{Window: 2 * time.Hour}, ReminderDigestDeps{
		Reminders: h.reminders,
		Now:       func() time.Time { return h.now },
	})
	require.NoError(t, err)
	sent, err := digest.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestReminderDigestRejectsBadSchedule(t *testing.T) {
	h := newHarness(t)
	_, err := NewReminderDigest(ReminderDigestConfig{Schedule: "every tuesday"}, ReminderDigestDeps{Reminders: h.reminders})
	assert.Error(t, err)
	_, err = NewReminderDigest(ReminderDigestConfig{}, ReminderDigestDeps{})
	assert.Error(t, err)
}

func signToken(t *testing.T, secret, subject string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
