package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/jobtrack-backend/internal/domain"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	testutil.Dialects(t, func(t *testing.T, db *gorm.DB) {
		ctx := context.Background()
		dbc := dbctx.Context{Ctx: ctx}
		repo := NewUserRepo(db, testutil.Logger(t))

		id := uuid.New()
		got, err := repo.GetByID(dbc, id)
		if err != nil {
			t.Fatalf("GetByID (missing): %v", err)
		}
		if got != nil {
			t.Fatalf("GetByID (missing): expected nil, got %+v", got)
		}

		if err := repo.EnsureExists(dbc, id); err != nil {
			t.Fatalf("EnsureExists: %v", err)
		}
		if err := repo.EnsureExists(dbc, id); err != nil {
			t.Fatalf("EnsureExists (second call): %v", err)
		}
		if err := repo.UpdateGoal(dbc, id, types.WeeklyGoal{WeeklyTarget: 5, CurrentWeekCount: 2}); err != nil {
			t.Fatalf("UpdateGoal: %v", err)
		}
		got, err = repo.GetByID(dbc, id)
		if err != nil || got == nil {
			t.Fatalf("GetByID: %v %+v", err, got)
		}
		if got.WeeklyTarget != 5 || got.CurrentWeekCount != 2 {
			t.Fatalf("unexpected goal: %+v", got.Goal())
		}
		if err := repo.UpdateGoal(dbc, uuid.New(), types.WeeklyGoal{WeeklyTarget: 1}); err == nil {
			t.Fatalf("UpdateGoal (missing): expected error")
		}
	})
}

func TestUserApplicationRepoKeepsInsertionOrder(t *testing.T) {
	testutil.Dialects(t, func(t *testing.T, db *gorm.DB) {
		ctx := context.Background()
		dbc := dbctx.Context{Ctx: ctx}
		repo := NewUserApplicationRepo(db, testutil.Logger(t))

		user := uuid.New()
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		for _, id := range ids {
			if err := repo.Add(dbc, user, id); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}
		if err := repo.Add(dbc, user, ids[0]); err != nil {
			t.Fatalf("Add (duplicate): %v", err)
		}

		listed := testutil.ReferenceIDs(t, db, user)
		if len(listed) != 3 {
			t.Fatalf("expected 3 ids, got %d", len(listed))
		}
		for i := range ids {
			if listed[i] != ids[i] {
				t.Fatalf("order mismatch at %d: %s != %s", i, listed[i], ids[i])
			}
		}

		ok, err := repo.Contains(dbc, user, ids[1])
		if err != nil || !ok {
			t.Fatalf("Contains: %v %v", ok, err)
		}
		ok, err = repo.Contains(dbc, uuid.New(), ids[1])
		if err != nil || ok {
			t.Fatalf("Contains (other user): %v %v", ok, err)
		}

		removed, err := repo.Remove(dbc, user, ids[1])
		if err != nil || !removed {
			t.Fatalf("Remove: %v %v", removed, err)
		}
		removed, err = repo.Remove(dbc, user, ids[1])
		if err != nil || removed {
			t.Fatalf("Remove (again): %v %v", removed, err)
		}
	})
}

func TestApplicationRepoLoadListDelete(t *testing.T) {
	testutil.Dialects(t, func(t *testing.T, db *gorm.DB) {
		ctx := context.Background()
		dbc := dbctx.Context{Ctx: ctx}
		log := testutil.Logger(t)
		apps := NewApplicationRepo(db, log)
		history := NewStatusHistoryRepo(db, log)
		comms := NewCommunicationRepo(db, log)

		user := testutil.SeedUser(t, ctx, db, 0, 0)
		first := testutil.SeedApplication(t, ctx, db, user.ID, "Acme", types.StatusApplied, time.Now().Add(-time.Hour))
		second := testutil.SeedApplication(t, ctx, db, user.ID, "Globex", types.StatusApplied, time.Now())

		if err := history.Append(dbc, &types.StatusHistoryEntry{
			ApplicationID: first.ID,
			Seq:           2,
			Status:        types.StatusUnderReview,
			UpdatedAt:     time.Now().UTC(),
			UpdatedBy:     user.ID,
			Note:          "recruiter replied",
		}); err != nil {
			t.Fatalf("Append history: %v", err)
		}
		if err := history.Append(dbc, &types.StatusHistoryEntry{
			ApplicationID: first.ID,
			Seq:           2,
			Status:        types.StatusRejected,
			UpdatedAt:     time.Now().UTC(),
			UpdatedBy:     user.ID,
		}); err == nil {
			t.Fatalf("Append history with duplicate seq: expected unique violation")
		}
		if err := comms.Append(dbc, &types.Communication{
			ApplicationID: first.ID,
			Seq:           1,
			Date:          time.Now().UTC(),
			Mode:          "email",
		}); err != nil {
			t.Fatalf("Append communication: %v", err)
		}

		loaded, err := apps.GetByID(dbc, first.ID, true)
		if err != nil || loaded == nil {
			t.Fatalf("GetByID: %v %+v", err, loaded)
		}
		if len(loaded.StatusHistory) != 2 || loaded.StatusHistory[1].Note != "recruiter replied" {
			t.Fatalf("unexpected history: %+v", loaded.StatusHistory)
		}
		if len(loaded.Communications) != 1 {
			t.Fatalf("unexpected communications: %+v", loaded.Communications)
		}

		listed, err := apps.ListByOwner(dbc, user.ID)
		if err != nil {
			t.Fatalf("ListByOwner: %v", err)
		}
		if len(listed) != 2 || listed[0].ID != first.ID || listed[1].ID != second.ID {
			t.Fatalf("unexpected listing order: %+v", listed)
		}

		deleted, err := apps.Delete(dbc, first.ID)
		if err != nil || !deleted {
			t.Fatalf("Delete: %v %v", deleted, err)
		}
		deleted, err = apps.Delete(dbc, first.ID)
		if err != nil || deleted {
			t.Fatalf("Delete (again): %v %v", deleted, err)
		}
		for _, child := range []any{&types.StatusHistoryEntry{}, &types.Communication{}} {
			if n := testutil.CountRows(t, db, child, first.ID); n != 0 {
				t.Fatalf("%T rows left after delete: %d", child, n)
			}
		}
	})
}

func TestReminderRepo(t *testing.T) {
	testutil.Dialects(t, func(t *testing.T, db *gorm.DB) {
		ctx := context.Background()
		dbc := dbctx.Context{Ctx: ctx}
		repo := NewReminderRepo(db, testutil.Logger(t))

		user := testutil.SeedUser(t, ctx, db, 0, 0)
		app := testutil.SeedApplication(t, ctx, db, user.ID, "Acme", types.StatusApplied, time.Now())
		now := time.Now().UTC()

		soon := &types.Reminder{ApplicationID: app.ID, Type: types.ReminderFollowUp, DueDate: now.Add(2 * time.Hour), CreatedAt: now}
		later := &types.Reminder{ApplicationID: app.ID, Type: types.ReminderInterview, DueDate: now.Add(72 * time.Hour), CreatedAt: now}
		for _, r := range []*types.Reminder{soon, later} {
			if err := repo.Create(dbc, r); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}

		for i := 0; i < 2; i++ {
			found, err := repo.SetCompletion(dbc, app.ID, soon.ID, true)
			if err != nil || !found {
				t.Fatalf("SetCompletion #%d: %v %v", i, found, err)
			}
		}
		found, err := repo.SetCompletion(dbc, app.ID, uuid.New(), true)
		if err != nil || found {
			t.Fatalf("SetCompletion (missing): %v %v", found, err)
		}
		found, err = repo.SetCompletion(dbc, uuid.New(), soon.ID, true)
		if err != nil || found {
			t.Fatalf("SetCompletion (other application): %v %v", found, err)
		}

		due, err := repo.ListOpenDueBetween(dbc, now, now.Add(96*time.Hour))
		if err != nil {
			t.Fatalf("ListOpenDueBetween: %v", err)
		}
		if len(due) != 1 || due[0].ReminderID != later.ID || due[0].OwnerUserID != user.ID || due[0].Company != "Acme" {
			t.Fatalf("unexpected due reminders: %+v", due)
		}

		deleted, err := repo.Delete(dbc, app.ID, later.ID)
		if err != nil || !deleted {
			t.Fatalf("Delete: %v %v", deleted, err)
		}
		deleted, err = repo.Delete(dbc, app.ID, later.ID)
		if err != nil || deleted {
			t.Fatalf("Delete (absent): %v %v", deleted, err)
		}
	})
}

func TestApplicationRepoForUpdateHoldsRowLock(t *testing.T) {
	db := testutil.PostgresDB(t)
	ctx := context.Background()
	apps := NewApplicationRepo(db, testutil.Logger(t))
	user := testutil.SeedUser(t, ctx, db, 0, 0)
	app := testutil.SeedApplication(t, ctx, db, user.ID, "Acme", types.StatusApplied, time.Now())

	err := db.Transaction(func(tx *gorm.DB) error {
		held, err := apps.GetByID(dbctx.Context{Ctx: ctx, Tx: tx}, app.ID, true)
		if err != nil || held == nil {
			t.Fatalf("GetByID (holder): %v %+v", err, held)
		}

		blocked := make(chan error, 1)
		go func() {
			blocked <- db.Transaction(func(other *gorm.DB) error {
				if err := other.Exec("SET LOCAL lock_timeout = '200ms'").Error; err != nil {
					return err
				}
				_, err := apps.GetByID(dbctx.Context{Ctx: ctx, Tx: other}, app.ID, true)
				return err
			})
		}()
		lockErr := <-blocked

		var pgErr *pgconn.PgError
		if !errors.As(lockErr, &pgErr) || pgErr.Code != "55P03" {
			t.Fatalf("second locker: want lock_not_available, got %v", lockErr)
		}

		// Plain reads are not blocked by the row lock.
		if _, err := apps.GetByID(dbctx.Context{Ctx: ctx}, app.ID, false); err != nil {
			t.Fatalf("GetByID (reader): %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("holder tx: %v", err)
	}
}
