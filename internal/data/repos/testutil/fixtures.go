package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, weeklyTarget, currentWeekCount int) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:               uuid.New(),
		WeeklyTarget:     weeklyTarget,
		CurrentWeekCount: currentWeekCount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedApplication inserts an owned application with its creation history entry
// and registers it in the owner's reference set.
func SeedApplication(tb testing.TB, ctx context.Context, tx *gorm.DB, owner uuid.UUID, company string, status types.Status, createdAt time.Time) *types.Application {
	tb.Helper()
	createdAt = createdAt.UTC()
	app := &types.Application{
		ID:            uuid.New(),
		OwnerUserID:   owner,
		JobTitle:      "Engineer",
		Company:       company,
		CurrentStatus: status,
		AppliedAt:     &createdAt,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if err := tx.WithContext(ctx).Omit("StatusHistory", "Communications", "Reminders").Create(app).Error; err != nil {
		tb.Fatalf("seed application: %v", err)
	}
	entry := &types.StatusHistoryEntry{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		Seq:           1,
		Status:        status,
		UpdatedAt:     createdAt,
		UpdatedBy:     owner,
		Note:          "Application created",
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		tb.Fatalf("seed history: %v", err)
	}
	app.StatusHistory = []types.StatusHistoryEntry{*entry}

	var maxPos int64
	tx.WithContext(ctx).Model(&types.UserApplication{}).Where("user_id = ?", owner).Select("COALESCE(MAX(position), 0)").Scan(&maxPos)
	ref := &types.UserApplication{UserID: owner, ApplicationID: app.ID, Position: maxPos + 1, CreatedAt: createdAt}
	if err := tx.WithContext(ctx).Create(ref).Error; err != nil {
		tb.Fatalf("seed reference: %v", err)
	}
	return app
}

func SeedReminder(tb testing.TB, ctx context.Context, tx *gorm.DB, applicationID uuid.UUID, kind types.ReminderType, due time.Time, completed bool) *types.Reminder {
	tb.Helper()
	r := &types.Reminder{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Type:          kind,
		DueDate:       due.UTC(),
		IsCompleted:   completed,
		CreatedAt:     time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed reminder: %v", err)
	}
	return r
}

// ReferenceIDs reads the user's reference set in scan order.
func ReferenceIDs(tb testing.TB, tx *gorm.DB, userID uuid.UUID) []uuid.UUID {
	tb.Helper()
	var ids []uuid.UUID
	if err := tx.Model(&types.UserApplication{}).
		Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Pluck("application_id", &ids).Error; err != nil {
		tb.Fatalf("read reference set: %v", err)
	}
	return ids
}

// CountRows counts rows of model belonging to one application.
func CountRows(tb testing.TB, tx *gorm.DB, model any, applicationID uuid.UUID) int64 {
	tb.Helper()
	var n int64
	if err := tx.Model(model).Where("application_id = ?", applicationID).Count(&n).Error; err != nil {
		tb.Fatalf("count rows: %v", err)
	}
	return n
}

func PtrTime(v time.Time) *time.Time { return &v }
