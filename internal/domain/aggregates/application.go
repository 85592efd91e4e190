package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/jobtrack-backend/internal/domain/tracker"
)

var ApplicationAggregateContract = Contract{
	Name:             "Tracker.ApplicationAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns application profile, status history, communications and reminders. The owner reference set is written in a second step.",
}

// OwnershipGuard binds a user to the applications they may read or mutate.
// Authorize returns nil when allowed, CodeAccessDenied when the application
// exists outside the user's reference set and CodeNotFound when either the user
// or the application is unknown.
type OwnershipGuard interface {
	Authorize(ctx context.Context, userID, applicationID uuid.UUID) error
}

// ApplicationAggregate is the write boundary for one application and its
// history, communications and reminders. Every method except Create
// authorizes actingUserID before touching the application.
type ApplicationAggregate interface {
	Aggregate

	Create(ctx context.Context, actingUserID uuid.UUID, in tracker.ApplicationInput) (*tracker.Application, error)
	Get(ctx context.Context, applicationID, actingUserID uuid.UUID) (*tracker.Application, error)
	UpdateStatus(ctx context.Context, applicationID, actingUserID uuid.UUID, status string, note string) (*tracker.Application, error)
	UpdateDetails(ctx context.Context, applicationID, actingUserID uuid.UUID, patch tracker.ApplicationPatch) (*tracker.Application, error)
	Delete(ctx context.Context, applicationID, actingUserID uuid.UUID) error
	AddCommunication(ctx context.Context, applicationID, actingUserID uuid.UUID, in tracker.CommunicationInput) (*tracker.Application, error)
	SetNotes(ctx context.Context, applicationID, actingUserID uuid.UUID, notes string) (*tracker.Application, error)
	AddReminder(ctx context.Context, applicationID, actingUserID uuid.UUID, in tracker.ReminderInput) (*tracker.Application, error)
	SetReminderCompletion(ctx context.Context, applicationID, actingUserID, reminderID uuid.UUID, isCompleted bool) (*tracker.Application, error)
	DeleteReminder(ctx context.Context, applicationID, actingUserID, reminderID uuid.UUID) (*tracker.Application, error)
}
