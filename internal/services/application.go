package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

// ApplicationService resolves the acting user from the request context and
// delegates to the application aggregate.
type ApplicationService interface {
	Create(ctx context.Context, in types.ApplicationInput) (*types.Application, error)
	Get(ctx context.Context, applicationID uuid.UUID) (*types.Application, error)
	UpdateStatus(ctx context.Context, applicationID uuid.UUID, status, note string) (*types.Application, error)
	UpdateDetails(ctx context.Context, applicationID uuid.UUID, patch types.ApplicationPatch) (*types.Application, error)
	Delete(ctx context.Context, applicationID uuid.UUID) error
	AddCommunication(ctx context.Context, applicationID uuid.UUID, in types.CommunicationInput) (*types.Application, error)
	SetNotes(ctx context.Context, applicationID uuid.UUID, notes string) (*types.Application, error)
	AddReminder(ctx context.Context, applicationID uuid.UUID, in types.ReminderInput) (*types.Application, error)
	SetReminderCompletion(ctx context.Context, applicationID, reminderID uuid.UUID, isCompleted bool) (*types.Application, error)
	DeleteReminder(ctx context.Context, applicationID, reminderID uuid.UUID) (*types.Application, error)
}

type applicationService struct {
	log *logger.Logger
	agg domainagg.ApplicationAggregate
}

func NewApplicationService(log *logger.Logger, agg domainagg.ApplicationAggregate) ApplicationService {
	return &applicationService{log: log.With("service", "ApplicationService"), agg: agg}
}

func (s *applicationService) Create(ctx context.Context, in types.ApplicationInput) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.Create")
	if err != nil {
		return nil, err
	}
	app, err := s.agg.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.log.Debug("application created", "application_id", app.ID, "user_id", userID)
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, applicationID uuid.UUID) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.Get")
	if err != nil {
		return nil, err
	}
	return s.agg.Get(ctx, applicationID, userID)
}

func (s *applicationService) UpdateStatus(ctx context.Context, applicationID uuid.UUID, status, note string) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.UpdateStatus")
	if err != nil {
		return nil, err
	}
	return s.agg.UpdateStatus(ctx, applicationID, userID, status, note)
}

func (s *applicationService) UpdateDetails(ctx context.Context, applicationID uuid.UUID, patch types.ApplicationPatch) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.UpdateDetails")
	if err != nil {
		return nil, err
	}
	return s.agg.UpdateDetails(ctx, applicationID, userID, patch)
}

func (s *applicationService) Delete(ctx context.Context, applicationID uuid.UUID) error {
	userID, err := actingUser(ctx, "ApplicationService.Delete")
	if err != nil {
		return err
	}
	if err := s.agg.Delete(ctx, applicationID, userID); err != nil {
		return err
	}
	s.log.Debug("application deleted", "application_id", applicationID, "user_id", userID)
	return nil
}

func (s *applicationService) AddCommunication(ctx context.Context, applicationID uuid.UUID, in types.CommunicationInput) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.AddCommunication")
	if err != nil {
		return nil, err
	}
	return s.agg.AddCommunication(ctx, applicationID, userID, in)
}

func (s *applicationService) SetNotes(ctx context.Context, applicationID uuid.UUID, notes string) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.SetNotes")
	if err != nil {
		return nil, err
	}
	return s.agg.SetNotes(ctx, applicationID, userID, notes)
}

func (s *applicationService) AddReminder(ctx context.Context, applicationID uuid.UUID, in types.ReminderInput) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.AddReminder")
	if err != nil {
		return nil, err
	}
	return s.agg.AddReminder(ctx, applicationID, userID, in)
}

func (s *applicationService) SetReminderCompletion(ctx context.Context, applicationID, reminderID uuid.UUID, isCompleted bool) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.SetReminderCompletion")
	if err != nil {
		return nil, err
	}
	return s.agg.SetReminderCompletion(ctx, applicationID, userID, reminderID, isCompleted)
}

func (s *applicationService) DeleteReminder(ctx context.Context, applicationID, reminderID uuid.UUID) (*types.Application, error) {
	userID, err := actingUser(ctx, "ApplicationService.DeleteReminder")
	if err != nil {
		return nil, err
	}
	return s.agg.DeleteReminder(ctx, applicationID, userID, reminderID)
}
