package aggregates

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/jobtrack-backend/internal/data/repos"
	types "github.com/yungbote/jobtrack-backend/internal/domain"
	domainagg "github.com/yungbote/jobtrack-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

const applicationsTable = "applications"

type ApplicationAggregateDeps struct {
	Base BaseDeps

	Users          repos.UserRepo
	Refs           repos.UserApplicationRepo
	Applications   repos.ApplicationRepo
	History        repos.StatusHistoryRepo
	Communications repos.CommunicationRepo
	Reminders      repos.ReminderRepo

	// Guard defaults to the reference-set guard over Users and Refs.
	Guard domainagg.OwnershipGuard
	Now   func() time.Time
}

type applicationAggregate struct {
	deps ApplicationAggregateDeps
}

func NewApplicationAggregate(deps ApplicationAggregateDeps) domainagg.ApplicationAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "ApplicationAggregate")
	if deps.Guard == nil {
		deps.Guard = NewOwnershipGuard(deps.Users, deps.Refs, deps.Applications)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &applicationAggregate{deps: deps}
}

func (a *applicationAggregate) Contract() domainagg.Contract {
	return domainagg.ApplicationAggregateContract
}

func (a *applicationAggregate) now() time.Time {
	return a.deps.Now().UTC()
}

func (a *applicationAggregate) Create(ctx context.Context, actingUserID uuid.UUID, in types.ApplicationInput) (*types.Application, error) {
	const op = "Tracker.Application.Create"
	if actingUserID == uuid.Nil {
		return nil, domainagg.Validation(op, "missing user id")
	}
	jobTitle := strings.TrimSpace(in.JobTitle)
	company := strings.TrimSpace(in.Company)
	if jobTitle == "" || company == "" {
		return nil, domainagg.Validation(op, "job title and company are required")
	}
	status := types.StatusApplied
	if strings.TrimSpace(in.CurrentStatus) != "" {
		parsed, ok := types.ParseStatus(in.CurrentStatus)
		if !ok {
			return nil, domainagg.Validation(op, "invalid status")
		}
		status = parsed
	}
	prep, err := marshalOptional(in.InterviewPrep)
	if err != nil {
		return nil, domainagg.Validation(op, "invalid interview prep")
	}
	var tips datatypes.JSON
	if in.ImprovementTips != nil {
		if tips, err = marshalOptional(&in.ImprovementTips); err != nil {
			return nil, domainagg.Validation(op, "invalid improvement tips")
		}
	}

	now := a.now()
	app := &types.Application{
		ID:                   uuid.New(),
		OwnerUserID:          actingUserID,
		JobTitle:             jobTitle,
		Company:              company,
		Location:             strings.TrimSpace(in.Location),
		JobLink:              strings.TrimSpace(in.JobLink),
		JobDescription:       in.JobDescription,
		CurrentStatus:        status,
		Notes:                in.Notes,
		ResumeFeedback:       in.ResumeFeedback,
		CoverLetterGenerated: in.CoverLetterGenerated,
		InterviewPrep:        prep,
		SuccessScore:         in.SuccessScore,
		ImprovementTips:      tips,
		AppliedAt:            &now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	entry := types.StatusHistoryEntry{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		Seq:           1,
		Status:        status,
		UpdatedAt:     now,
		UpdatedBy:     actingUserID,
		Note:          types.NoteApplicationCreated,
	}

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		exists, err := a.deps.Users.Exists(dbc, actingUserID)
		if err != nil {
			return err
		}
		if !exists {
			return domainagg.NotFound(op, "user not found")
		}
		if err := a.deps.Applications.Create(dbc, app); err != nil {
			return err
		}
		return a.deps.History.Append(dbc, &entry)
	})
	if err != nil {
		return nil, err
	}

	// Second step: the owner's reference set. Undo the first step if it fails.
	regErr := executeWrite(ctx, a.deps.Base, op+".Register", func(dbc dbctx.Context) error {
		return a.deps.Refs.Add(dbc, actingUserID, app.ID)
	})
	if regErr != nil {
		compErr := executeWrite(ctx, a.deps.Base, op+".Compensate", func(dbc dbctx.Context) error {
			_, err := a.deps.Applications.Delete(dbc, app.ID)
			return err
		})
		if compErr != nil {
			return nil, a.consistencyRisk(op, actingUserID, app.ID,
				"application was created but could not be linked to its owner",
				errors.Join(regErr, compErr))
		}
		return nil, regErr
	}

	app.StatusHistory = []types.StatusHistoryEntry{entry}
	app.Communications = []types.Communication{}
	app.Reminders = []types.Reminder{}
	a.deps.Base.Log.Debug("application created", "application_id", app.ID, "user_id", actingUserID)
	return app, nil
}

func (a *applicationAggregate) Get(ctx context.Context, applicationID, actingUserID uuid.UUID) (*types.Application, error) {
	const op = "Tracker.Application.Get"
	if err := a.authorize(ctx, op, actingUserID, applicationID); err != nil {
		return nil, err
	}
	app, err := a.deps.Applications.GetByID(dbctx.Context{Ctx: ctx}, applicationID, false)
	if err != nil {
		return nil, MapError(op, err)
	}
	if app == nil {
		return nil, domainagg.NotFound(op, "application not found")
	}
	return app, nil
}

func (a *applicationAggregate) UpdateStatus(ctx context.Context, applicationID, actingUserID uuid.UUID, status string, note string) (*types.Application, error) {
	const op = "Tracker.Application.UpdateStatus"
	next, ok := types.ParseStatus(status)
	if !ok {
		return nil, domainagg.Validation(op, "invalid status")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		note = types.DefaultStatusNote(next)
	}
	return a.mutate(ctx, op, applicationID, actingUserID, func(dbc dbctx.Context, app *types.Application, now time.Time) (map[string]any, error) {
		entry := &types.StatusHistoryEntry{
			ApplicationID: app.ID,
			Seq:           nextHistorySeq(app.StatusHistory),
			Status:        next,
			UpdatedAt:     now,
			UpdatedBy:     actingUserID,
			Note:          note,
		}
		if err := a.deps.History.Append(dbc, entry); err != nil {
			return nil, err
		}
		return map[string]any{"current_status": next}, nil
	})
}

func (a *applicationAggregate) UpdateDetails(ctx context.Context, applicationID, actingUserID uuid.UUID, patch types.ApplicationPatch) (*types.Application, error) {
	const op = "Tracker.Application.UpdateDetails"
	updates := map[string]any{}
	if patch.JobTitle != nil {
		updates["job_title"] = strings.TrimSpace(*patch.JobTitle)
	}
	if patch.Company != nil {
		updates["company"] = strings.TrimSpace(*patch.Company)
	}
	if patch.Location != nil {
		updates["location"] = strings.TrimSpace(*patch.Location)
	}
	if patch.JobLink != nil {
		updates["job_link"] = strings.TrimSpace(*patch.JobLink)
	}
	if patch.JobDescription != nil {
		updates["job_description"] = *patch.JobDescription
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.ResumeFeedback != nil {
		updates["resume_feedback"] = *patch.ResumeFeedback
	}
	if patch.CoverLetterGenerated != nil {
		updates["cover_letter_generated"] = *patch.CoverLetterGenerated
	}
	if patch.InterviewPrep != nil {
		raw, err := marshalOptional(patch.InterviewPrep)
		if err != nil {
			return nil, domainagg.Validation(op, "invalid interview prep")
		}
		updates["interview_prep"] = raw
	}
	if patch.SuccessScore != nil {
		updates["success_score"] = *patch.SuccessScore
	}
	if patch.ImprovementTips != nil {
		raw, err := marshalOptional(patch.ImprovementTips)
		if err != nil {
			return nil, domainagg.Validation(op, "invalid improvement tips")
		}
		updates["improvement_tips"] = raw
	}
	if patch.AppliedAt != nil {
		updates["applied_at"] = patch.AppliedAt.UTC()
	}
	if v, ok := updates["job_title"]; ok && v == "" {
		return nil, domainagg.Validation(op, "job title is required")
	}
	if v, ok := updates["company"]; ok && v == "" {
		return nil, domainagg.Validation(op, "company is required")
	}

	return a.mutate(ctx, op, applicationID, actingUserID, func(_ dbctx.Context, app *types.Application, _ time.Time) (map[string]any, error) {
		if strings.TrimSpace(app.JobTitle) == "" && updates["job_title"] == nil {
			return nil, domainagg.Validation(op, "job title is required")
		}
		if strings.TrimSpace(app.Company) == "" && updates["company"] == nil {
			return nil, domainagg.Validation(op, "company is required")
		}
		return updates, nil
	})
}

func (a *applicationAggregate) Delete(ctx context.Context, applicationID, actingUserID uuid.UUID) error {
	const op = "Tracker.Application.Delete"
	if err := a.authorize(ctx, op, actingUserID, applicationID); err != nil {
		return err
	}
	err := executeSerializedWrite(ctx, a.deps.Base, op, ApplicationLockKey(applicationID), func(dbc dbctx.Context) error {
		deleted, err := a.deps.Applications.Delete(dbc, applicationID)
		if err != nil {
			return err
		}
		if !deleted {
			return domainagg.NotFound(op, "application not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	unregErr := executeWrite(ctx, a.deps.Base, op+".Unregister", func(dbc dbctx.Context) error {
		_, err := a.deps.Refs.Remove(dbc, actingUserID, applicationID)
		return err
	})
	if unregErr != nil {
		return a.consistencyRisk(op, actingUserID, applicationID,
			"application was deleted but is still listed for its owner", unregErr)
	}
	return nil
}

func (a *applicationAggregate) AddCommunication(ctx context.Context, applicationID, actingUserID uuid.UUID, in types.CommunicationInput) (*types.Application, error) {
	const op = "Tracker.Application.AddCommunication"
	return a.mutate(ctx, op, applicationID, actingUserID, func(dbc dbctx.Context, app *types.Application, now time.Time) (map[string]any, error) {
		comm := &types.Communication{
			ApplicationID: app.ID,
			Seq:           nextCommunicationSeq(app.Communications),
			Date:          now,
			Mode:          strings.TrimSpace(in.Mode),
			Summary:       in.Summary,
			ContactPerson: strings.TrimSpace(in.ContactPerson),
		}
		return nil, a.deps.Communications.Append(dbc, comm)
	})
}

func (a *applicationAggregate) SetNotes(ctx context.Context, applicationID, actingUserID uuid.UUID, notes string) (*types.Application, error) {
	const op = "Tracker.Application.SetNotes"
	return a.mutate(ctx, op, applicationID, actingUserID, func(dbctx.Context, *types.Application, time.Time) (map[string]any, error) {
		return map[string]any{"notes": notes}, nil
	})
}

func (a *applicationAggregate) AddReminder(ctx context.Context, applicationID, actingUserID uuid.UUID, in types.ReminderInput) (*types.Application, error) {
	const op = "Tracker.Application.AddReminder"
	kind := types.ReminderType(strings.ToLower(strings.TrimSpace(in.Type)))
	if kind == "" {
		return nil, domainagg.Validation(op, "reminder type is required")
	}
	if !kind.Valid() {
		return nil, domainagg.Validation(op, "invalid reminder type")
	}
	if in.DueDate == nil || in.DueDate.IsZero() {
		return nil, domainagg.Validation(op, "reminder due date is required")
	}
	due := in.DueDate.UTC()
	return a.mutate(ctx, op, applicationID, actingUserID, func(dbc dbctx.Context, app *types.Application, now time.Time) (map[string]any, error) {
		return nil, a.deps.Reminders.Create(dbc, &types.Reminder{
			ID:            uuid.New(),
			ApplicationID: app.ID,
			Type:          kind,
			DueDate:       due,
			Note:          in.Note,
			IsCompleted:   false,
			CreatedAt:     now,
		})
	})
}

func (a *applicationAggregate) SetReminderCompletion(ctx context.Context, applicationID, actingUserID, reminderID uuid.UUID, isCompleted bool) (*types.Application, error) {
	const op = "Tracker.Application.SetReminderCompletion"
	if reminderID == uuid.Nil {
		return nil, domainagg.Validation(op, "missing reminder id")
	}
	return a.mutate(ctx, op, applicationID, actingUserID, func(dbc dbctx.Context, app *types.Application, _ time.Time) (map[string]any, error) {
		found, err := a.deps.Reminders.SetCompletion(dbc, app.ID, reminderID, isCompleted)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, domainagg.NotFound(op, "reminder not found")
		}
		return nil, nil
	})
}

// DeleteReminder treats an unknown reminder id as already removed. The
// application is still touched.
func (a *applicationAggregate) DeleteReminder(ctx context.Context, applicationID, actingUserID, reminderID uuid.UUID) (*types.Application, error) {
	const op = "Tracker.Application.DeleteReminder"
	return a.mutate(ctx, op, applicationID, actingUserID, func(dbc dbctx.Context, app *types.Application, _ time.Time) (map[string]any, error) {
		_, err := a.deps.Reminders.Delete(dbc, app.ID, reminderID)
		return nil, err
	})
}

type mutation func(dbc dbctx.Context, app *types.Application, now time.Time) (map[string]any, error)

// mutate authorizes, then runs fn against the locked application and commits
// its scalar updates together with updated_at through a version compare-and-set.
func (a *applicationAggregate) mutate(ctx context.Context, op string, applicationID, actingUserID uuid.UUID, fn mutation) (*types.Application, error) {
	if err := a.authorize(ctx, op, actingUserID, applicationID); err != nil {
		return nil, err
	}
	var out *types.Application
	err := executeSerializedWrite(ctx, a.deps.Base, op, ApplicationLockKey(applicationID), func(dbc dbctx.Context) error {
		app, err := a.deps.Applications.GetByID(dbc, applicationID, true)
		if err != nil {
			return err
		}
		if app == nil {
			return domainagg.NotFound(op, "application not found")
		}
		now := a.now()
		updates, err := fn(dbc, app, now)
		if err != nil {
			return err
		}
		if updates == nil {
			updates = map[string]any{}
		}
		updates["updated_at"] = now
		ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, applicationsTable, app.ID, app.Version, updates)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "application changed concurrently"); err != nil {
			return err
		}
		out, err = a.deps.Applications.GetByID(dbc, applicationID, false)
		if err != nil {
			return err
		}
		return checkStatusInvariant(out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *applicationAggregate) authorize(ctx context.Context, op string, actingUserID, applicationID uuid.UUID) error {
	if actingUserID == uuid.Nil {
		return domainagg.Validation(op, "missing user id")
	}
	if applicationID == uuid.Nil {
		return domainagg.Validation(op, "missing application id")
	}
	if err := a.deps.Guard.Authorize(ctx, actingUserID, applicationID); err != nil {
		var aggErr *domainagg.Error
		if errors.As(err, &aggErr) {
			return domainagg.NewError(aggErr.Code, op, aggErr.Message, err)
		}
		return MapError(op, err)
	}
	return nil
}

func (a *applicationAggregate) consistencyRisk(op string, userID, applicationID uuid.UUID, msg string, cause error) error {
	a.deps.Base.Hooks.IncConsistencyRisk(op)
	a.deps.Base.Log.Error("owner reference out of sync with application",
		"op", op,
		"user_id", userID,
		"application_id", applicationID,
		"error", cause,
	)
	return domainagg.ConsistencyRisk(op, msg, cause)
}

// checkStatusInvariant requires a non-empty history whose latest entry matches
// current_status.
func checkStatusInvariant(app *types.Application) error {
	latest, ok := app.LatestStatus()
	if !ok {
		return InvariantError("application has no status history")
	}
	if latest != app.CurrentStatus {
		return InvariantError("current status " + string(app.CurrentStatus) + " does not match latest history entry " + string(latest))
	}
	return nil
}

func nextHistorySeq(entries []types.StatusHistoryEntry) int {
	last := 0
	for _, e := range entries {
		if e.Seq > last {
			last = e.Seq
		}
	}
	return last + 1
}

func nextCommunicationSeq(comms []types.Communication) int {
	last := 0
	for _, c := range comms {
		if c.Seq > last {
			last = c.Seq
		}
	}
	return last + 1
}

func marshalOptional[T any](v *T) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
