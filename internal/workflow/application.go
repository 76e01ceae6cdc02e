package workflow

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/repository"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type CreateApplicationInput struct {
	JobID       uuid.UUID
	FullName    string `validate:"required,max=200"`
	Email       string `validate:"required,email,max=320"`
	Phone       string `validate:"max=50"`
	CoverLetter string `validate:"max=10000"`
	Notes       string `validate:"max=5000"`
	Priority    int    `validate:"omitempty,min=1,max=5"`
	Source      string `validate:"max=100"`
}

// ApplicationPatch is a partial update. Nil fields are left alone.
type ApplicationPatch struct {
	FullName    *string `validate:"omitnil,min=1,max=200"`
	Email       *string `validate:"omitnil,email,max=320"`
	Phone       *string `validate:"omitnil,max=50"`
	CoverLetter *string `validate:"omitnil,max=10000"`
	Notes       *string `validate:"omitnil,max=5000"`
	Priority    *int    `validate:"omitnil,min=1,max=5"`
	Source      *string `validate:"omitnil,max=100"`

	Status      *application.Status
	ReviewerID  *uuid.UUID
	InterviewAt *time.Time
}

func (p ApplicationPatch) requested() FieldSet {
	var s FieldSet
	set := func(present bool, f FieldSet) {
		if present {
			s |= f
		}
	}
	set(p.FullName != nil, FieldFullName)
	set(p.Email != nil, FieldEmail)
	set(p.Phone != nil, FieldPhone)
	set(p.CoverLetter != nil, FieldCoverLetter)
	set(p.Notes != nil, FieldNotes)
	set(p.Priority != nil, FieldPriority)
	set(p.Source != nil, FieldSource)
	set(p.Status != nil, FieldStatus)
	set(p.ReviewerID != nil, FieldReviewer)
	set(p.InterviewAt != nil, FieldInterviewDate)
	return s
}

// only clears every field outside allowed.
func (p ApplicationPatch) only(allowed FieldSet) ApplicationPatch {
	if !allowed.Has(FieldFullName) {
		p.FullName = nil
	}
	if !allowed.Has(FieldEmail) {
		p.Email = nil
	}
	if !allowed.Has(FieldPhone) {
		p.Phone = nil
	}
	if !allowed.Has(FieldCoverLetter) {
		p.CoverLetter = nil
	}
	if !allowed.Has(FieldNotes) {
		p.Notes = nil
	}
	if !allowed.Has(FieldPriority) {
		p.Priority = nil
	}
	if !allowed.Has(FieldSource) {
		p.Source = nil
	}
	if !allowed.Has(FieldStatus) {
		p.Status = nil
	}
	if !allowed.Has(FieldReviewer) {
		p.ReviewerID = nil
	}
	if !allowed.Has(FieldInterviewDate) {
		p.InterviewAt = nil
	}
	return p
}

// GetApplication returns an application visible to the actor: staff see
// everything, job seekers only their own.
func (e *Engine) GetApplication(ctx context.Context, actor Actor, id uuid.UUID) (application.Application, error) {
	a, err := e.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return application.Application{}, notFound(err)
	}
	if !actor.Role.Staff() && a.UserID != actor.ID {
		return application.Application{}, ErrForbidden
	}
	return a, nil
}

func (e *Engine) CreateApplication(ctx context.Context, actor Actor, in CreateApplicationInput) (application.Application, error) {
	if err := Authorize(actor.Role, OpApply); err != nil {
		return application.Application{}, err
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := e.validateStruct(in); err != nil {
		return application.Application{}, err
	}

	j, err := e.jobs.GetJobByID(ctx, in.JobID)
	if err != nil {
		return application.Application{}, notFound(err)
	}
	now := e.now().UTC()
	if !j.AcceptingApplications(now) {
		return application.Application{}, newValidationError("job_id", "is not accepting applications")
	}

	exists, err := e.apps.ExistsForJobAndUser(ctx, j.ID, actor.ID)
	if err != nil {
		return application.Application{}, pkgerrors.Wrap(err, "check existing application")
	}
	if exists {
		return application.Application{}, ErrDuplicateApplication
	}

	priority := in.Priority
	if priority == 0 {
		priority = application.DefaultPriority
	}
	a := application.Application{
		ID:          e.newID(),
		JobID:       j.ID,
		UserID:      actor.ID,
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       in.Phone,
		CoverLetter: in.CoverLetter,
		Status:      application.StatusSubmitted,
		AppliedAt:   now,
		Notes:       in.Notes,
		Priority:    priority,
		Source:      in.Source,
	}

	created, err := e.apps.CreateApplication(ctx, a)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return application.Application{}, ErrDuplicateApplication
		}
		return application.Application{}, pkgerrors.Wrap(err, "create application")
	}

	e.logger.WithFields(logrus.Fields{
		"application_id": created.ID,
		"job_id":         created.JobID,
		"user_id":        created.UserID,
	}).Info("application submitted")
	e.publish(ctx, Event{
		Kind:        EventApplicationCreated,
		NewStatus:   string(created.Status),
		Application: &created,
		ActorID:     actor.ID,
	})
	return created, nil
}

// EditApplication applies a partial update. Fields the actor may not write are
// dropped; a status change must follow the transition table.
func (e *Engine) EditApplication(ctx context.Context, actor Actor, id uuid.UUID, patch ApplicationPatch) (application.Application, error) {
	current, err := e.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return application.Application{}, notFound(err)
	}

	allowed, err := Permit(PermissionRequest{
		ActorRole: actor.Role,
		ActorID:   actor.ID,
		OwnerID:   current.UserID,
		Requested: patch.requested(),
	})
	if err != nil {
		return application.Application{}, err
	}
	if allowed.Empty() {
		return current, nil
	}

	// Only fields the actor may write are validated; the rest are dropped.
	patch = patch.only(allowed)
	if err := e.validateStruct(patch); err != nil {
		return application.Application{}, err
	}
	if allowed.Has(FieldStatus) && !patch.Status.Valid() {
		return application.Application{}, newValidationError("status", "is invalid")
	}
	if allowed.Has(FieldReviewer) {
		if err := e.checkReviewer(ctx, *patch.ReviewerID); err != nil {
			return application.Application{}, err
		}
	}

	next := current
	if allowed.Has(FieldFullName) {
		next.FullName = strings.TrimSpace(*patch.FullName)
	}
	if allowed.Has(FieldEmail) {
		next.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if allowed.Has(FieldPhone) {
		next.Phone = *patch.Phone
	}
	if allowed.Has(FieldCoverLetter) {
		next.CoverLetter = *patch.CoverLetter
	}
	if allowed.Has(FieldNotes) {
		next.Notes = *patch.Notes
	}
	if allowed.Has(FieldPriority) {
		next.Priority = *patch.Priority
	}
	if allowed.Has(FieldSource) {
		next.Source = *patch.Source
	}
	if allowed.Has(FieldInterviewDate) {
		at := patch.InterviewAt.UTC()
		next.InterviewAt = &at
	}
	if allowed.Has(FieldReviewer) {
		reviewer := *patch.ReviewerID
		next.ReviewedBy = &reviewer
	}

	statusChanged := allowed.Has(FieldStatus) && *patch.Status != current.Status
	if statusChanged {
		if !CanTransition(current.Status, *patch.Status) {
			return application.Application{}, ErrInvalidTransition
		}
		next.Status = *patch.Status
		e.markReviewed(&next, current, actor, allowed.Has(FieldReviewer))
	}
	if !statusChanged && reflect.DeepEqual(next, current) {
		return current, nil
	}

	updated, err := e.apps.UpdateApplication(ctx, next)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return application.Application{}, newValidationError("reviewed_by", "does not exist")
		}
		return application.Application{}, pkgerrors.Wrap(notFound(err), "update application")
	}

	if statusChanged {
		e.statusChanged(ctx, actor, current.Status, updated)
	} else {
		e.publish(ctx, Event{
			Kind:        EventApplicationEdited,
			OldStatus:   string(updated.Status),
			NewStatus:   string(updated.Status),
			Application: &updated,
			ActorID:     actor.ID,
		})
	}
	return updated, nil
}

// UpdateApplicationStatus is the staff shortcut for a status-only edit.
func (e *Engine) UpdateApplicationStatus(ctx context.Context, actor Actor, id uuid.UUID, status application.Status) (application.Application, error) {
	if !actor.Role.Staff() {
		return application.Application{}, ErrForbidden
	}
	return e.EditApplication(ctx, actor, id, ApplicationPatch{Status: &status})
}

// WithdrawApplication lets an applicant pull their own application unless it
// was already accepted or withdrawn.
func (e *Engine) WithdrawApplication(ctx context.Context, actor Actor, id uuid.UUID) (application.Application, error) {
	if err := Authorize(actor.Role, OpWithdrawApplication); err != nil {
		return application.Application{}, err
	}
	current, err := e.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return application.Application{}, notFound(err)
	}
	if current.UserID != actor.ID {
		return application.Application{}, ErrForbidden
	}
	if !canWithdraw(current.Status) {
		return application.Application{}, ErrInvalidTransition
	}

	next := current
	next.Status = application.StatusWithdrawn
	e.markReviewed(&next, current, actor, false)
	updated, err := e.apps.UpdateApplication(ctx, next)
	if err != nil {
		return application.Application{}, pkgerrors.Wrap(notFound(err), "withdraw application")
	}

	e.statusChanged(ctx, actor, current.Status, updated)
	return updated, nil
}

func (e *Engine) DeleteApplication(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := Authorize(actor.Role, OpDeleteApplication); err != nil {
		return err
	}
	current, err := e.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := e.apps.DeleteApplication(ctx, id); err != nil {
		return pkgerrors.Wrap(notFound(err), "delete application")
	}

	e.logger.WithFields(logrus.Fields{"application_id": id, "actor_id": actor.ID}).Info("application deleted")
	e.publish(ctx, Event{
		Kind:        EventApplicationDeleted,
		OldStatus:   string(current.Status),
		Application: &current,
		ActorID:     actor.ID,
	})
	return nil
}

// checkReviewer requires the named reviewer to be an active recruiter or admin.
func (e *Engine) checkReviewer(ctx context.Context, id uuid.UUID) error {
	if e.users == nil || id == uuid.Nil {
		return newValidationError("reviewed_by", "does not exist")
	}
	u, err := e.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return newValidationError("reviewed_by", "does not exist")
		}
		return pkgerrors.Wrap(err, "resolve reviewer")
	}
	if !u.Role.Staff() || !u.IsActive {
		return newValidationError("reviewed_by", "must be an active recruiter or admin")
	}
	return nil
}

// markReviewed stamps the review metadata of a status change. ReviewedAt is set
// once, on the first move away from submitted, withdrawal included. Only staff
// become the reviewer.
func (e *Engine) markReviewed(next *application.Application, current application.Application, actor Actor, reviewerSet bool) {
	if current.Status == application.StatusSubmitted && current.ReviewedAt == nil {
		at := e.now().UTC()
		next.ReviewedAt = &at
	}
	if !reviewerSet && actor.Role != user.RoleJobSeeker {
		reviewer := actor.ID
		next.ReviewedBy = &reviewer
	}
}

func (e *Engine) statusChanged(ctx context.Context, actor Actor, old application.Status, updated application.Application) {
	e.logger.WithFields(logrus.Fields{
		"application_id": updated.ID,
		"actor_id":       actor.ID,
		"old_status":     old,
		"new_status":     updated.Status,
	}).Info("application status changed")
	e.publish(ctx, Event{
		Kind:        EventApplicationStatusChanged,
		OldStatus:   string(old),
		NewStatus:   string(updated.Status),
		Application: &updated,
		ActorID:     actor.ID,
	})
}
