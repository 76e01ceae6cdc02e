package workflow

import (
	"context"
	"strings"
	"time"

	"job-tracker/internal/domain/job"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// JobInput carries the editable job fields. Status is honoured on create
// only (empty means open); use UpdateJobStatus afterwards.
type JobInput struct {
	Title           string     `validate:"required,max=200"`
	Company         string     `validate:"required,max=200"`
	Description     string     `validate:"max=20000"`
	Location        string     `validate:"max=200"`
	Salary          *string    `validate:"omitnil,max=100"`
	Status          job.Status `validate:"omitempty,oneof=open closed on_hold filled"`
	Deadline        *time.Time
	EmploymentType  string `validate:"max=50"`
	ExperienceLevel string `validate:"max=50"`
	Remote          bool
}

func (in JobInput) normalize() JobInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	return in
}

func (in JobInput) apply(j job.Job) job.Job {
	j.Title = in.Title
	j.Company = in.Company
	j.Description = in.Description
	j.Location = in.Location
	j.Salary = in.Salary
	j.Deadline = in.Deadline
	j.Metadata = job.Metadata{
		EmploymentType:  in.EmploymentType,
		ExperienceLevel: in.ExperienceLevel,
		Remote:          in.Remote,
	}
	return j
}

func (e *Engine) GetJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := e.jobs.GetJobByID(ctx, id)
	if err != nil {
		return job.Job{}, notFound(err)
	}
	return j, nil
}

func (e *Engine) CreateJob(ctx context.Context, actor Actor, in JobInput) (job.Job, error) {
	if err := Authorize(actor.Role, OpCreateJob); err != nil {
		return job.Job{}, err
	}
	in = in.normalize()
	if err := e.validateStruct(in); err != nil {
		return job.Job{}, err
	}

	status := in.Status
	if status == "" {
		status = job.StatusOpen
	}
	j := in.apply(job.Job{
		ID:       e.newID(),
		Status:   status,
		PostedAt: e.now().UTC(),
	})

	created, err := e.jobs.CreateJob(ctx, j)
	if err != nil {
		return job.Job{}, pkgerrors.Wrap(err, "create job")
	}

	e.logger.WithFields(logrus.Fields{"job_id": created.ID, "actor_id": actor.ID}).Info("job created")
	e.publish(ctx, Event{
		Kind:      EventJobCreated,
		NewStatus: string(created.Status),
		Job:       &created,
		ActorID:   actor.ID,
	})
	return created, nil
}

// EditJob replaces the descriptive fields of a job. Status is left untouched,
// so only commit observers hear about it.
func (e *Engine) EditJob(ctx context.Context, actor Actor, id uuid.UUID, in JobInput) (job.Job, error) {
	if err := Authorize(actor.Role, OpEditJob); err != nil {
		return job.Job{}, err
	}
	in = in.normalize()
	in.Status = ""
	if err := e.validateStruct(in); err != nil {
		return job.Job{}, err
	}

	current, err := e.jobs.GetJobByID(ctx, id)
	if err != nil {
		return job.Job{}, notFound(err)
	}
	updated, err := e.jobs.UpdateJob(ctx, in.apply(current))
	if err != nil {
		return job.Job{}, pkgerrors.Wrap(notFound(err), "update job")
	}
	e.publish(ctx, Event{
		Kind:      EventJobEdited,
		OldStatus: string(updated.Status),
		NewStatus: string(updated.Status),
		Job:       &updated,
		ActorID:   actor.ID,
	})
	return updated, nil
}

func (e *Engine) UpdateJobStatus(ctx context.Context, actor Actor, id uuid.UUID, status job.Status) (job.Job, error) {
	if err := Authorize(actor.Role, OpUpdateJobStatus); err != nil {
		return job.Job{}, err
	}
	if !status.Valid() {
		return job.Job{}, newValidationError("status", "is invalid")
	}

	current, err := e.jobs.GetJobByID(ctx, id)
	if err != nil {
		return job.Job{}, notFound(err)
	}
	if current.Status == status {
		return current, nil
	}

	next := current
	next.Status = status
	updated, err := e.jobs.UpdateJob(ctx, next)
	if err != nil {
		return job.Job{}, pkgerrors.Wrap(notFound(err), "update job status")
	}

	e.logger.WithFields(logrus.Fields{
		"job_id":     id,
		"actor_id":   actor.ID,
		"old_status": current.Status,
		"new_status": updated.Status,
	}).Info("job status changed")
	e.publish(ctx, Event{
		Kind:      EventJobUpdated,
		OldStatus: string(current.Status),
		NewStatus: string(updated.Status),
		Job:       &updated,
		ActorID:   actor.ID,
	})
	return updated, nil
}

// DeleteJob removes a job; its applications go with it.
func (e *Engine) DeleteJob(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := Authorize(actor.Role, OpDeleteJob); err != nil {
		return err
	}
	current, err := e.jobs.GetJobByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := e.jobs.DeleteJob(ctx, id); err != nil {
		return pkgerrors.Wrap(notFound(err), "delete job")
	}

	e.logger.WithFields(logrus.Fields{"job_id": id, "actor_id": actor.ID}).Info("job deleted")
	e.publish(ctx, Event{
		Kind:      EventJobDeleted,
		OldStatus: string(current.Status),
		Job:       &current,
		ActorID:   actor.ID,
	})
	return nil
}
