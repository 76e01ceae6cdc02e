package usecase

import (
	"context"
	"errors"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/repository"
	"job-tracker/internal/workflow"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ApplicationListParams struct {
	Status application.Status
	Limit  int
	Offset int
}

type applicationLister interface {
	ListApplications(ctx context.Context, f repository.ApplicationFilter) ([]application.Application, error)
}

type jobGetter interface {
	GetJobByID(ctx context.Context, id uuid.UUID) (job.Job, error)
}

type ApplicationList struct {
	apps   applicationLister
	jobs   jobGetter
	logger logrus.FieldLogger
}

func NewApplicationListUsecase(apps applicationLister, jobs jobGetter, logger logrus.FieldLogger) *ApplicationList {
	return &ApplicationList{apps: apps, jobs: jobs, logger: orDiscard(logger)}
}

// ListMine returns the actor's own applications.
func (u *ApplicationList) ListMine(ctx context.Context, actor workflow.Actor, params ApplicationListParams) ([]application.Application, error) {
	if err := validateApplicationListParams(params); err != nil {
		return nil, err
	}
	userID := actor.ID
	return u.list(ctx, repository.ApplicationFilter{
		UserID: &userID,
		Status: params.Status,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

// ListForJob returns every application filed against a job. Staff only.
func (u *ApplicationList) ListForJob(ctx context.Context, actor workflow.Actor, jobID uuid.UUID, params ApplicationListParams) ([]application.Application, error) {
	if err := workflow.Authorize(actor.Role, workflow.OpListJobApplications); err != nil {
		return nil, err
	}
	if err := validateApplicationListParams(params); err != nil {
		return nil, err
	}
	if _, err := u.jobs.GetJobByID(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, workflow.ErrNotFound
		}
		u.logger.WithError(err).Error("get job failed")
		return nil, ErrInternal
	}
	return u.list(ctx, repository.ApplicationFilter{
		JobID:  &jobID,
		Status: params.Status,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

func (u *ApplicationList) list(ctx context.Context, f repository.ApplicationFilter) ([]application.Application, error) {
	items, err := u.apps.ListApplications(ctx, f)
	if err != nil {
		u.logger.WithError(err).Error("list applications failed")
		return nil, ErrInternal
	}
	if items == nil {
		items = []application.Application{}
	}
	return items, nil
}

func validateApplicationListParams(p ApplicationListParams) error {
	if p.Limit < 0 || p.Limit > maxJobListLimit || p.Offset < 0 {
		return ErrInvalidInput
	}
	if p.Status != "" && !p.Status.Valid() {
		return ErrInvalidInput
	}
	return nil
}
