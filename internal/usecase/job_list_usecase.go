package usecase

import (
	"context"
	"errors"
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/repository"

	"github.com/sirupsen/logrus"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	defaultJobListLimit = 20
	maxJobListLimit     = 100
)

type JobListParams struct {
	Status       job.Status
	Company      string
	PostedAfter  *time.Time
	PostedBefore *time.Time
	Limit        int
	Offset       int
}

type JobListUsecase interface {
	ListJobs(ctx context.Context, params JobListParams) ([]job.Job, error)
}

type jobLister interface {
	ListJobs(ctx context.Context, f repository.JobFilter) ([]job.Job, error)
}

type JobList struct {
	jobs   jobLister
	cache  Cache
	ttl    time.Duration
	logger logrus.FieldLogger

	lockWait time.Duration
}

func NewJobListUsecase(jobs jobLister, cache Cache, ttl time.Duration, logger logrus.FieldLogger) *JobList {
	return &JobList{jobs: jobs, cache: cache, ttl: ttl, logger: orDiscard(logger), lockWait: 300 * time.Millisecond}
}

// ListJobs returns one page of jobs, newest first. Pages are cached; a
// short-lived lock keeps concurrent misses for the same page from all hitting
// the database.
func (u *JobList) ListJobs(ctx context.Context, params JobListParams) ([]job.Job, error) {
	if params.Limit == 0 {
		params.Limit = defaultJobListLimit
	}
	if params.Limit < 0 || params.Limit > maxJobListLimit || params.Offset < 0 {
		return nil, ErrInvalidInput
	}
	if params.Status != "" && !params.Status.Valid() {
		return nil, ErrInvalidInput
	}
	if params.PostedAfter != nil && params.PostedBefore != nil && params.PostedAfter.After(*params.PostedBefore) {
		return nil, ErrInvalidInput
	}

	cacheKey := JobListCacheKey(params)
	if u.cache != nil {
		var cached []job.Job
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			u.logger.WithField("key", cacheKey).Debug("job list cache hit")
			return cached, nil
		}

		ok, err := u.cache.SetIfNotExists(ctx, JobListLockKey(cacheKey), "1", 30*time.Second)
		if err == nil && !ok {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(u.lockWait):
			}
			var cached []job.Job
			if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
				return cached, nil
			}
		}
	}

	items, err := u.jobs.ListJobs(ctx, repository.JobFilter{
		Status:       params.Status,
		Company:      params.Company,
		PostedAfter:  params.PostedAfter,
		PostedBefore: params.PostedBefore,
		Limit:        params.Limit,
		Offset:       params.Offset,
	})
	if err != nil {
		u.logger.WithError(err).Error("list jobs failed")
		return nil, ErrInternal
	}
	if items == nil {
		items = []job.Job{}
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, items, u.ttl); err != nil {
			u.logger.WithError(err).WithField("key", cacheKey).Warn("job list cache write failed")
		}
		_ = u.cache.Delete(ctx, JobListLockKey(cacheKey))
	}
	return items, nil
}
