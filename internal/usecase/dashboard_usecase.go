package usecase

import (
	"context"
	"time"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/job"

	"github.com/sirupsen/logrus"
)

type DashboardStats struct {
	JobsByStatus          map[job.Status]int         `json:"jobs_by_status"`
	ApplicationsByStatus  map[application.Status]int `json:"applications_by_status"`
	TotalJobs             int                        `json:"total_jobs"`
	TotalApplications     int                        `json:"total_applications"`
	ApplicationsLast7Days int                        `json:"applications_last_7_days"`
	GeneratedAt           time.Time                  `json:"generated_at"`
}

type jobCounter interface {
	CountJobsByStatus(ctx context.Context) (map[job.Status]int, error)
}

type applicationCounter interface {
	CountApplicationsByStatus(ctx context.Context) (map[application.Status]int, error)
	CountApplicationsSince(ctx context.Context, since time.Time) (int, error)
}

type Dashboard struct {
	jobs   jobCounter
	apps   applicationCounter
	cache  Cache
	ttl    time.Duration
	now    func() time.Time
	logger logrus.FieldLogger
}

func NewDashboardUsecase(jobs jobCounter, apps applicationCounter, cache Cache, ttl time.Duration, logger logrus.FieldLogger) *Dashboard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Dashboard{jobs: jobs, apps: apps, cache: cache, ttl: ttl, now: time.Now, logger: orDiscard(logger)}
}

func (u *Dashboard) Stats(ctx context.Context) (DashboardStats, error) {
	if u.cache != nil {
		var cached DashboardStats
		if hit, err := u.cache.GetJSON(ctx, dashboardStatsKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	jobs, err := u.jobs.CountJobsByStatus(ctx)
	if err != nil {
		u.logger.WithError(err).Error("count jobs failed")
		return DashboardStats{}, ErrInternal
	}
	apps, err := u.apps.CountApplicationsByStatus(ctx)
	if err != nil {
		u.logger.WithError(err).Error("count applications failed")
		return DashboardStats{}, ErrInternal
	}
	now := u.now().UTC()
	recent, err := u.apps.CountApplicationsSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		u.logger.WithError(err).Error("count recent applications failed")
		return DashboardStats{}, ErrInternal
	}

	stats := DashboardStats{
		JobsByStatus:          make(map[job.Status]int, 4),
		ApplicationsByStatus:  make(map[application.Status]int, 6),
		ApplicationsLast7Days: recent,
		GeneratedAt:           now,
	}
	for _, s := range []job.Status{job.StatusOpen, job.StatusClosed, job.StatusOnHold, job.StatusFilled} {
		stats.JobsByStatus[s] = jobs[s]
		stats.TotalJobs += jobs[s]
	}
	for _, s := range []application.Status{
		application.StatusSubmitted, application.StatusUnderReview, application.StatusInterview,
		application.StatusAccepted, application.StatusRejected, application.StatusWithdrawn,
	} {
		stats.ApplicationsByStatus[s] = apps[s]
		stats.TotalApplications += apps[s]
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, dashboardStatsKey, stats, u.ttl); err != nil {
			u.logger.WithError(err).Warn("dashboard cache write failed")
		}
	}
	return stats, nil
}
