package usecase

import (
	"context"

	"job-tracker/internal/workflow"

	"github.com/sirupsen/logrus"
)

// CacheInvalidator drops cached listings and dashboard aggregates after
// committed mutations. Register it as a workflow commit observer.
type CacheInvalidator struct {
	cache  Cache
	logger logrus.FieldLogger
}

func NewCacheInvalidator(cache Cache, logger logrus.FieldLogger) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, logger: orDiscard(logger)}
}

func (i *CacheInvalidator) Publish(ctx context.Context, evt workflow.Event) {
	if i.cache == nil {
		return
	}
	switch evt.Kind {
	case workflow.EventJobCreated, workflow.EventJobUpdated, workflow.EventJobDeleted, workflow.EventJobEdited:
		if err := i.cache.DeleteByPattern(ctx, jobListKeyPrefix+"*"); err != nil {
			i.logger.WithError(err).Warn("job list cache invalidation failed")
		}
		i.dropDashboard(ctx)
	case workflow.EventApplicationCreated, workflow.EventApplicationStatusChanged, workflow.EventApplicationDeleted:
		i.dropDashboard(ctx)
	}
}

func (i *CacheInvalidator) dropDashboard(ctx context.Context) {
	if err := i.cache.Delete(ctx, dashboardStatsKey); err != nil {
		i.logger.WithError(err).Warn("dashboard cache invalidation failed")
	}
}
