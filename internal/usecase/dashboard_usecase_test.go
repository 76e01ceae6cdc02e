package usecase

import (
	"context"
	"testing"
	"time"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/job"
)

type mockCounters struct {
	jobs   map[job.Status]int
	apps   map[application.Status]int
	recent int
	calls  int
}

func (m *mockCounters) CountJobsByStatus(context.Context) (map[job.Status]int, error) {
	m.calls++
	return m.jobs, nil
}

func (m *mockCounters) CountApplicationsByStatus(context.Context) (map[application.Status]int, error) {
	return m.apps, nil
}

func (m *mockCounters) CountApplicationsSince(context.Context, time.Time) (int, error) {
	return m.recent, nil
}

func TestDashboardUsecase_Stats(t *testing.T) {
	counters := &mockCounters{
		jobs:   map[job.Status]int{job.StatusOpen: 3, job.StatusClosed: 1},
		apps:   map[application.Status]int{application.StatusSubmitted: 4, application.StatusInterview: 2},
		recent: 5,
	}
	cache := newMemCache()
	uc := NewDashboardUsecase(counters, counters, cache, time.Minute, nil)

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.TotalJobs != 4 || stats.TotalApplications != 6 || stats.ApplicationsLast7Days != 5 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.JobsByStatus[job.StatusFilled] != 0 {
		t.Fatalf("expected zero-filled status buckets")
	}
	if _, ok := stats.ApplicationsByStatus[application.StatusWithdrawn]; !ok {
		t.Fatalf("expected every application status present")
	}

	if _, err := uc.Stats(context.Background()); err != nil {
		t.Fatalf("cached: %v", err)
	}
	if counters.calls != 1 {
		t.Fatalf("expected cached second call, got %d repository calls", counters.calls)
	}
}
