package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/repository"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	items []job.Job
	err   error
	calls int
	last  repository.JobFilter
}

func (m *mockJobRepo) ListJobs(_ context.Context, f repository.JobFilter) ([]job.Job, error) {
	m.calls++
	m.last = f
	return m.items, m.err
}

func TestJobListUsecase_ListJobs_InvalidInput(t *testing.T) {
	uc := NewJobListUsecase(&mockJobRepo{}, nil, 0, nil)
	after := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	before := after.Add(-time.Hour)

	for _, p := range []JobListParams{
		{Limit: -1},
		{Limit: 500},
		{Offset: -3},
		{Status: "archived"},
		{PostedAfter: &after, PostedBefore: &before},
	} {
		if _, err := uc.ListJobs(context.Background(), p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", p, err)
		}
	}
}

func TestJobListUsecase_ListJobs_PassesFilter(t *testing.T) {
	repo := &mockJobRepo{items: []job.Job{{ID: uuid.New(), Title: "Backend Engineer", Company: "Acme", Status: job.StatusOpen}}}
	uc := NewJobListUsecase(repo, nil, 0, nil)

	items, err := uc.ListJobs(context.Background(), JobListParams{Status: job.StatusOpen, Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Backend Engineer" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if repo.last.Limit != defaultJobListLimit || repo.last.Status != job.StatusOpen || repo.last.Company != "Acme" {
		t.Fatalf("unexpected filter: %+v", repo.last)
	}
}

func TestJobListUsecase_ListJobs_CachesPages(t *testing.T) {
	repo := &mockJobRepo{items: []job.Job{{ID: uuid.New(), Title: "Backend Engineer", Company: "Acme"}}}
	cache := newMemCache()
	uc := NewJobListUsecase(repo, cache, time.Minute, nil)
	params := JobListParams{Company: " ACME "}

	if _, err := uc.ListJobs(context.Background(), params); err != nil {
		t.Fatalf("first: %v", err)
	}
	items, err := uc.ListJobs(context.Background(), JobListParams{Company: "acme"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.calls)
	}
	if len(items) != 1 || items[0].Company != "Acme" {
		t.Fatalf("unexpected cached items: %+v", items)
	}
	key := JobListCacheKey(JobListParams{Company: "acme", Limit: defaultJobListLimit})
	if cache.has(JobListLockKey(key)) {
		t.Fatalf("expected lock released")
	}
}

func TestJobListUsecase_ListJobs_RepositoryError(t *testing.T) {
	uc := NewJobListUsecase(&mockJobRepo{err: errors.New("db down")}, newMemCache(), time.Minute, nil)
	if _, err := uc.ListJobs(context.Background(), JobListParams{}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
