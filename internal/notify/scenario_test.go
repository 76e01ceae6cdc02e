package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/repository"
	"job-tracker/internal/workflow"
	"job-tracker/internal/ws"

	"github.com/google/uuid"
)

type store struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]job.Job
	apps map[uuid.UUID]application.Application
}

func (s *store) CreateJob(_ context.Context, j job.Job) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
	return j, nil
}

func (s *store) GetJobByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (s *store) UpdateJob(_ context.Context, j job.Job) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
	return j, nil
}

func (s *store) DeleteJob(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

func (s *store) CreateApplication(_ context.Context, a application.Application) (application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[a.ID] = a
	return a, nil
}

func (s *store) GetApplicationByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return application.Application{}, repository.ErrApplicationNotFound
	}
	return a, nil
}

func (s *store) ExistsForJobAndUser(_ context.Context, jobID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.JobID == jobID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *store) UpdateApplication(_ context.Context, a application.Application) (application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[a.ID] = a
	return a, nil
}

func (s *store) DeleteApplication(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.apps, id)
	return nil
}

func TestScenario_ApplyInterviewWithdraw(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	job1 := job.Job{ID: uuid.New(), Title: "Backend Engineer", Company: "Acme", Status: job.StatusOpen, PostedAt: now}
	st := &store{jobs: map[uuid.UUID]job.Job{job1.ID: job1}, apps: map[uuid.UUID]application.Application{}}

	tr := &recordingTransport{}
	engine := workflow.NewEngine(st, st, nil, NewDispatcher(tr, nil), workflow.WithClock(func() time.Time { return now }))

	u1 := workflow.Actor{ID: uuid.New(), Role: user.RoleJobSeeker}
	u2 := workflow.Actor{ID: uuid.New(), Role: user.RoleJobSeeker}
	recruiter := workflow.Actor{ID: uuid.New(), Role: user.RoleRecruiter}

	app, err := engine.CreateApplication(ctx, u1, workflow.CreateApplicationInput{
		JobID: job1.ID, FullName: "U One", Email: "u1@example.com",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != application.StatusSubmitted || app.ReviewedAt != nil {
		t.Fatalf("unexpected new application: %+v", app)
	}

	tr.sent = nil
	interview := application.StatusInterview
	app, err = engine.EditApplication(ctx, recruiter, app.ID, workflow.ApplicationPatch{Status: &interview})
	if err != nil {
		t.Fatalf("interview: %v", err)
	}
	if app.ReviewedAt == nil || !app.ReviewedAt.Equal(now) {
		t.Fatalf("expected reviewed at %v, got %v", now, app.ReviewedAt)
	}
	got := tr.channels()
	if len(got) != 2 || !contains(got, ws.UserChannel(u1.ID)) || !contains(got, ws.JobChannel(job1.ID)) {
		t.Fatalf("expected user and job channels, got %v", got)
	}

	notes := "hijack"
	if _, err := engine.EditApplication(ctx, u2, app.ID, workflow.ApplicationPatch{Notes: &notes}); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for U2, got %v", err)
	}
	if unchanged, _ := st.GetApplicationByID(ctx, app.ID); unchanged.Notes != "" {
		t.Fatalf("expected U1 record unchanged, got notes %q", unchanged.Notes)
	}

	app, err = engine.WithdrawApplication(ctx, u1, app.ID)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if app.Status != application.StatusWithdrawn {
		t.Fatalf("expected withdrawn, got %s", app.Status)
	}
	if _, err := engine.WithdrawApplication(ctx, u1, app.ID); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
