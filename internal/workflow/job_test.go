package workflow

import (
	"context"
	"errors"
	"testing"

	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
)

func TestEngine_CreateJob(t *testing.T) {
	jobs := newMemJobs()
	e, sink, _ := newTestEngine(jobs, newMemApps())
	recruiter := Actor{ID: uuid.New(), Role: user.RoleRecruiter}

	got, err := e.CreateJob(context.Background(), recruiter, JobInput{Title: "Backend Engineer", Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != job.StatusOpen {
		t.Fatalf("expected open, got %s", got.Status)
	}
	if !got.PostedAt.Equal(fixedNow) {
		t.Fatalf("expected posted at %v, got %v", fixedNow, got.PostedAt)
	}
	events := sink.all()
	if len(events) != 1 || events[0].Kind != EventJobCreated || events[0].Job == nil || events[0].Job.ID != got.ID {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestEngine_CreateJob_Rejections(t *testing.T) {
	e, sink, _ := newTestEngine(newMemJobs(), newMemApps())

	_, err := e.CreateJob(context.Background(), Actor{ID: uuid.New(), Role: user.RoleJobSeeker}, JobInput{Title: "x", Company: "y"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	_, err = e.CreateJob(context.Background(), Actor{ID: uuid.New(), Role: user.RoleAdmin}, JobInput{Title: "   ", Company: "Acme"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["title"]; !ok {
		t.Fatalf("expected title error, got %v", verr.Fields)
	}

	_, err = e.CreateJob(context.Background(), Actor{ID: uuid.New(), Role: user.RoleAdmin}, JobInput{Title: "t", Company: "c", Status: "archived"})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if len(sink.all()) != 0 {
		t.Fatalf("expected no events")
	}
}

func TestEngine_UpdateJobStatus(t *testing.T) {
	j := openJob()
	jobs := newMemJobs(j)
	e, sink, _ := newTestEngine(jobs, newMemApps())
	recruiter := Actor{ID: uuid.New(), Role: user.RoleRecruiter}

	if _, err := e.UpdateJobStatus(context.Background(), recruiter, j.ID, job.StatusOpen); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if jobs.updates != 0 || len(sink.all()) != 0 {
		t.Fatalf("expected same-status update to be a no-op")
	}

	got, err := e.UpdateJobStatus(context.Background(), recruiter, j.ID, job.StatusClosed)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != job.StatusClosed {
		t.Fatalf("expected closed, got %s", got.Status)
	}
	events := sink.all()
	if len(events) != 1 || events[0].Kind != EventJobUpdated || events[0].OldStatus != "open" || events[0].NewStatus != "closed" {
		t.Fatalf("unexpected events: %+v", events)
	}

	if _, err := e.UpdateJobStatus(context.Background(), recruiter, uuid.New(), job.StatusClosed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEngine_EditJobKeepsStatus(t *testing.T) {
	j := openJob()
	e, sink, _ := newTestEngine(newMemJobs(j), newMemApps())

	got, err := e.EditJob(context.Background(), Actor{ID: uuid.New(), Role: user.RoleRecruiter}, j.ID, JobInput{
		Title: "Senior Backend Engineer", Company: "Acme", Status: job.StatusFilled, Remote: true,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Title != "Senior Backend Engineer" || !got.Metadata.Remote {
		t.Fatalf("expected fields updated, got %+v", got)
	}
	if got.Status != job.StatusOpen {
		t.Fatalf("expected status untouched, got %s", got.Status)
	}
	if len(sink.all()) != 0 {
		t.Fatalf("expected no events")
	}
}

func TestEngine_DeleteJob(t *testing.T) {
	j := openJob()
	jobs := newMemJobs(j)
	e, sink, _ := newTestEngine(jobs, newMemApps())

	if err := e.DeleteJob(context.Background(), Actor{ID: uuid.New(), Role: user.RoleRecruiter}, j.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := e.DeleteJob(context.Background(), Actor{ID: uuid.New(), Role: user.RoleAdmin}, j.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := jobs.items[j.ID]; ok {
		t.Fatalf("expected job removed")
	}
	events := sink.all()
	if len(events) != 1 || events[0].Kind != EventJobDeleted || events[0].OldStatus != "open" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if err := e.DeleteJob(context.Background(), Actor{ID: uuid.New(), Role: user.RoleAdmin}, j.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
