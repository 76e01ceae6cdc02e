package workflow

import (
	"context"
	"time"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/job"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventJobCreated               EventKind = "job_created"
	EventJobUpdated               EventKind = "job_updated"
	EventJobDeleted               EventKind = "job_deleted"
	EventApplicationCreated       EventKind = "application_created"
	EventApplicationStatusChanged EventKind = "application_status_changed"
	EventApplicationDeleted       EventKind = "application_deleted"

	// Edits that leave the status alone. Only commit observers see these.
	EventJobEdited         EventKind = "job_edited"
	EventApplicationEdited EventKind = "application_edited"
)

// Event records a committed state change. Job is set for job events;
// Application is set for application events.
type Event struct {
	Kind        EventKind
	OldStatus   string
	NewStatus   string
	Job         *job.Job
	Application *application.Application
	ActorID     uuid.UUID
	OccurredAt  time.Time
}

// EventSink consumes committed events. Publish must not block on slow
// consumers and has no way to fail the mutation that produced the event.
type EventSink interface {
	Publish(ctx context.Context, evt Event)
}

// Sinks fans one event out to several sinks in order.
type Sinks []EventSink

func (s Sinks) Publish(ctx context.Context, evt Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Publish(ctx, evt)
		}
	}
}

type discardSink struct{}

func (discardSink) Publish(context.Context, Event) {}
