package notify

import (
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/workflow"

	"github.com/google/uuid"
)

// Message is the payload pushed to subscribers.
type Message struct {
	Type          string    `json:"type"`
	JobID         string    `json:"job_id,omitempty"`
	ApplicationID string    `json:"application_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	OldStatus     string    `json:"old_status,omitempty"`
	NewStatus     string    `json:"new_status,omitempty"`
	Summary       string    `json:"summary"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewMessage(msgType string, evt workflow.Event) Message {
	m := Message{
		Type:      msgType,
		OldStatus: evt.OldStatus,
		NewStatus: evt.NewStatus,
		Summary:   summarize(evt),
		Timestamp: evt.OccurredAt.UTC(),
	}
	if id := jobID(evt); id != uuid.Nil {
		m.JobID = id.String()
	}
	if evt.Application != nil {
		m.ApplicationID = evt.Application.ID.String()
		m.UserID = evt.Application.UserID.String()
	}
	return m
}

func summarize(evt workflow.Event) string {
	switch evt.Kind {
	case workflow.EventJobCreated:
		return fmt.Sprintf("New job posted: %s", jobLabel(evt))
	case workflow.EventJobUpdated:
		return fmt.Sprintf("%s is now %s", jobLabel(evt), humanize(evt.NewStatus))
	case workflow.EventJobDeleted:
		return fmt.Sprintf("%s was removed", jobLabel(evt))
	case workflow.EventApplicationCreated:
		return fmt.Sprintf("New application from %s", applicantName(evt))
	case workflow.EventApplicationStatusChanged:
		return fmt.Sprintf("Application status changed from %s to %s", humanize(evt.OldStatus), humanize(evt.NewStatus))
	case workflow.EventApplicationDeleted:
		return "Application was removed"
	default:
		return string(evt.Kind)
	}
}

func jobLabel(evt workflow.Event) string {
	if evt.Job == nil {
		return "Job"
	}
	if evt.Job.Company == "" {
		return evt.Job.Title
	}
	return evt.Job.Title + " at " + evt.Job.Company
}

func applicantName(evt workflow.Event) string {
	if evt.Application == nil || evt.Application.FullName == "" {
		return "an applicant"
	}
	return evt.Application.FullName
}

// humanize turns "under_review" into "Under Review".
func humanize(status string) string {
	words := strings.Split(status, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
