package notify

import (
	"job-tracker/internal/workflow"
	"job-tracker/internal/ws"

	"github.com/google/uuid"
)

type Target string

const (
	TargetBroadcast Target = "broadcast"
	TargetJob       Target = "job"
	TargetOwner     Target = "owner"
)

// Route addresses one event kind.
type Route struct {
	Type    string
	Targets []Target
}

// Routes is the event to channel table.
var Routes = map[workflow.EventKind]Route{
	workflow.EventJobCreated:               {Type: "job_created", Targets: []Target{TargetBroadcast}},
	workflow.EventJobUpdated:               {Type: "job_updated", Targets: []Target{TargetBroadcast, TargetJob}},
	workflow.EventJobDeleted:               {Type: "job_deleted", Targets: []Target{TargetBroadcast, TargetJob}},
	workflow.EventApplicationCreated:       {Type: "application_created", Targets: []Target{TargetJob}},
	workflow.EventApplicationStatusChanged: {Type: "application_status_changed", Targets: []Target{TargetOwner, TargetJob}},
	workflow.EventApplicationDeleted:       {Type: "application_deleted", Targets: []Target{TargetOwner, TargetJob}},
}

// Channels resolves a route's targets against an event. Targets the event
// cannot address are skipped; duplicates collapse.
func Channels(route Route, evt workflow.Event) []string {
	out := make([]string, 0, len(route.Targets))
	seen := make(map[string]struct{}, len(route.Targets))
	for _, target := range route.Targets {
		channel, ok := resolve(target, evt)
		if !ok {
			continue
		}
		if _, dup := seen[channel]; dup {
			continue
		}
		seen[channel] = struct{}{}
		out = append(out, channel)
	}
	return out
}

func resolve(target Target, evt workflow.Event) (string, bool) {
	switch target {
	case TargetBroadcast:
		return ws.ChannelBroadcast, true
	case TargetJob:
		if id := jobID(evt); id != uuid.Nil {
			return ws.JobChannel(id), true
		}
	case TargetOwner:
		if evt.Application != nil && evt.Application.UserID != uuid.Nil {
			return ws.UserChannel(evt.Application.UserID), true
		}
	}
	return "", false
}

func jobID(evt workflow.Event) uuid.UUID {
	switch {
	case evt.Job != nil:
		return evt.Job.ID
	case evt.Application != nil:
		return evt.Application.JobID
	default:
		return uuid.Nil
	}
}
