package job

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
	StatusOnHold Status = "on_hold"
	StatusFilled Status = "filled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusOnHold, StatusFilled:
		return true
	default:
		return false
	}
}

type Metadata struct {
	EmploymentType  string
	ExperienceLevel string
	Remote          bool
}

type Job struct {
	ID          uuid.UUID
	Title       string
	Company     string
	Description string
	Location    string
	Salary      *string
	Status      Status
	PostedAt    time.Time
	Deadline    *time.Time
	Metadata    Metadata
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AcceptingApplications reports whether new applications may be filed at now.
func (j Job) AcceptingApplications(now time.Time) bool {
	if j.Status != StatusOpen {
		return false
	}
	if j.Deadline != nil && now.After(*j.Deadline) {
		return false
	}
	return true
}
