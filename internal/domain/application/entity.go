package application

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusInterview   Status = "interview"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusInterview, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	UserID      uuid.UUID
	FullName    string
	Email       string
	Phone       string
	CoverLetter string
	Status      Status
	AppliedAt   time.Time
	ReviewedAt  *time.Time
	InterviewAt *time.Time
	Notes       string
	ReviewedBy  *uuid.UUID
	Priority    int
	Source      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
