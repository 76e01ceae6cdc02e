package dto

import (
	"job-tracker/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID          uuid.UUID          `json:"id"`
	JobID       uuid.UUID          `json:"job_id"`
	UserID      uuid.UUID          `json:"user_id"`
	FullName    string             `json:"full_name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone,omitempty"`
	CoverLetter string             `json:"cover_letter,omitempty"`
	Status      application.Status `json:"status"`
	AppliedAt   string             `json:"applied_at"`
	ReviewedAt  *string            `json:"reviewed_at"`
	ReviewedBy  *uuid.UUID         `json:"reviewed_by"`
	InterviewAt *string            `json:"interview_at"`
	Notes       string             `json:"notes,omitempty"`
	Priority    int                `json:"priority"`
	Source      string             `json:"source,omitempty"`
	UpdatedAt   string             `json:"updated_at"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		UserID:      a.UserID,
		FullName:    a.FullName,
		Email:       a.Email,
		Phone:       a.Phone,
		CoverLetter: a.CoverLetter,
		Status:      a.Status,
		AppliedAt:   formatTime(a.AppliedAt),
		ReviewedAt:  formatTimePtr(a.ReviewedAt),
		ReviewedBy:  a.ReviewedBy,
		InterviewAt: formatTimePtr(a.InterviewAt),
		Notes:       a.Notes,
		Priority:    a.Priority,
		Source:      a.Source,
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
}

func NewApplicationListResponse(items []application.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewApplicationResponse(it))
	}
	return out
}
