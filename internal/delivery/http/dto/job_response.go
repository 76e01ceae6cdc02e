package dto

import (
	"time"

	"job-tracker/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Salary          *string    `json:"salary"`
	Status          job.Status `json:"status"`
	PostedAt        string     `json:"posted_at"`
	Deadline        *string    `json:"deadline"`
	EmploymentType  string     `json:"employment_type,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	Remote          bool       `json:"is_remote"`
	UpdatedAt       string     `json:"updated_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:              j.ID,
		Title:           j.Title,
		Company:         j.Company,
		Description:     j.Description,
		Location:        j.Location,
		Salary:          j.Salary,
		Status:          j.Status,
		PostedAt:        formatTime(j.PostedAt),
		Deadline:        formatTimePtr(j.Deadline),
		EmploymentType:  j.Metadata.EmploymentType,
		ExperienceLevel: j.Metadata.ExperienceLevel,
		Remote:          j.Metadata.Remote,
		UpdatedAt:       formatTime(j.UpdatedAt),
	}
}

func NewJobListResponse(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewJobResponse(it))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := formatTime(*t)
	return &s
}
