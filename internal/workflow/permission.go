package workflow

import (
	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
)

// FieldSet is a bit set of Application fields.
type FieldSet uint16

const (
	FieldFullName FieldSet = 1 << iota
	FieldEmail
	FieldPhone
	FieldCoverLetter
	FieldNotes
	FieldPriority
	FieldSource
	FieldStatus
	FieldReviewer
	FieldInterviewDate
)

const (
	// ApplicantFields are owned by the applicant.
	ApplicantFields = FieldFullName | FieldEmail | FieldPhone | FieldCoverLetter | FieldNotes | FieldPriority | FieldSource

	// ReviewFields drive the review workflow and are staff-only.
	ReviewFields = FieldStatus | FieldReviewer | FieldInterviewDate
)

func (s FieldSet) Has(f FieldSet) bool { return s&f == f }

func (s FieldSet) Empty() bool { return s == 0 }

type PermissionRequest struct {
	ActorRole user.Role
	ActorID   uuid.UUID
	OwnerID   uuid.UUID
	Requested FieldSet
}

// Permit returns the subset of the requested Application fields the actor may
// write. A job seeker touching someone else's application is ErrForbidden;
// a job seeker asking for review fields just gets them filtered out.
func Permit(req PermissionRequest) (FieldSet, error) {
	switch req.ActorRole {
	case user.RoleRecruiter, user.RoleAdmin:
		return req.Requested & (ApplicantFields | ReviewFields), nil
	case user.RoleJobSeeker:
		if req.ActorID == uuid.Nil || req.ActorID != req.OwnerID {
			return 0, ErrForbidden
		}
		return req.Requested & ApplicantFields, nil
	default:
		return 0, ErrForbidden
	}
}

type Operation string

const (
	OpCreateJob              Operation = "job.create"
	OpEditJob                Operation = "job.edit"
	OpUpdateJobStatus        Operation = "job.status"
	OpDeleteJob              Operation = "job.delete"
	OpApply                  Operation = "application.create"
	OpWithdrawApplication    Operation = "application.withdraw"
	OpListJobApplications    Operation = "application.list_for_job"
	OpDeleteApplication      Operation = "application.delete"
	OpManageUsers            Operation = "user.manage"
	OpViewRealtimeStatistics Operation = "realtime.stats"
)

var operationRoles = map[Operation][]user.Role{
	OpCreateJob:              {user.RoleRecruiter, user.RoleAdmin},
	OpEditJob:                {user.RoleRecruiter, user.RoleAdmin},
	OpUpdateJobStatus:        {user.RoleRecruiter, user.RoleAdmin},
	OpDeleteJob:              {user.RoleAdmin},
	OpApply:                  {user.RoleJobSeeker},
	OpWithdrawApplication:    {user.RoleJobSeeker},
	OpListJobApplications:    {user.RoleRecruiter, user.RoleAdmin},
	OpDeleteApplication:      {user.RoleAdmin},
	OpManageUsers:            {user.RoleAdmin},
	OpViewRealtimeStatistics: {user.RoleAdmin},
}

// Authorize checks role-gated operations that do not depend on ownership.
func Authorize(role user.Role, op Operation) error {
	for _, r := range operationRoles[op] {
		if r == role {
			return nil
		}
	}
	return ErrForbidden
}
