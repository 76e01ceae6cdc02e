package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationFilter struct {
	JobID  *uuid.UUID
	UserID *uuid.UUID
	Status application.Status
	Limit  int
	Offset int
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, a application.Application) (application.Application, error)
	GetApplicationByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	ExistsForJobAndUser(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	UpdateApplication(ctx context.Context, a application.Application) (application.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
	ListApplications(ctx context.Context, f ApplicationFilter) ([]application.Application, error)
	CountApplicationsByStatus(ctx context.Context) (map[application.Status]int, error)
	CountApplicationsSince(ctx context.Context, since time.Time) (int, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, user_id, full_name, email, phone, cover_letter, status, applied_at,
	reviewed_at, interview_at, notes, reviewed_by, priority, source, created_at, updated_at`

func (r *PostgresApplicationRepository) CreateApplication(ctx context.Context, a application.Application) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO applications (id, job_id, user_id, full_name, email, phone, cover_letter, status, applied_at,
			notes, priority, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+applicationColumns,
		a.ID, a.JobID, a.UserID, a.FullName, a.Email, a.Phone, a.CoverLetter, string(a.Status), a.AppliedAt,
		a.Notes, a.Priority, a.Source,
	)
	created, err := scanApplication(row)
	if errors.Is(err, database.ErrUniqueViolation) {
		return application.Application{}, ErrDuplicateApplication
	}
	return created, err
}

func (r *PostgresApplicationRepository) GetApplicationByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) ExistsForJobAndUser(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)`, jobID, userID)
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

// UpdateApplication writes every mutable column and stamps updated_at in one
// statement. applied_at, job_id and user_id are immutable.
func (r *PostgresApplicationRepository) UpdateApplication(ctx context.Context, a application.Application) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE applications
		 SET full_name = $2, email = $3, phone = $4, cover_letter = $5, status = $6, reviewed_at = $7,
			interview_at = $8, notes = $9, reviewed_by = $10, priority = $11, source = $12, updated_at = now()
		 WHERE id = $1
		 RETURNING `+applicationColumns,
		a.ID, a.FullName, a.Email, a.Phone, a.CoverLetter, string(a.Status), a.ReviewedAt,
		a.InterviewAt, a.Notes, a.ReviewedBy, a.Priority, a.Source,
	)
	updated, err := scanApplication(row)
	if errors.Is(err, database.ErrForeignKeyViolation) {
		return application.Application{}, ErrInvalidReference
	}
	return updated, err
}

func (r *PostgresApplicationRepository) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) ListApplications(ctx context.Context, f ApplicationFilter) ([]application.Application, error) {
	limit, offset := clampPage(f.Limit, f.Offset, 50, 200)

	q := `SELECT ` + applicationColumns + ` FROM applications WHERE 1 = 1`
	var args []any
	if f.JobID != nil {
		args = append(args, *f.JobID)
		q += fmt.Sprintf(` AND job_id = $%d`, len(args))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		q += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		q += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(` ORDER BY priority DESC, applied_at ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) CountApplicationsByStatus(ctx context.Context) (map[application.Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(1) FROM applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[application.Status]int{}
	for rows.Next() {
		var s string
		var c int
		if err := rows.Scan(&s, &c); err != nil {
			return nil, err
		}
		out[application.Status(s)] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) CountApplicationsSince(ctx context.Context, since time.Time) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM applications WHERE applied_at >= $1`, since).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		a      application.Application
		status string
	)
	err := row.Scan(
		&a.ID, &a.JobID, &a.UserID, &a.FullName, &a.Email, &a.Phone, &a.CoverLetter, &status, &a.AppliedAt,
		&a.ReviewedAt, &a.InterviewAt, &a.Notes, &a.ReviewedBy, &a.Priority, &a.Source, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}
