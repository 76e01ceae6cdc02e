package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/job"

	"github.com/google/uuid"
)

type JobFilter struct {
	Status       job.Status
	Company      string
	PostedAfter  *time.Time
	PostedBefore *time.Time
	Limit        int
	Offset       int
}

type JobRepository interface {
	CreateJob(ctx context.Context, j job.Job) (job.Job, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	UpdateJob(ctx context.Context, j job.Job) (job.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
	ListJobs(ctx context.Context, f JobFilter) ([]job.Job, error)
	CountJobsByStatus(ctx context.Context) (map[job.Status]int, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, title, company, description, location, salary, status, posted_at, deadline,
	employment_type, experience_level, is_remote, created_at, updated_at`

func (r *PostgresJobRepository) CreateJob(ctx context.Context, j job.Job) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, title, company, description, location, salary, status, posted_at, deadline,
			employment_type, experience_level, is_remote)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+jobColumns,
		j.ID, j.Title, j.Company, j.Description, j.Location, j.Salary, string(j.Status), j.PostedAt, j.Deadline,
		j.Metadata.EmploymentType, j.Metadata.ExperienceLevel, j.Metadata.Remote,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) GetJobByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

// UpdateJob writes every mutable column and stamps updated_at in one statement.
func (r *PostgresJobRepository) UpdateJob(ctx context.Context, j job.Job) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE jobs
		 SET title = $2, company = $3, description = $4, location = $5, salary = $6, status = $7,
			deadline = $8, employment_type = $9, experience_level = $10, is_remote = $11, updated_at = now()
		 WHERE id = $1
		 RETURNING `+jobColumns,
		j.ID, j.Title, j.Company, j.Description, j.Location, j.Salary, string(j.Status),
		j.Deadline, j.Metadata.EmploymentType, j.Metadata.ExperienceLevel, j.Metadata.Remote,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) DeleteJob(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListJobs(ctx context.Context, f JobFilter) ([]job.Job, error) {
	limit, offset := clampPage(f.Limit, f.Offset, 20, 100)

	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if c := strings.TrimSpace(f.Company); c != "" {
		add("lower(company) = lower($%d)", c)
	}
	if f.PostedAfter != nil {
		add("posted_at >= $%d", *f.PostedAfter)
	}
	if f.PostedBefore != nil {
		add("posted_at < $%d", *f.PostedBefore)
	}

	q := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(` ORDER BY posted_at DESC, id ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) CountJobsByStatus(ctx context.Context) (map[job.Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[job.Status]int{}
	for rows.Next() {
		var s string
		var c int
		if err := rows.Scan(&s, &c); err != nil {
			return nil, err
		}
		out[job.Status(s)] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var (
		j      job.Job
		status string
	)
	err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Description, &j.Location, &j.Salary, &status, &j.PostedAt, &j.Deadline,
		&j.Metadata.EmploymentType, &j.Metadata.ExperienceLevel, &j.Metadata.Remote, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	j.Status = job.Status(status)
	return j, nil
}
