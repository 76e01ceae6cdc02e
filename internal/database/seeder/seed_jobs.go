package seeder

import (
	"context"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/job"

	"github.com/google/uuid"
)

type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

func (JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "title", "company", "description", "location", "status", "posted_at"); err != nil {
		return err
	}

	items := []struct {
		Title       string
		Company     string
		Location    string
		Description string
		Type        string
	}{
		{Title: "Backend Engineer", Company: "Acme", Location: "Remote", Description: "Build and run Go services.", Type: "full_time"},
		{Title: "Frontend Engineer", Company: "Acme", Location: "Jakarta", Description: "Own the hiring dashboard UI.", Type: "full_time"},
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM jobs WHERE title = $1 AND company = $2)`,
				it.Title, it.Company,
			).Scan(&exists); err != nil {
				return err
			}
			if exists {
				continue
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (id, title, company, description, location, status, employment_type, is_remote)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				uuid.New(), it.Title, it.Company, it.Description, it.Location, string(job.StatusOpen), it.Type, it.Location == "Remote",
			); err != nil {
				return err
			}
		}
		return nil
	})
}
