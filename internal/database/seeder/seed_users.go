package seeder

import (
	"context"

	"job-tracker/internal/database"
	"job-tracker/internal/domain/user"
	ucauth "job-tracker/internal/usecase/auth"

	"github.com/google/uuid"
)

type UsersSeeder struct {
	Password   string
	BcryptCost int
}

func (UsersSeeder) Name() string { return "users" }

func (s UsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "full_name", "role", "is_active"); err != nil {
		return err
	}

	hash, err := ucauth.HashPassword(s.Password, s.BcryptCost)
	if err != nil {
		return err
	}

	items := []struct {
		Email    string
		FullName string
		Role     user.Role
	}{
		{Email: "admin@example.com", FullName: "Demo Admin", Role: user.RoleAdmin},
		{Email: "recruiter@example.com", FullName: "Demo Recruiter", Role: user.RoleRecruiter},
		{Email: "seeker@example.com", FullName: "Demo Seeker", Role: user.RoleJobSeeker},
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO users (id, email, password_hash, full_name, role, is_active)
				 VALUES ($1, $2, $3, $4, $5, TRUE)
				 ON CONFLICT (email) DO NOTHING`,
				uuid.New(), it.Email, hash, it.FullName, string(it.Role),
			); err != nil {
				return err
			}
		}
		return nil
	})
}
