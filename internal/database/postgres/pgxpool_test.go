package postgres

import (
	"errors"
	"testing"

	"job-tracker/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: pgx.ErrNoRows, want: database.ErrNoRows},
		{name: "unique", in: &pgconn.PgError{Code: "23505", ConstraintName: "applications_job_id_user_id_key"}, want: database.ErrUniqueViolation},
		{name: "foreign key", in: &pgconn.PgError{Code: "23503", ConstraintName: "applications_reviewed_by_fkey"}, want: database.ErrForeignKeyViolation},
		{name: "other pg error", in: &pgconn.PgError{Code: "42P01"}, want: nil},
		{name: "passthrough", in: other, want: other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translate(tc.in)
			if tc.in == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if tc.want == nil {
				if got != tc.in {
					t.Fatalf("expected error passed through, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
