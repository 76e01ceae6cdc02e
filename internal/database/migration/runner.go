package migration

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	pkgerrors "github.com/pkg/errors"
)

//go:embed sql/*.sql
var files embed.FS

// Runner applies the embedded schema migrations.
type Runner struct {
	DatabaseName string
}

func (r Runner) Up(db *sql.DB) error {
	m, err := r.prepare(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return pkgerrors.Wrap(err, "migration: up")
	}
	return nil
}

func (r Runner) Down(db *sql.DB) error {
	m, err := r.prepare(db)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return pkgerrors.Wrap(err, "migration: down")
	}
	return nil
}

func (r Runner) prepare(db *sql.DB) (*migrate.Migrate, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}

	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "migration: open embedded source")
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{DatabaseName: r.DatabaseName})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "migration: init driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, r.DatabaseName, driver)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create migrations instance")
	}
	return m, nil
}
