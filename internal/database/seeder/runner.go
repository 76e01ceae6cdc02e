package seeder

import (
	"context"
	"errors"

	"job-tracker/internal/database"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Runner struct {
	Seeders []Seeder
	Logger  logrus.FieldLogger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return pkgerrors.Wrapf(err, "seed %s", s.Name())
		}
		if r.Logger != nil {
			r.Logger.WithField("seeder", s.Name()).Info("seed applied")
		}
	}
	return nil
}
