package command

import (
	"context"

	"job-tracker/internal/config"
	dbpostgres "job-tracker/internal/database/postgres"
	"job-tracker/internal/database/seeder"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type Seed struct{}

func (cmd Seed) Command(ctx context.Context) *cobra.Command {
	var password string
	c := &cobra.Command{
		Use:   "seed",
		Short: "insert demo users and jobs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := setup(config.LoadDatabase)
			if err != nil {
				return err
			}
			return cmd.main(ctx, cfg, logger, password)
		},
	}
	c.Flags().StringVar(&password, "password", seeder.DefaultDemoPassword, "password for the demo accounts")
	return c
}

func (cmd Seed) main(ctx context.Context, cfg config.Config, logger *log.Logger, password string) error {
	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return seeder.Runner{Seeders: seeder.Defaults(password, 0), Logger: logger}.Run(ctx, db)
}
