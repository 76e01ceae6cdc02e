package command

import (
	"context"
	"errors"

	"job-tracker/internal/config"
	"job-tracker/internal/database/migration"
	dbpostgres "job-tracker/internal/database/postgres"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type Migrate struct{}

func (cmd Migrate) Command(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "apply or roll back the schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, logger, err := setup(config.LoadDatabase)
			if err != nil {
				return err
			}
			return cmd.main(ctx, cfg, logger, args[0])
		},
	}
}

func (cmd Migrate) main(ctx context.Context, cfg config.Config, logger *log.Logger, direction string) error {
	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner := migration.Runner{DatabaseName: cfg.Database.DBName}
	switch direction {
	case "up":
		err = runner.Up(db.SQLDB())
	case "down":
		err = runner.Down(db.SQLDB())
	default:
		return errors.New("unknown migration direction: " + direction)
	}
	if err != nil {
		return err
	}

	logger.WithField("direction", direction).Info("migration applied")
	return nil
}
