package command

import (
	"context"

	"job-tracker/internal/app"
	"job-tracker/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type Server struct{}

func (cmd Server) Command(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API and the realtime listener",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := setup(config.Load)
			if err != nil {
				return err
			}
			return cmd.main(ctx, cfg, logger)
		},
	}
}

func (cmd Server) main(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	httpAddr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return err
	}
	realtimeAddr, err := app.ListenAddr(cfg.App.RealtimePort)
	if err != nil {
		return err
	}

	server, cleanup, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.WithError(err).Warn("cleanup failed")
		}
	}()

	err = server.Run(ctx, httpAddr, realtimeAddr)
	logger.Info("server stopped")
	return err
}
