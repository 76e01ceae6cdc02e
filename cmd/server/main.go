package main

import (
	"context"
	"os/signal"
	"syscall"

	"job-tracker/cmd/server/command"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:          "job-tracker",
		Short:        "Job application tracker API",
		SilenceUsage: true,
	}

	root.AddCommand(
		command.Server{}.Command(ctx),
		command.Migrate{}.Command(ctx),
		command.Seed{}.Command(ctx),
	)

	if err := root.Execute(); err != nil {
		log.WithContext(ctx).Fatalf("failed to execute root command: %v", err)
	}
}
