package command

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newRoot(t *testing.T) *cobra.Command {
	t.Helper()
	ctx := context.Background()
	root := &cobra.Command{Use: "job-tracker", SilenceUsage: true, SilenceErrors: true}
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.AddCommand(Server{}.Command(ctx), Migrate{}.Command(ctx), Seed{}.Command(ctx))
	return root
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_NAME", "APP_ENV", "HTTP_PORT", "DB_HOST", "DB_NAME", "DB_USER",
		"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestHelpNeedsNoEnvironment(t *testing.T) {
	clearEnv(t)

	for _, args := range [][]string{{"--help"}, {"migrate", "--help"}, {"serve", "--help"}, {"seed", "--help"}} {
		root := newRoot(t)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: unexpected err: %v", args, err)
		}
	}
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	clearEnv(t)

	root := newRoot(t)
	root.SetArgs([]string{"migrate", "sideways"})
	err := root.Execute()
	if err == nil || strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected argument error before config load, got %v", err)
	}
}

func TestMigrateDoesNotRequireJWTSecrets(t *testing.T) {
	clearEnv(t)

	root := newRoot(t)
	root.SetArgs([]string{"migrate", "up"})
	err := root.Execute()
	if err == nil {
		t.Fatalf("expected missing database env error")
	}
	if !strings.Contains(err.Error(), "DB_HOST") || strings.Contains(err.Error(), "JWT_") {
		t.Fatalf("expected only database variables reported, got %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("expected wrapped config error, got %v", err)
	}
}
