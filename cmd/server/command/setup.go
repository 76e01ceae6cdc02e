package command

import (
	"job-tracker/internal/app"
	"job-tracker/internal/config"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// setup loads configuration with load and builds the process logger from it.
// It runs inside RunE so that help and argument errors need no environment.
func setup(load func() (config.Config, error)) (config.Config, *log.Logger, error) {
	cfg, err := load()
	if err != nil {
		return config.Config{}, nil, errors.Wrap(err, "load config")
	}
	return cfg, app.NewLogger(cfg.Log), nil
}
