package app

import (
	"context"
	"errors"
	"time"

	"job-tracker/internal/config"
	"job-tracker/internal/database"
	dbpostgres "job-tracker/internal/database/postgres"
	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/notify"
	"job-tracker/internal/pkg/jwt"
	"job-tracker/internal/repository"
	"job-tracker/internal/usecase"
	"job-tracker/internal/workflow"
	"job-tracker/internal/ws"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

// Container owns the long-lived dependencies of one process. Everything it
// opens is released by Close.
type Container struct {
	Config config.Config
	Logger logrus.FieldLogger

	DB    database.DB
	Cache *cache.Redis
	JWT   *jwt.HMACService

	Users        *repository.PostgresUserRepository
	Jobs         *repository.PostgresJobRepository
	Applications *repository.PostgresApplicationRepository

	Registry   *ws.Registry
	Dispatcher *notify.Dispatcher
	Engine     *workflow.Engine
}

func NewContainer(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Container, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(ctx, cfg.Redis, logger.WithField("component", "cache")),
		JWT: jwt.NewHMACService(jwt.Options{
			Issuer:           cfg.App.AppName,
			AccessSecret:     cfg.JWT.AccessSecret,
			RefreshSecret:    cfg.JWT.RefreshSecret,
			AccessExpiresIn:  cfg.JWT.AccessExpiresIn,
			RefreshExpiresIn: cfg.JWT.RefreshExpiresIn,
		}),
		Users:        repository.NewPostgresUserRepository(db),
		Jobs:         repository.NewPostgresJobRepository(db),
		Applications: repository.NewPostgresApplicationRepository(db),
		Registry:     ws.NewRegistry(logger.WithField("component", "ws")),
	}

	c.Dispatcher = notify.NewDispatcher(
		c.Registry,
		otel.Meter(cfg.App.AppName),
		notify.WithLogger(logger.WithField("component", "notify")),
	)
	c.Engine = workflow.NewEngine(
		c.Jobs,
		c.Applications,
		c.Users,
		c.Dispatcher,
		workflow.WithCommitObserver(usecase.NewCacheInvalidator(c.Cache, logger.WithField("component", "cache"))),
		workflow.WithLogger(logger.WithField("component", "workflow")),
	)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Registry != nil {
		c.Registry.Close()
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
