package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"job-tracker/internal/config"
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/delivery/http/routes"
	v1 "job-tracker/internal/delivery/http/routes/v1"
	"job-tracker/internal/usecase"
	ucauth "job-tracker/internal/usecase/auth"
	"job-tracker/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// App is the HTTP API plus the websocket listener. The websocket endpoint
// runs on its own net/http server because it needs connection hijacking.
type App struct {
	Fiber    *fiber.App
	Realtime *http.Server

	logger logrus.FieldLogger
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	mux := http.NewServeMux()
	mux.Handle("/ws", ws.NewHandler(c.Registry, c.JWT, c.Users, ws.ClientOptions{
		SendBuffer:   c.Config.Realtime.SendBuffer,
		WriteTimeout: c.Config.Realtime.WriteTimeout,
		PongTimeout:  c.Config.Realtime.PongTimeout,
	}, c.Logger.WithField("component", "ws")))

	return &App{
		Fiber:    f,
		Realtime: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		logger:   c.Logger,
	}
}

// Bootstrap wires a Container into an App. The returned cleanup releases the
// container and must run after the servers stopped.
func Bootstrap(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

// Run serves both listeners until ctx is cancelled or one of them fails,
// then shuts both down.
func (a *App) Run(ctx context.Context, httpAddr, realtimeAddr string) error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- a.Fiber.Listen(httpAddr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	a.Realtime.Addr = realtimeAddr
	go func() {
		if err := a.Realtime.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	a.logger.WithFields(logrus.Fields{"http": httpAddr, "realtime": realtimeAddr}).Info("server started")

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Join(runErr, a.Shutdown(shutdownCtx))
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Realtime.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func registerGlobalMiddleware(app *fiber.App, logger logrus.FieldLogger) {
	if app == nil {
		return
	}

	accessLog := middleware.NewAccessLogMiddleware(logger.WithField("component", "http"))
	errMw := middleware.NewErrorMiddleware(logger.WithField("component", "http"))
	app.Use(accessLog.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	authOpts := ucauth.Options{AllowRecruiterSignup: c.Config.App.AllowRecruiterSignup}
	jobList := usecase.NewJobListUsecase(c.Jobs, c.Cache, c.Config.Redis.TTL, c.Logger)
	dashboard := usecase.NewDashboardUsecase(c.Jobs, c.Applications, c.Cache, time.Minute, c.Logger)
	appLists := usecase.NewApplicationListUsecase(c.Applications, c.Jobs, c.Logger)

	handlers := v1.Handlers{
		Auth:         handler.NewAuthHandler(usecase.NewAuthUsecase(c.Users, c.JWT, authOpts)),
		Users:        handler.NewUserHandler(usecase.NewUserUsecase(c.Users, 0)),
		Jobs:         handler.NewJobsHandler(jobList, c.Engine),
		Applications: handler.NewApplicationsHandler(c.Engine, appLists),
		Dashboard:    handler.NewDashboardHandler(dashboard),
		Realtime:     handler.NewRealtimeHandler(c.Registry),
	}

	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		handlers,
		middleware.NewAuthMiddleware(c.JWT, c.Users),
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
