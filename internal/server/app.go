// Package server wires the credential store, telemetry collectors, HTTP
// surface and lifecycle controller into a runnable application, and handles
// daemon-mode signal-driven shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benrowan/crusty-crawler/internal/logging"
	"github.com/benrowan/crusty-crawler/internal/server/auth"
	"github.com/benrowan/crusty-crawler/internal/server/config"
	"github.com/benrowan/crusty-crawler/internal/server/hardware"
	"github.com/benrowan/crusty-crawler/internal/server/httpserver"
	"github.com/benrowan/crusty-crawler/internal/server/lifecycle"
	"github.com/benrowan/crusty-crawler/internal/server/notify"
	"github.com/benrowan/crusty-crawler/internal/server/status"
	"github.com/benrowan/crusty-crawler/internal/server/sysinfo"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *auth.Store
	runtime *lifecycle.Controller
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel)

	store, err := auth.NewStore(c.AuthFile, notify.NewSMTPNotifier(logger))
	if err != nil {
		return nil, fmt.Errorf("credential store init error: %w", err)
	}

	cache := hardware.NewCache(hardware.NewSensorProber(), c.HardwareTTL)
	assembler := status.NewAssembler(sysinfo.NewCollector(), cache)

	handler := httpserver.NewRouter(httpserver.RouterDeps{
		Validator: store,
		Report:    assembler,
		StaticDir: c.StaticDir,
		Logger:    logger,
	})

	runtime := lifecycle.NewController(c.BindHost, handler, logger)

	return &App{config: c, logger: logger, store: store, runtime: runtime}, nil
}

// Store exposes the credential store to the CLI frontend.
func (app *App) Store() *auth.Store { return app.store }

// Runtime exposes the lifecycle controller to the CLI frontend.
func (app *App) Runtime() *lifecycle.Controller { return app.runtime }

// Logger exposes the application logger.
func (app *App) Logger() logging.Logger { return app.logger }

// Config exposes the loaded configuration.
func (app *App) Config() *config.Config { return app.config }

// RunDaemon starts the server on the configured port and blocks until the
// context is cancelled or an OS signal arrives, then stops the server.
func (app *App) RunDaemon(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting in daemon mode", "port", app.config.Port)

	if err := app.runtime.Start(app.config.Port); err != nil {
		return err
	}

	app.initSignalHandler(cancelFunc)

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")
	return app.runtime.Stop()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}
