// Package main runs the sitesmith HTTP server. Dependencies are wired with
// samber/do v2. On SIGINT or SIGTERM the server drains; requests still running
// after the drain period are canceled, so their transactions roll back at the
// next step boundary before the process exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/sitesmith/internal/adapters/http"
	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/sitesmith/internal/adapters/localfs"
	"github.com/jsamuelsen11/sitesmith/internal/adapters/process"
	"github.com/jsamuelsen11/sitesmith/internal/app"
	"github.com/jsamuelsen11/sitesmith/internal/platform/config"
	"github.com/jsamuelsen11/sitesmith/internal/platform/health"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
	"github.com/jsamuelsen11/sitesmith/internal/platform/telemetry"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

const (
	drainTimeout        = 15 * time.Second
	telemetryFlushLimit = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushLimit)
		defer cancel()
		if err := providers.Shutdown(flushCtx); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, providers.Metrics)
	registerDependencies(injector, cfg, logger)

	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	svc := do.MustInvoke[*app.ProjectService](injector)
	logger.Info("workspace ready",
		slog.String("profile", profile),
		slog.String("root", svc.Root()),
		slog.String("template", svc.TemplateDir()),
		slog.Bool("setup_enabled", cfg.Workspace.Setup.Enabled()),
	)

	if err := server.Run(ctx, drainTimeout); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (ports.FileSystem, error) {
		return localfs.New(), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.ProcessRunner, error) {
		return process.New(logger, process.WithDefaultTimeout(cfg.Workspace.Setup.Timeout)), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.ProjectService, error) {
		return app.NewProjectService(
			do.MustInvoke[ports.FileSystem](i),
			do.MustInvoke[ports.ProcessRunner](i),
			cfg.Workspace,
			logger,
			app.WithMetrics(do.MustInvoke[*telemetry.Metrics](i)),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		return do.MustInvoke[*app.ProjectService](i), nil
	})

	// Readiness: the workspace root may not exist until the first create,
	// the template directory must.
	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		svc := do.MustInvoke[*app.ProjectService](i)
		fsys := do.MustInvoke[ports.FileSystem](i)

		registry := health.New()
		registry.Register(health.NewCreatableDirChecker("workspace", svc.Root(), fsys))
		registry.Register(health.NewDirChecker("template", svc.TemplateDir(), fsys))
		return registry, nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		return adapthttp.NewRouter(
			handlers.NewProjectHandler(do.MustInvoke[ports.ProjectService](i)),
			handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i)),
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(do.MustInvoke[*telemetry.Metrics](i)),
			middleware.Logging(logger),
			middleware.Deadline(cfg.Server.RequestTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		return adapthttp.NewServer(cfg.Server, do.MustInvoke[nethttp.Handler](i), logger), nil
	})
}
