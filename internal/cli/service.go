package cli

import (
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/clients/acl"
	"github.com/jsamuelsen11/sitesmith/internal/adapters/localfs"
	"github.com/jsamuelsen11/sitesmith/internal/adapters/process"
	"github.com/jsamuelsen11/sitesmith/internal/app"
	"github.com/jsamuelsen11/sitesmith/internal/platform/config"
	"github.com/jsamuelsen11/sitesmith/internal/platform/httpclient"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// remoteServiceName identifies the server in client spans and metrics.
const remoteServiceName = "sitesmith-api"

// buildService loads configuration and resolves the project service from a
// samber/do container: the local workspace service, or the HTTP client when
// a server URL is configured.
func buildService(cmd *cobra.Command, opts *RootOptions) (ports.ProjectService, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "loading config", err)
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	logger := logging.New(level, "text", cmd.ErrOrStderr())

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)

	if cfg.Remote.Enabled() {
		registerRemote(injector, cfg, logger)
	} else {
		registerLocal(injector, cfg, logger)
	}

	svc, err := do.Invoke[ports.ProjectService](injector)
	if err != nil {
		return nil, fmt.Errorf("resolving project service: %w", err)
	}

	logger.Debug("service ready",
		slog.Bool("remote", cfg.Remote.Enabled()),
		slog.String("profile", opts.Profile),
	)
	return svc, nil
}

// loadConfig loads the profile with --server applied as the last layer, so
// the URL is validated with the rest of the remote section.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var loadOpts []config.Option
	if opts.ConfigDir != "" {
		loadOpts = append(loadOpts, config.WithConfigDir(opts.ConfigDir))
	}
	if opts.Server != "" {
		loadOpts = append(loadOpts, config.WithOverrides(map[string]any{"remote.base_url": opts.Server}))
	}
	return config.Load(opts.Profile, loadOpts...)
}

func registerLocal(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (ports.FileSystem, error) {
		return localfs.New(), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.ProcessRunner, error) {
		return process.New(logger, process.WithDefaultTimeout(cfg.Workspace.Setup.Timeout)), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		fsys := do.MustInvoke[ports.FileSystem](i)
		runner := do.MustInvoke[ports.ProcessRunner](i)
		return app.NewProjectService(fsys, runner, cfg.Workspace, logger), nil
	})
}

func registerRemote(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*httpclient.Client, error) {
		return httpclient.New(&cfg.Remote, remoteServiceName, nil, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		return acl.NewProjectClient(client, logger), nil
	})
}
