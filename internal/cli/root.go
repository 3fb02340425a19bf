// Package cli implements sitectl, the command-line front end for project
// workspaces. Commands run against the local workspace by default, or
// against a running server when --server or remote.base_url is set.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/sitesmith/internal/platform/httpclient"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Profile   string
	ConfigDir string
	Format    string // "text" | "json"
	Server    string
	Verbose   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ServiceFactory builds the project service a command runs against.
type ServiceFactory func(cmd *cobra.Command, opts *RootOptions) (ports.ProjectService, error)

// NewRootCommand creates the sitectl root command wired to the real
// workspace or server.
func NewRootCommand() *cobra.Command {
	return newRootCommand(buildService)
}

func newRootCommand(factory ServiceFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sitectl",
		Short: "Create and rename site projects atomically",
		Long: `sitectl manages site projects in a workspace directory.

Create and rename run as transactions: every step is validated before it
becomes visible, and any failure rolls back the steps already applied.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitUsage, "invalid flag",
					fmt.Errorf("format %q must be one of %v", opts.Format, ValidFormats))
			}
			// One correlation ID per invocation ties together every request
			// a command sends in remote mode.
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(httpclient.WithCorrelationID(ctx, uuid.NewString()))
			return nil
		},
	}

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = "local"
	}

	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", profile, "config profile (defaults to $APP_PROFILE or local)")
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "directory holding base.yaml and profile files")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "", "sitesmith server URL; overrides remote.base_url")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log progress to stderr")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitUsage, "invalid flag", err)
	})

	cmd.AddCommand(newCreateCommand(opts, factory))
	cmd.AddCommand(newRenameCommand(opts, factory))
	cmd.AddCommand(newValidateNameCommand(opts, factory))
	cmd.AddCommand(newListCommand(opts, factory))
	cmd.AddCommand(newGetCommand(opts, factory))

	return cmd
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitUsage, "usage", err)
		}
		return nil
	}
}

// Execute runs the root command with args and returns the process exit
// code. Errors are reported on stderr in the selected format.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	format := "text"
	if f := cmd.PersistentFlags().Lookup("format"); f != nil && f.Value.String() == "json" {
		format = "json"
	}
	formatter := &OutputFormatter{Format: format, Writer: cmd.ErrOrStderr()}
	_ = formatter.Error(err)

	return GetExitCode(err)
}
