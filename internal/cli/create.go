package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/dto"
)

func newCreateCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project from the site template",
		Long: `Create a project directory from the site template.

The template is copied, the site config and manifest are rewritten with the
project name, and the setup command runs if one is configured. If any step
fails, nothing is left behind in the workspace.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(cmd, rootOpts)
			if err != nil {
				return err
			}

			name := args[0]
			path, err := svc.CreateProject(cmd.Context(), name)
			if err != nil {
				return err
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(dto.CreateProjectResponse{Name: name, Path: path},
				fmt.Sprintf("created %s at %s", name, path))
		},
	}
}
