package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/dto"
)

func newRenameCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a project and rewrite its references",
		Long: `Rename a project directory, then update its manifest name and every
reference file that mentions the old name. A failure at any step moves the
directory back and restores the original file contents.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(cmd, rootOpts)
			if err != nil {
				return err
			}

			oldName, newName := args[0], args[1]
			renamed, err := svc.RenameProject(cmd.Context(), oldName, newName)
			if err != nil {
				return err
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(dto.RenameProjectResponse{OldName: oldName, NewName: newName, Renamed: renamed},
				fmt.Sprintf("renamed %s to %s", oldName, newName))
		},
	}
}
