package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/dto"
)

func newValidateNameCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-name <name>",
		Short: "Check a project name without touching the workspace",
		Long: `Check a candidate project name against the naming rules. Nothing is
read from or written to disk. Exits 2 when the name is invalid.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(cmd, rootOpts)
			if err != nil {
				return err
			}

			v := svc.ValidateName(args[0])

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			text := "valid"
			if !v.Valid {
				text = "invalid: " + v.Error
			}
			if err := out.Success(dto.ToNameValidationResponse(v), text); err != nil {
				return err
			}
			if !v.Valid {
				// Already reported on stdout; only the exit code is left.
				return &ExitError{Code: ExitUsage, Message: "invalid name", Err: errors.New(v.Error)}
			}
			return nil
		},
	}
}
