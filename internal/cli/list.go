package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/dto"
	"github.com/jsamuelsen11/sitesmith/internal/domain/project"
)

func newListCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects in the workspace",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory(cmd, rootOpts)
			if err != nil {
				return err
			}

			projects, err := svc.ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(dto.ToProjectListResponse(projects), projectTable(projects))
		},
	}
}

func newGetCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a single project",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(cmd, rootOpts)
			if err != nil {
				return err
			}

			p, err := svc.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(dto.ToProjectResponse(p), projectTable([]project.Project{*p}))
		},
	}
}

// projectTable renders projects as aligned columns. The trailing newline is
// trimmed because Success adds one.
func projectTable(projects []project.Project) string {
	if len(projects) == 0 {
		return "no projects"
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tMANIFEST NAME\tUPDATED\tPATH")
	for _, p := range projects {
		manifest := p.ManifestName
		if manifest == "" {
			manifest = "-"
		}
		updated := "-"
		if !p.UpdatedAt.IsZero() {
			updated = p.UpdatedAt.Local().Format(time.DateTime)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, manifest, updated, p.Path)
	}
	_ = tw.Flush()

	return strings.TrimRight(b.String(), "\n")
}
