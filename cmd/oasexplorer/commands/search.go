package commands

import (
	"strconv"

	"github.com/spf13/cobra"
)

// hitView is the structured output form of a search hit.
type hitView struct {
	SpecIndex int    `json:"specIndex" yaml:"specIndex"`
	SpecTitle string `json:"specTitle" yaml:"specTitle"`
	operationView `yaml:",inline"`
}

func accessLabel(private bool) string {
	if private {
		return "private"
	}
	return "public"
}

func (a *app) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query> <file|url|->...",
		Short: "Search operations across documents",
		Long: `Search operations by a case-insensitive substring of their method, path,
summary, description, operationId, tags, parameter names and descriptions,
request body description, and response codes and descriptions.

Results are a flat list in document order; an operation with several tags is
listed once.`,
		Example: `  oasexplorer search pets openapi.yaml
  oasexplorer search -q "user id" pets.yaml users.json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkspace(cmd, args[1:])
			if err != nil {
				return err
			}
			hits := ws.SearchAll(args[0])

			w := cmd.OutOrStdout()
			if a.format != FormatText {
				views := make([]hitView, 0, len(hits))
				for _, h := range hits {
					views = append(views, hitView{
						SpecIndex:     h.SpecIndex,
						SpecTitle:     h.SpecTitle,
						operationView: newOperationView(ws, h.Operation),
					})
				}
				return RenderDetail(w, views, a.format)
			}

			if len(hits) == 0 {
				if !a.quiet {
					Writef(cmd.ErrOrStderr(), "No operations match %q\n", args[0])
				}
				return nil
			}
			rows := make([][]string, 0, len(hits))
			for _, h := range hits {
				rows = append(rows, []string{
					strconv.Itoa(h.SpecIndex),
					h.SpecTitle,
					h.Operation.Method,
					h.Operation.Path,
					h.Operation.EffectiveID(),
					accessLabel(ws.IsPrivate(h.Operation)),
				})
			}
			RenderSummaryTable(w, []string{"SPEC", "TITLE", "METHOD", "PATH", "OPERATION", "ACCESS"}, rows, a.quiet)
			return nil
		},
	}
}
