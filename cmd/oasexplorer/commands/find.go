package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/query"
)

var errNoSelection = errors.New("one of --path, --slug or --id is required")

// matchView is the structured output form of a located operation.
type matchView struct {
	Node          string `json:"node"     yaml:"node"`
	operationView `yaml:",inline"`
}

func (a *app) findCommand() *cobra.Command {
	var (
		method string
		path   string
		slug   string
		id     string
	)
	cmd := &cobra.Command{
		Use:   "find (--path <path> | --slug <slug> | --id <operationId>) <file|url|->...",
		Short: "Locate an operation in the tag tree",
		Long: `Locate the tag node that holds an operation, selected by its path (with an
optional --method), by a URL slug of its path, or by its operationId.

With --path or --slug and no --method, every operation on the path is listed.`,
		Example: `  oasexplorer find --path /pets/{petId} --method delete openapi.yaml
  oasexplorer find --slug pets/:pet~id openapi.yaml
  oasexplorer find --id listPets openapi.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if slug != "" {
				path = query.SlugToEndpointPath(slug)
			}
			if path == "" && id == "" {
				return errNoSelection
			}

			ws, err := a.loadWorkspace(cmd, args)
			if err != nil {
				return err
			}
			root := ws.Tree()

			var matches []matchView
			add := func(n *indexer.TagNode, op indexer.OperationRef) {
				matches = append(matches, matchView{Node: n.FullPath, operationView: newOperationView(ws, op)})
			}
			switch {
			case id != "":
				if n, op, ok := query.FindOperationByID(root, id); ok {
					add(n, op)
				}
			case method != "":
				if n, op, ok := query.FindOperation(root, method, path); ok {
					add(n, op)
				}
			default:
				seen := make(map[*document.Object]bool)
				query.Walk(root, func(n *indexer.TagNode, _ int) bool {
					for _, op := range n.Operations {
						if op.Path == path && !seen[op.Operation] {
							seen[op.Operation] = true
							add(n, op)
						}
					}
					return true
				})
			}
			if len(matches) == 0 {
				return fmt.Errorf("no operation matches %s", describeSelection(method, path, id))
			}

			w := cmd.OutOrStdout()
			if a.format != FormatText {
				return RenderDetail(w, matches, a.format)
			}
			rows := make([][]string, 0, len(matches))
			for _, m := range matches {
				rows = append(rows, []string{m.Node, m.Method, m.Path, m.OperationID})
			}
			RenderSummaryTable(w, []string{"NODE", "METHOD", "PATH", "OPERATION"}, rows, a.quiet)
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", "", "HTTP method, used with --path or --slug")
	cmd.Flags().StringVar(&path, "path", "", "path template, e.g. /pets/{petId}")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug of a path, e.g. pets/:pet~id")
	cmd.Flags().StringVar(&id, "id", "", "operationId")
	cmd.MarkFlagsMutuallyExclusive("path", "slug", "id")
	cmd.MarkFlagsMutuallyExclusive("method", "id")
	return cmd
}

func describeSelection(method, path, id string) string {
	switch {
	case id != "":
		return fmt.Sprintf("operationId %q", id)
	case method != "":
		return strings.ToUpper(method) + " " + path
	}
	return path
}
