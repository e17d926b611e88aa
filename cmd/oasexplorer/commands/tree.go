package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/query"
	"github.com/erraggy/oasexplorer/workspace"
)

// operationView is the structured output form of an operation.
type operationView struct {
	Method      string `json:"method"                yaml:"method"`
	Path        string `json:"path"                  yaml:"path"`
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Summary     string `json:"summary,omitempty"     yaml:"summary,omitempty"`
	Webhook     bool   `json:"webhook,omitempty"     yaml:"webhook,omitempty"`
	Private     bool   `json:"private"               yaml:"private"`
}

func newOperationView(ws *workspace.Workspace, op indexer.OperationRef) operationView {
	return operationView{
		Method:      op.Method,
		Path:        op.Path,
		OperationID: op.OperationID(),
		Summary:     op.Summary(),
		Webhook:     op.Webhook,
		Private:     ws.IsPrivate(op),
	}
}

// nodeView is the structured output form of a tag node.
type nodeView struct {
	Name           string          `json:"name"               yaml:"name"`
	FullPath       string          `json:"fullPath,omitempty" yaml:"fullPath,omitempty"`
	Slug           string          `json:"slug,omitempty"     yaml:"slug,omitempty"`
	OperationCount int             `json:"operationCount"     yaml:"operationCount"`
	Operations     []operationView `json:"operations,omitempty" yaml:"operations,omitempty"`
	Children       []nodeView      `json:"children,omitempty"   yaml:"children,omitempty"`
}

// newNodeView converts n with depth levels of children; a negative depth
// keeps them all.
func newNodeView(ws *workspace.Workspace, n *indexer.TagNode, depth int) nodeView {
	v := nodeView{
		Name:           n.Name,
		FullPath:       n.FullPath,
		OperationCount: n.OperationCount(),
	}
	if n.FullPath != "" {
		v.Slug = query.NodeSlug(n.FullPath)
	}
	for _, op := range n.Operations {
		v.Operations = append(v.Operations, newOperationView(ws, op))
	}
	if depth == 0 {
		return v
	}
	for _, c := range n.Children() {
		v.Children = append(v.Children, newNodeView(ws, c, depth-1))
	}
	return v
}

// renderTree writes node in the selected format. Text output indents each
// level by two spaces and skips the root line.
func (a *app) renderTree(w io.Writer, ws *workspace.Workspace, node *indexer.TagNode, depth int) error {
	if a.format != FormatText {
		return RenderDetail(w, newNodeView(ws, node, depth), a.format)
	}
	indent := 0
	if !node.IsRoot() {
		writeNodeLine(w, node, 0)
		indent = 1
	}
	writeNodeBody(w, ws, node, indent, depth)
	return nil
}

func writeNodeLine(w io.Writer, n *indexer.TagNode, indent int) {
	Writef(w, "%s%s (%d)\n", strings.Repeat("  ", indent), n.Name, n.OperationCount())
}

func writeNodeBody(w io.Writer, ws *workspace.Workspace, n *indexer.TagNode, indent, depth int) {
	pad := strings.Repeat("  ", indent)
	for _, op := range n.Operations {
		access := "public"
		if ws.IsPrivate(op) {
			access = "private"
		}
		Writef(w, "%s%-7s %s  %s  [%s]\n", pad, op.Method, op.Path, op.EffectiveID(), access)
	}
	if depth == 0 {
		return
	}
	for _, c := range n.Children() {
		writeNodeLine(w, c, indent)
		writeNodeBody(w, ws, c, indent+1, depth-1)
	}
}

func (a *app) treeCommand() *cobra.Command {
	var (
		node  string
		depth int
	)
	cmd := &cobra.Command{
		Use:   "tree [flags] <file|url|->...",
		Short: "Show the tag tree of one or more documents",
		Example: `  oasexplorer tree openapi.yaml
  oasexplorer tree --node "Store | Orders" openapi.yaml
  oasexplorer tree --node store/orders --depth 1 openapi.yaml
  oasexplorer tree -f json pets.yaml users.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkspace(cmd, args)
			if err != nil {
				return err
			}
			n := ws.Tree()
			if node != "" {
				n = findNode(n, node)
				if n == nil {
					return fmt.Errorf("no tag node %q", node)
				}
			}
			if depth <= 0 {
				depth = -1
			}
			return a.renderTree(cmd.OutOrStdout(), ws, n, depth)
		},
	}
	cmd.Flags().StringVar(&node, "node", "", "show only this node, by full path or slug")
	cmd.Flags().IntVar(&depth, "depth", 0, "levels of children to show (default: all)")
	return cmd
}

// findNode looks a node up by full path, then by slug.
func findNode(root *indexer.TagNode, ref string) *indexer.TagNode {
	if n := query.FindNodeByPath(root, ref); n != nil {
		return n
	}
	return query.FindNodeBySlug(root, ref)
}
