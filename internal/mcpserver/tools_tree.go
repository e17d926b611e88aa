package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/query"
	"github.com/erraggy/oasexplorer/workspace"
)

type treeInput struct {
	Spec  *specInput  `json:"spec,omitempty"  jsonschema:"The OAS document to browse"`
	Specs []specInput `json:"specs,omitempty" jsonschema:"Several OAS documents shown as one tree, each under its title"`
	Node  string      `json:"node,omitempty"  jsonschema:"Show only this node: a full path like 'Store | Orders' or a slug like 'store/orders'"`
	Depth int         `json:"depth,omitempty" jsonschema:"Maximum nesting depth below the shown node; negative for unlimited (default: server setting\\, unlimited unless configured)"`
}

type treeNode struct {
	Name           string             `json:"name"`
	FullPath       string             `json:"full_path,omitempty"`
	Slug           string             `json:"slug,omitempty"`
	OperationCount int                `json:"operation_count"`
	Operations     []operationSummary `json:"operations,omitempty"`
	Children       []treeNode         `json:"children,omitempty"`
	Truncated      bool               `json:"truncated,omitempty"`
}

type treeOutput struct {
	Documents int      `json:"documents"`
	Tree      treeNode `json:"tree"`
}

func handleTree(ctx context.Context, _ *mcp.CallToolRequest, input treeInput) (*mcp.CallToolResult, any, error) {
	ws, err := specsInput{Spec: input.Spec, Specs: input.Specs}.resolve(ctx)
	if err != nil {
		return errResult(err), nil, nil
	}

	node := ws.Tree()
	if input.Node != "" {
		node = query.FindNodeByPath(node, input.Node)
		if node == nil {
			node = query.FindNodeBySlug(ws.Tree(), input.Node)
		}
		if node == nil {
			return errResult(fmt.Errorf("no tag node %q", input.Node)), nil, nil
		}
	}

	depth := input.Depth
	if depth == 0 {
		depth = cfg.TreeDepth
	}
	if depth <= 0 {
		depth = -1
	}

	return nil, treeOutput{
		Documents: len(ws.Sources()),
		Tree:      buildTreeNode(ws, node, depth),
	}, nil
}

// buildTreeNode converts n and its descendants, including depth levels of
// children. A negative depth includes all of them; cut nodes are marked truncated.
func buildTreeNode(ws *workspace.Workspace, n *indexer.TagNode, depth int) treeNode {
	out := treeNode{
		Name:           n.Name,
		FullPath:       n.FullPath,
		OperationCount: n.OperationCount(),
		Operations:     makeSlice[operationSummary](len(n.Operations)),
	}
	if n.FullPath != "" {
		out.Slug = query.NodeSlug(n.FullPath)
	}
	for _, op := range n.Operations {
		out.Operations = append(out.Operations, summarize(ws, op))
	}

	children := n.Children()
	if depth == 0 {
		out.Truncated = len(children) > 0
		return out
	}
	out.Children = makeSlice[treeNode](len(children))
	for _, c := range children {
		out.Children = append(out.Children, buildTreeNode(ws, c, depth-1))
	}
	return out
}
