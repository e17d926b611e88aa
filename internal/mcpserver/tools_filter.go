package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/query"
)

type filterInput struct {
	Spec     *specInput  `json:"spec,omitempty"     jsonschema:"The OAS document to filter"`
	Specs    []specInput `json:"specs,omitempty"    jsonschema:"Several OAS documents filtered as one tree"`
	Methods  string      `json:"methods,omitempty"  jsonschema:"Comma-separated HTTP methods to keep (get\\,post\\,...); empty keeps all"`
	Security string      `json:"security,omitempty" jsonschema:"all (default)\\, private or public"`
	Limit    int         `json:"limit,omitempty"    jsonschema:"Maximum number of results to return (default 100)"`
	Offset   int         `json:"offset,omitempty"   jsonschema:"Skip the first N results (for pagination)"`
}

type filteredOperation struct {
	Node string `json:"node"`
	operationSummary
}

type filterOutput struct {
	Matched    int                 `json:"matched"`
	Returned   int                 `json:"returned"`
	Operations []filteredOperation `json:"operations,omitempty"`
}

func handleFilter(ctx context.Context, _ *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, any, error) {
	methods, err := query.ParseMethodSet(input.Methods)
	if err != nil {
		return errResult(err), nil, nil
	}
	mode, err := query.ParseSecurityMode(input.Security)
	if err != nil {
		return errResult(err), nil, nil
	}

	ws, err := specsInput{Spec: input.Spec, Specs: input.Specs}.resolve(ctx)
	if err != nil {
		return errResult(err), nil, nil
	}

	type placed struct {
		node string
		op   indexer.OperationRef
	}
	var matched []placed
	query.Walk(ws.Filter(mode, methods), func(n *indexer.TagNode, _ int) bool {
		for _, op := range n.Operations {
			matched = append(matched, placed{node: n.FullPath, op: op})
		}
		return true
	})

	page := paginate(matched, input.Offset, input.Limit)
	output := filterOutput{
		Matched:    len(matched),
		Returned:   len(page),
		Operations: makeSlice[filteredOperation](len(page)),
	}
	for _, p := range page {
		output.Operations = append(output.Operations, filteredOperation{
			Node:             p.node,
			operationSummary: summarize(ws, p.op),
		})
	}
	return nil, output, nil
}
