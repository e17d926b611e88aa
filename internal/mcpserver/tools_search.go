package mcpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type searchInput struct {
	Spec   *specInput  `json:"spec,omitempty"   jsonschema:"The OAS document to search"`
	Specs  []specInput `json:"specs,omitempty"  jsonschema:"Several OAS documents searched together"`
	Query  string      `json:"query"            jsonschema:"Case-insensitive text to look for"`
	Limit  int         `json:"limit,omitempty"  jsonschema:"Maximum number of results to return (default 100)"`
	Offset int         `json:"offset,omitempty" jsonschema:"Skip the first N results (for pagination)"`
}

type searchHit struct {
	SpecIndex int    `json:"spec_index"`
	SpecTitle string `json:"spec_title"`
	operationSummary
}

type searchOutput struct {
	Query    string      `json:"query"`
	Matched  int         `json:"matched"`
	Returned int         `json:"returned"`
	Hits     []searchHit `json:"hits,omitempty"`
}

func handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, any, error) {
	q := strings.TrimSpace(input.Query)
	if q == "" {
		return errResult(errors.New("query is required")), nil, nil
	}

	ws, err := specsInput{Spec: input.Spec, Specs: input.Specs}.resolve(ctx)
	if err != nil {
		return errResult(err), nil, nil
	}

	hits := ws.SearchAll(q)
	page := paginate(hits, input.Offset, input.Limit)

	output := searchOutput{
		Query:    q,
		Matched:  len(hits),
		Returned: len(page),
		Hits:     makeSlice[searchHit](len(page)),
	}
	for _, h := range page {
		output.Hits = append(output.Hits, searchHit{
			SpecIndex:        h.SpecIndex,
			SpecTitle:        h.SpecTitle,
			operationSummary: summarize(ws, h.Operation),
		})
	}
	return nil, output, nil
}
