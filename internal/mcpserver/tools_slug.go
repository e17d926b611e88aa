package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasexplorer/query"
)

type slugInput struct {
	Path string `json:"path,omitempty" jsonschema:"Endpoint path to encode (e.g. /users/{userId})"`
	Slug string `json:"slug,omitempty" jsonschema:"Slug to decode back to an endpoint path"`
	Node string `json:"node,omitempty" jsonschema:"Tag full path to turn into a node slug (e.g. 'Pet Store | Pets')"`
}

type slugOutput struct {
	Path string `json:"path,omitempty"`
	Slug string `json:"slug"`
	Node string `json:"node,omitempty"`
}

func handleSlug(_ context.Context, _ *mcp.CallToolRequest, input slugInput) (*mcp.CallToolResult, any, error) {
	set := 0
	for _, s := range []string{input.Path, input.Slug, input.Node} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return errResult(errors.New("exactly one of path, slug or node is required")), nil, nil
	}

	switch {
	case input.Path != "":
		return nil, slugOutput{Path: input.Path, Slug: query.EndpointPathToSlug(input.Path)}, nil
	case input.Slug != "":
		return nil, slugOutput{Path: query.SlugToEndpointPath(input.Slug), Slug: input.Slug}, nil
	}
	return nil, slugOutput{Node: input.Node, Slug: query.NodeSlug(input.Node)}, nil
}
