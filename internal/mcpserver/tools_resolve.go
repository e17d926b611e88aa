package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/resolver"
)

type resolveInput struct {
	Spec      *specInput  `json:"spec,omitempty"       jsonschema:"The OAS document holding the reference"`
	Specs     []specInput `json:"specs,omitempty"      jsonschema:"Several OAS documents; spec_index selects one"`
	SpecIndex int         `json:"spec_index,omitempty" jsonschema:"Index of the document within specs (default 0)"`
	Ref       string      `json:"ref,omitempty"        jsonschema:"Local JSON pointer to expand (e.g. #/components/schemas/Pet)"`
	Method    string      `json:"method,omitempty"     jsonschema:"HTTP method of the operation to expand"`
	Path      string      `json:"path,omitempty"       jsonschema:"Path template (or webhook name) of the operation to expand"`
}

type markerInfo struct {
	Ref  string `json:"ref"`
	Kind string `json:"kind"`
}

type resolveOutput struct {
	Ref     string       `json:"ref,omitempty"`
	Method  string       `json:"method,omitempty"`
	Path    string       `json:"path,omitempty"`
	Value   any          `json:"value"`
	Markers []markerInfo `json:"markers,omitempty"`
}

func handleResolve(ctx context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, any, error) {
	byRef := input.Ref != ""
	byOperation := input.Method != "" || input.Path != ""
	switch {
	case byRef && byOperation:
		return errResult(errors.New("use either ref or method and path, not both")), nil, nil
	case !byRef && !byOperation:
		return errResult(errors.New("ref, or method and path, is required")), nil, nil
	case byOperation && (input.Method == "" || input.Path == ""):
		return errResult(errors.New("method and path must be given together")), nil, nil
	}

	ws, err := specsInput{Spec: input.Spec, Specs: input.Specs}.resolve(ctx)
	if err != nil {
		return errResult(err), nil, nil
	}
	doc, err := sourceDocument(ws, input.SpecIndex)
	if err != nil {
		return errResult(err), nil, nil
	}

	output := resolveOutput{Ref: input.Ref}
	var resolved any
	if byRef {
		resolved = ws.ResolveRef(doc, input.Ref)
	} else {
		op := doc.Operation(input.Method, input.Path, false)
		if op == nil {
			op = doc.Operation(input.Method, input.Path, true)
		}
		if op == nil {
			return errResult(fmt.Errorf("no operation %s %s", strings.ToUpper(input.Method), input.Path)), nil, nil
		}
		output.Method = strings.ToUpper(input.Method)
		output.Path = input.Path
		resolved = ws.Resolve(doc, op)
	}

	output.Value = document.Plain(resolved)
	output.Markers = markerInfos(resolved)
	return nil, output, nil
}

func markerInfos(v any) []markerInfo {
	markers := resolver.Markers(v)
	out := makeSlice[markerInfo](len(markers))
	for _, m := range markers {
		out = append(out, markerInfo{Ref: m.Ref, Kind: string(m.Kind)})
	}
	return out
}
