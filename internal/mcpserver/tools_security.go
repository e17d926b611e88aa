package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/query"
	"github.com/erraggy/oasexplorer/security"
	"github.com/erraggy/oasexplorer/workspace"
)

type securityInput struct {
	Spec   *specInput  `json:"spec,omitempty"   jsonschema:"The OAS document to inspect"`
	Specs  []specInput `json:"specs,omitempty"  jsonschema:"Several OAS documents inspected together"`
	Method string      `json:"method,omitempty" jsonschema:"HTTP method of one operation"`
	Path   string      `json:"path,omitempty"   jsonschema:"Path template (or webhook name) of one operation"`
	Mode   string      `json:"mode,omitempty"   jsonschema:"When listing: all (default)\\, private or public"`
	Limit  int         `json:"limit,omitempty"  jsonschema:"Maximum number of results to return (default 100)"`
	Offset int         `json:"offset,omitempty" jsonschema:"Skip the first N results (for pagination)"`
}

type operationSecurity struct {
	SpecIndex    int                    `json:"spec_index"`
	SpecTitle    string                 `json:"spec_title"`
	Method       string                 `json:"method"`
	Path         string                 `json:"path"`
	OperationID  string                 `json:"operation_id,omitempty"`
	Webhook      bool                   `json:"webhook,omitempty"`
	Level        string                 `json:"level"`
	Private      bool                   `json:"private"`
	Anonymous    bool                   `json:"anonymous,omitempty"`
	Schemes      []string               `json:"schemes,omitempty"`
	Requirements []security.Requirement `json:"requirements,omitempty"`
}

type securityOutput struct {
	Matched    int                 `json:"matched"`
	Returned   int                 `json:"returned"`
	Operations []operationSecurity `json:"operations,omitempty"`
}

func handleSecurity(ctx context.Context, _ *mcp.CallToolRequest, input securityInput) (*mcp.CallToolResult, any, error) {
	if (input.Method == "") != (input.Path == "") {
		return errResult(errors.New("method and path must be given together")), nil, nil
	}
	mode, err := query.ParseSecurityMode(input.Mode)
	if err != nil {
		return errResult(err), nil, nil
	}

	ws, err := specsInput{Spec: input.Spec, Specs: input.Specs}.resolve(ctx)
	if err != nil {
		return errResult(err), nil, nil
	}

	var matched []operationSecurity
	for i, src := range ws.Sources() {
		title := src.DisplayTitle()
		for op := range query.Operations(src.Document) {
			if input.Method != "" && (op.Method != strings.ToUpper(input.Method) || op.Path != input.Path) {
				continue
			}
			entry := describeSecurity(ws, op)
			if (mode == query.ModePrivate && !entry.Private) || (mode == query.ModePublic && entry.Private) {
				continue
			}
			entry.SpecIndex = i
			entry.SpecTitle = title
			matched = append(matched, entry)
		}
	}
	if input.Method != "" && len(matched) == 0 {
		return errResult(fmt.Errorf("no operation %s %s", strings.ToUpper(input.Method), input.Path)), nil, nil
	}

	page := paginate(matched, input.Offset, input.Limit)
	return nil, securityOutput{
		Matched:    len(matched),
		Returned:   len(page),
		Operations: page,
	}, nil
}

func describeSecurity(ws *workspace.Workspace, op indexer.OperationRef) operationSecurity {
	eff := ws.Security(op)
	return operationSecurity{
		Method:       op.Method,
		Path:         op.Path,
		OperationID:  op.OperationID(),
		Webhook:      op.Webhook,
		Level:        eff.Level.String(),
		Private:      eff.Private(),
		Anonymous:    eff.Anonymous(),
		Schemes:      eff.SchemeNames(),
		Requirements: eff.Requirements,
	}
}
