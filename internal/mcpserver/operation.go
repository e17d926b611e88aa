package mcpserver

import (
	"fmt"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/workspace"
)

// operationSummary is the compact form of an operation shared by the list tools.
type operationSummary struct {
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	OperationID string   `json:"operation_id,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	Webhook     bool     `json:"webhook,omitempty"`
	Private     bool     `json:"private"`
}

func summarize(ws *workspace.Workspace, op indexer.OperationRef) operationSummary {
	return operationSummary{
		Method:      op.Method,
		Path:        op.Path,
		OperationID: op.OperationID(),
		Summary:     op.Summary(),
		Tags:        op.Operation.Array("tags").Strings(),
		Deprecated:  op.Operation.Value("deprecated") == true,
		Webhook:     op.Webhook,
		Private:     ws.IsPrivate(op),
	}
}

// sourceDocument returns the document at index among the workspace sources.
func sourceDocument(ws *workspace.Workspace, index int) (*document.Document, error) {
	sources := ws.Sources()
	if index < 0 || index >= len(sources) {
		return nil, fmt.Errorf("spec_index %d out of range (workspace has %d documents)", index, len(sources))
	}
	return sources[index].Document, nil
}
