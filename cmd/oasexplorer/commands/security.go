package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasexplorer/query"
	"github.com/erraggy/oasexplorer/security"
)

// securityView is the structured output form of an operation's effective security.
type securityView struct {
	SpecIndex    int                    `json:"specIndex"              yaml:"specIndex"`
	Method       string                 `json:"method"                 yaml:"method"`
	Path         string                 `json:"path"                   yaml:"path"`
	OperationID  string                 `json:"operationId,omitempty"  yaml:"operationId,omitempty"`
	Webhook      bool                   `json:"webhook,omitempty"      yaml:"webhook,omitempty"`
	Level        string                 `json:"level"                  yaml:"level"`
	Private      bool                   `json:"private"                yaml:"private"`
	Anonymous    bool                   `json:"anonymous,omitempty"    yaml:"anonymous,omitempty"`
	Schemes      []string               `json:"schemes,omitempty"      yaml:"schemes,omitempty"`
	Requirements []security.Requirement `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

func (a *app) securityCommand() *cobra.Command {
	var (
		method string
		path   string
		mode   string
	)
	cmd := &cobra.Command{
		Use:   "security [flags] <file|url|->...",
		Short: "Show the effective security of operations",
		Long: `Show where each operation's security comes from (operation, path or
document level), which schemes it names and whether it is private.

Use --method and --path together to inspect a single operation.`,
		Example: `  oasexplorer security openapi.yaml
  oasexplorer security --mode public openapi.yaml
  oasexplorer security --method get --path /pets/{petId} -f yaml openapi.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := query.ParseSecurityMode(mode)
			if err != nil {
				return err
			}
			ws, err := a.loadWorkspace(cmd, args)
			if err != nil {
				return err
			}

			upper := strings.ToUpper(method)
			var views []securityView
			for i, src := range ws.Sources() {
				for op := range query.Operations(src.Document) {
					if method != "" && (op.Method != upper || op.Path != path) {
						continue
					}
					eff := ws.Security(op)
					if (m == query.ModePrivate && !eff.Private()) || (m == query.ModePublic && eff.Private()) {
						continue
					}
					views = append(views, securityView{
						SpecIndex:    i,
						Method:       op.Method,
						Path:         op.Path,
						OperationID:  op.OperationID(),
						Webhook:      op.Webhook,
						Level:        eff.Level.String(),
						Private:      eff.Private(),
						Anonymous:    eff.Anonymous(),
						Schemes:      eff.SchemeNames(),
						Requirements: eff.Requirements,
					})
				}
			}
			if method != "" && len(views) == 0 {
				return fmt.Errorf("no operation %s %s", upper, path)
			}

			w := cmd.OutOrStdout()
			if a.format != FormatText {
				return RenderDetail(w, views, a.format)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				schemes := strings.Join(v.Schemes, ",")
				if v.Anonymous {
					schemes = strings.TrimPrefix(schemes+",(anonymous)", ",")
				}
				rows = append(rows, []string{
					strconv.Itoa(v.SpecIndex),
					v.Method,
					v.Path,
					v.OperationID,
					v.Level,
					accessLabel(v.Private),
					schemes,
				})
			}
			RenderSummaryTable(w, []string{"SPEC", "METHOD", "PATH", "OPERATION", "LEVEL", "ACCESS", "SCHEMES"}, rows, a.quiet)
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", "", "HTTP method of one operation")
	cmd.Flags().StringVar(&path, "path", "", "path template or webhook name of one operation")
	cmd.Flags().StringVar(&mode, "mode", string(query.ModeAll), "all, private or public")
	cmd.MarkFlagsRequiredTogether("method", "path")
	return cmd
}
