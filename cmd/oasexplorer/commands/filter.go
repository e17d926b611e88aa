package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasexplorer/query"
)

func (a *app) filterCommand() *cobra.Command {
	var (
		methods string
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "filter [flags] <file|url|->...",
		Short: "Show the tag tree restricted by method and security",
		Long: `Show the tag tree keeping only operations whose method is listed in
--method and whose security matches --security. Nodes left without operations
are dropped.

An operation is private when its effective security list is non-empty.
Operation security overrides path item security, which overrides document
security; an explicitly empty list makes an operation public.`,
		Example: `  oasexplorer filter --security public openapi.yaml
  oasexplorer filter --method get,head --security private openapi.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := query.ParseMethodSet(methods)
			if err != nil {
				return err
			}
			m, err := query.ParseSecurityMode(mode)
			if err != nil {
				return err
			}

			ws, err := a.loadWorkspace(cmd, args)
			if err != nil {
				return err
			}
			filtered := ws.Filter(m, set)
			if filtered == nil {
				if a.format != FormatText {
					return RenderDetail(cmd.OutOrStdout(), nil, a.format)
				}
				if !a.quiet {
					Writef(cmd.ErrOrStderr(), "No operations match\n")
				}
				return nil
			}
			return a.renderTree(cmd.OutOrStdout(), ws, filtered, -1)
		},
	}
	cmd.Flags().StringVarP(&methods, "method", "m", "", "comma-separated HTTP methods to keep (default: all)")
	cmd.Flags().StringVarP(&mode, "security", "s", string(query.ModeAll), "all, private or public")
	return cmd
}
