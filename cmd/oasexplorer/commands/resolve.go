package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasexplorer/resolver"
)

func (a *app) resolveCommand() *cobra.Command {
	var (
		ref       string
		operation string
		specIndex int
	)
	cmd := &cobra.Command{
		Use:   "resolve (--ref <pointer> | --operation '<METHOD> <path>') <file|url|->...",
		Short: "Expand $ref pointers in a component or an operation",
		Long: `Expand local $ref pointers. References that cannot be expanded are kept as
markers: {"$ref": "...", "circular": true} where a reference points back into
its own expansion, "notFound" where the pointer leads nowhere and "external"
for references to other documents. Markers are listed on stderr.

With several documents, --spec-index selects the one to read.`,
		Example: `  oasexplorer resolve --ref '#/components/schemas/Pet' openapi.yaml
  oasexplorer resolve --operation 'GET /pets/{petId}' -f json openapi.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var method, path string
			if operation != "" {
				var ok bool
				method, path, ok = strings.Cut(strings.TrimSpace(operation), " ")
				path = strings.TrimSpace(path)
				if !ok || path == "" {
					return fmt.Errorf("invalid operation %q: want '<METHOD> <path>'", operation)
				}
			}

			ws, err := a.loadWorkspace(cmd, args)
			if err != nil {
				return err
			}
			sources := ws.Sources()
			if specIndex < 0 || specIndex >= len(sources) {
				return fmt.Errorf("--spec-index %d out of range (%d documents)", specIndex, len(sources))
			}
			doc := sources[specIndex].Document

			var resolved any
			if ref != "" {
				resolved = ws.ResolveRef(doc, ref)
			} else {
				op := doc.Operation(method, path, false)
				if op == nil {
					op = doc.Operation(method, path, true)
				}
				if op == nil {
					return fmt.Errorf("no operation %s %s", strings.ToUpper(method), path)
				}
				resolved = ws.Resolve(doc, op)
			}

			if err := RenderDetail(cmd.OutOrStdout(), resolved, a.format); err != nil {
				return err
			}
			if !a.quiet {
				for _, m := range resolver.Markers(resolved) {
					Writef(cmd.ErrOrStderr(), "unresolved: %s\n", m)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "local JSON pointer to expand, e.g. #/components/schemas/Pet")
	cmd.Flags().StringVar(&operation, "operation", "", "operation to expand, e.g. 'GET /pets'")
	cmd.Flags().IntVar(&specIndex, "spec-index", 0, "document to read when several are given")
	cmd.MarkFlagsMutuallyExclusive("ref", "operation")
	cmd.MarkFlagsOneRequired("ref", "operation")
	return cmd
}
