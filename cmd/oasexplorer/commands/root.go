package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasexplorer"
	"github.com/erraggy/oasexplorer/document"
)

// app holds the persistent flags shared by every command.
type app struct {
	format  string
	quiet   bool
	verbose bool
	logger  document.Logger
}

// NewRootCommand returns the oasexplorer command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: document.NopLogger{}}

	root := &cobra.Command{
		Use:   "oasexplorer",
		Short: "Browse OpenAPI and Swagger documents by tag",
		Long: `Browse OpenAPI 3.x and Swagger 2.0 documents as a tag tree.

Tags such as "Store | Orders" nest operations under Store > Orders. Untagged
operations sit under Untagged and webhooks under Webhooks. Given several
documents, each becomes a top-level node named after its title.

Every command that reads documents takes one or more file paths or URLs;
use - to read a document from stdin.`,
		Version:       oasexplorer.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := ValidateOutputFormat(a.format); err != nil {
				return err
			}
			level := slog.LevelWarn
			switch {
			case a.verbose:
				level = slog.LevelDebug
			case a.quiet:
				level = slog.LevelError
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			a.logger = document.NewSlogAdapter(slog.New(handler))
			return nil
		},
	}
	root.SetVersionTemplate("oasexplorer {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.format, "format", "f", FormatText, "output format: text, json or yaml")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress headers and diagnostics for piping")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug diagnostics to stderr")
	root.MarkFlagsMutuallyExclusive("quiet", "verbose")

	root.AddCommand(
		a.treeCommand(),
		a.searchCommand(),
		a.filterCommand(),
		a.resolveCommand(),
		a.securityCommand(),
		a.findCommand(),
		a.slugCommand(),
		a.mcpCommand(),
		versionCommand(),
	)
	return root
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			Writef(cmd.OutOrStdout(), "oasexplorer %s\n%s\n", oasexplorer.Version(), oasexplorer.BuildInfo())
		},
	}
}
