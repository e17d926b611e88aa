package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasexplorer/query"
)

func (a *app) slugCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slug",
		Short: "Convert between paths, tags and URL slugs",
		Long: `Convert endpoint paths and tag node paths to the URL slugs used for
deep links, and slugs back to paths.

Path slugs keep upper case letters as '~' plus the lower-case letter and
parameters as ':name', so "/users/{userId}" encodes as "users/:user~id".`,
	}
	cmd.AddCommand(
		a.slugSubcommand("encode <path>", "Encode an endpoint path as a slug", query.EndpointPathToSlug),
		a.slugSubcommand("decode <slug>", "Decode a slug back to an endpoint path", query.SlugToEndpointPath),
		a.slugSubcommand("node <tag path>", "Slug a tag node path such as \"Store | Orders\"", query.NodeSlug),
	)
	return cmd
}

func (a *app) slugSubcommand(use, short string, convert func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := convert(args[0])
			if a.format != FormatText {
				return RenderDetail(cmd.OutOrStdout(), map[string]string{"input": args[0], "output": out}, a.format)
			}
			Writef(cmd.OutOrStdout(), "%s\n", out)
			return nil
		},
	}
}
