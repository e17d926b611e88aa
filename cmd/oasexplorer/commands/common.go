// Package commands provides the CLI commands of oasexplorer.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/loader"
	"github.com/erraggy/oasexplorer/workspace"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// FormatSpecPath returns a display-friendly path for the specification.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// RenderSummaryTable renders a table of results.
// In quiet mode, headers are omitted and rows are tab-separated for piping.
// In normal mode, a fixed-width table with headers is rendered.
func RenderSummaryTable(w io.Writer, headers []string, rows [][]string, quiet bool) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			switch {
			case quiet && i > 0:
				Writef(w, "\t%s", cell)
			case quiet:
				Writef(w, "%s", cell)
			case i == len(cells)-1:
				// No padding after the last column.
				Writef(w, "%s%s", separator(i), cell)
			default:
				Writef(w, "%s%-*s", separator(i), widths[i], cell)
			}
		}
		Writef(w, "\n")
	}

	if !quiet {
		writeRow(headers)
	}
	for _, row := range rows {
		writeRow(row)
	}
}

func separator(i int) string {
	if i == 0 {
		return ""
	}
	return "  "
}

// RenderDetail renders a value in the specified format. Text renders as YAML.
func RenderDetail(w io.Writer, v any, format string) error {
	var data []byte
	var err error

	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
	case FormatYAML, FormatText:
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}

	if _, err := fmt.Fprintln(w, strings.TrimRight(string(data), "\n")); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// loadWorkspace loads every spec argument, a file path, URL or "-" for stdin,
// into one workspace. Several specs are grafted under their titles.
func (a *app) loadWorkspace(cmd *cobra.Command, specs []string) (*workspace.Workspace, error) {
	ctx := cmd.Context()
	opts := []loader.Option{loader.WithLogger(a.logger)}

	stdinAt := -1
	paths := make([]string, 0, len(specs))
	for i, s := range specs {
		if s != StdinFilePath {
			paths = append(paths, s)
			continue
		}
		if stdinAt >= 0 {
			return nil, errors.New("stdin (-) can only be given once")
		}
		stdinAt = i
	}

	results, err := loader.LoadAll(ctx, paths, opts...)
	if err != nil {
		return nil, err
	}
	if stdinAt >= 0 {
		r, err := loader.Load(ctx, append(opts,
			loader.WithReader(cmd.InOrStdin()),
			loader.WithSourceName(FormatSpecPath(StdinFilePath)),
		)...)
		if err != nil {
			return nil, err
		}
		results = slices.Insert(results, stdinAt, r)
	}

	sources := make([]indexer.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, r.Source(""))
	}
	ws := workspace.New(workspace.WithLogger(a.logger))
	ws.Load(sources...)
	return ws, nil
}
