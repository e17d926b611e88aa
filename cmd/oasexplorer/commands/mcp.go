package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasexplorer/internal/mcpserver"
	"github.com/erraggy/oasexplorer/internal/metrics"
)

const metricsAddrEnv = "OASEXPLORER_METRICS_ADDR"

func (a *app) mcpCommand() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the tree,
search, filter, resolve, security and slug tools.

With --metrics-addr (or ` + metricsAddrEnv + `), Prometheus metrics for tool
calls and cached workspaces are served on http://<addr>/metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if metricsAddr == "" {
				metricsAddr = os.Getenv(metricsAddrEnv)
			}
			return a.runMCP(cmd.Context(), metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. localhost:9464")
	return cmd
}

func (a *app) runMCP(ctx context.Context, metricsAddr string) error {
	opts := mcpserver.Options{Logger: a.logger}
	if metricsAddr == "" {
		return mcpserver.Run(ctx, opts)
	}

	reg := metrics.NewRegistry(mcpserver.Stats)
	opts.Metrics = metrics.NewToolMetrics(reg)

	ln, err := net.Listen("tcp", metricsAddr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	a.logger.Info("serving metrics", "addr", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		runErr := mcpserver.Run(gctx, opts)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Join(runErr, srv.Shutdown(shutdownCtx))
	})
	return g.Wait()
}
