package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/video-tools-mcp/internal/logging"
	"github.com/ironsheep/video-tools-mcp/internal/metrics"
	"github.com/ironsheep/video-tools-mcp/internal/server"
)

func NewServeCommand() *cobra.Command {
	var (
		cacheSize   int
		metricsAddr string
	)

	command := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger().Named("serve")
			ctx, stop := signal.NotifyContext(logging.WithLogger(context.Background(), logger), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Debugw("Starting video MCP server", "version", Version, "buildTime", BuildTime, "commit", GitCommit)
			if metricsAddr != "" {
				go func() {
					if err := metrics.Serve(ctx, metricsAddr); err != nil {
						logger.Errorw("Metrics server failed", zap.Error(err))
					}
				}()
			}

			srv, err := server.New(Version, cacheSize)
			if err != nil {
				return err
			}
			if err := srv.Run(ctx); err != nil {
				logger.Errorw("Server error", zap.Error(err))
				return err
			}
			return nil
		},
	}
	command.Flags().IntVar(&cacheSize, "cache-size", 0, "Number of decoded frames kept for sampling tools (0 for the default)")
	command.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return command
}
