package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/video-tools-mcp/internal/config"
	"github.com/ironsheep/video-tools-mcp/internal/logging"
	"github.com/ironsheep/video-tools-mcp/internal/pipeline"
)

func NewRunCommand() *cobra.Command {
	var configPath string

	command := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline file and write its output frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			logger := logging.NewLogger().Named("run")
			ctx, stop := signal.NotifyContext(logging.WithLogger(context.Background(), logger), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			p, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			manifest, err := p.Run(ctx)
			if err != nil {
				logger.Errorw("Pipeline failed", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: wrote %d frames %s to %s\n",
				manifest.RunID, len(manifest.Frames), manifest.Region, cfg.Output.Dir)
			return nil
		},
	}
	command.Flags().StringVarP(&configPath, "config", "c", "", "Pipeline YAML file")
	return command
}
