// Package commands holds the video-mcp command line.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = NewRootCommand()

// NewRootCommand builds the command tree. Without a subcommand it serves MCP
// over stdio.
func NewRootCommand() *cobra.Command {
	serve := NewServeCommand()
	root := &cobra.Command{
		Use:   "video-mcp",
		Short: "MCP server and CLI for streaming image-sequence pipelines",
		Long: `video-mcp runs temporal image pipelines over directories of frames.

Without a subcommand it serves the MCP protocol over stdin/stdout.

Environment variables:
  VIDEO_MCP_LOG_LEVEL=debug    Enable debug logging
  VIDEO_MCP_<KEY>              Override pipeline file keys (e.g. VIDEO_MCP_SOURCE_DIR)`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, NewRunCommand(), NewInfoCommand(), NewVersionCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
