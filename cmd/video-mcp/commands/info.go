package commands

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/video-tools-mcp/internal/video"
)

func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <dir>",
		Short: "Describe a directory of frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := video.SequenceInfo(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(info)
		},
	}
}
