package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Unpack, configure and compile the libraries, emit the link plan and generate bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Build(cmd.Context(), runOptions(cmd))
			return err
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Rebuild the native libraries even when they exist")
	cmd.Flags().Bool("force-codegen", false, "Regenerate bindings even when they exist")
	cmd.Flags().Bool("no-codegen", false, "Skip binding generation")
	cmd.Flags().BoolP("verbose", "v", false, "Echo external tool output")
	return cmd
}
