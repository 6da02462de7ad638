package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCodegenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codegen",
		Short: "Generate bindings from an unpacked source tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Codegen(cmd.Context(), runOptions(cmd))
			return err
		},
	}
	cmd.Flags().Bool("force-codegen", false, "Regenerate bindings even when they exist")
	cmd.Flags().BoolP("verbose", "v", false, "Echo generator output")
	return cmd
}
