package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func (c *CLI) newFlagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flags",
		Short: "Print the resolved configure flags and environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := c.app.Flags(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range inv.Flags {
				_, _ = fmt.Fprintln(out, f)
			}

			keys := make([]string, 0, len(inv.Env))
			for k := range inv.Env {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				_, _ = fmt.Fprintf(out, "%s=%s\n", k, inv.Env[k])
			}
			return nil
		},
	}
}
