// Package commands implements the CLI commands for ffbuild.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/ffbuild/internal/app"
	"go.trai.ch/ffbuild/internal/build"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// jsonSwitch is implemented by loggers that can change their output format.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for ffbuild.
type CLI struct {
	app     *app.App
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "ffbuild",
		Short:         "Build the pinned FFmpeg libraries and generate bindings",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", ".", "Directory holding ffbuild.yaml")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if s, ok := c.logger.(jsonSwitch); ok && jsonLogs {
			s.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCodegenCmd())
	rootCmd.AddCommand(c.newFlagsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut redirects command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	dir, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	forceCodegen, _ := cmd.Flags().GetBool("force-codegen")
	noCodegen, _ := cmd.Flags().GetBool("no-codegen")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return app.RunOptions{
		ProjectDir:   dir,
		Force:        force,
		ForceCodegen: forceCodegen,
		NoCodegen:    noCodegen,
		Verbose:      verbose,
	}
}
