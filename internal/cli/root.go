// Package cli provides the command-line interface for logdelta.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logdelta/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCommand(), os.Args[1:])
}

func run(ctx context.Context, rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 2
	}
	return 0
}

// NewRootCommand creates the root cobra command. The annotate command is the
// root itself; there are no subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := commands.NewAnnotateCommand()
	rootCmd.Version = commands.Version
	rootCmd.SetVersionTemplate(commands.VersionTemplate)
	return rootCmd
}
