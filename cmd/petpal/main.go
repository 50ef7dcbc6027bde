// Petpal is a terminal client for the PetPal dog nutrition service.
//
// It identifies a dog's breed from a photo or a breed name, generates
// personalized recipes for the breed and answers questions about it.
//
// Usage:
//
//	petpal [command] [flags]
//
// Running without arguments launches the interactive terminal UI.
// See 'petpal --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/petpal/internal/logging"
	"github.com/muurk/petpal/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// PETPAL_LOG_LEVEL covers flag parsing; setup re-initializes per command
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logging.Sync()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "petpal",
	Short: "PetPal breed identification and dog nutrition client",
	Long: `A terminal client for the PetPal dog nutrition service.

Identifies a dog's breed from a photo or a breed name, generates
personalized recipes for the breed's age group and dietary needs, and
answers questions about breeds, health and nutrition.

If no command is specified, the interactive terminal UI launches.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the terminal UI when no subcommand is given
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "petpal %s (commit: %s)\n", version.Version, version.Commit)
	},
}
