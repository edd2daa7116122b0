package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/readalong/internal/archive"
	"codeberg.org/snonux/readalong/internal/cli"
	"codeberg.org/snonux/readalong/internal/models"
	"codeberg.org/snonux/readalong/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels()
	}

	// Handle --clear-cache flag
	if flags.ClearCache {
		if err := archive.ArchiveCache(flags.CacheDir); err != nil {
			return err
		}
		if flags.TextFile == "" && len(args) == 0 {
			return nil
		}
	}

	if len(args) > 0 {
		flags.TextFile = args[0]
	}

	proc := processor.NewProcessor(flags)

	if flags.NoGUI {
		if flags.TextFile == "" {
			return fmt.Errorf("--no-gui requires a text file argument")
		}
		return proc.RunTerminal(flags.TextFile)
	}

	// Launch GUI mode by default
	return proc.RunGUIMode()
}
