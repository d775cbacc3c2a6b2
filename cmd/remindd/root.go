package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "remindd",
	Short: "Remind - personal reminder daemon",
	Long: `Remindd is the background daemon of the Remind personal reminder system.
It watches a shared SQLite database for due reminders, delivers desktop
notifications with escalating nudges, and can hand agent-tagged reminders
to an external coding agent.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runCmd)
}
