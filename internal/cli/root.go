package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tasktrack",
	Short: "Offline-first ticket and time tracking",
	Long:  "tasktrack — track tickets, tasks, observations and logged hours locally,\nand sync recorded changes to a remote backend when connectivity allows.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(obsCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(boardCmd)
}
