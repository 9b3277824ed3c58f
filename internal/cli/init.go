package cli

import (
	"fmt"
	"os"

	"github.com/imkarma/tasktrack/internal/config"
	"github.com/imkarma/tasktrack/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize tasktrack in the current directory",
	Long:  "Creates a .tasktrack/ directory with default config and database.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check if already initialized.
	if _, err := os.Stat(trackDirName); err == nil {
		return fmt.Errorf("tasktrack already initialized in this directory (.tasktrack/ exists)")
	}

	if err := os.MkdirAll(trackDirName, 0755); err != nil {
		return fmt.Errorf("create %s: %w", trackDirName, err)
	}

	// Write default config.
	cfg := config.DefaultConfig()
	if err := config.Save(trackPath("config.yaml"), cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Create database by opening the storage (migration runs automatically).
	kv, err := storage.Open(trackPath("tasktrack.db"))
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	kv.Close()

	fmt.Println("Initialized tasktrack in .tasktrack/")
	fmt.Println("")
	fmt.Println("Next steps:")
	fmt.Println("  1. Run: tasktrack ticket create \"your ticket title\"")
	fmt.Println("  2. Run: tasktrack board")
	fmt.Println("  3. Run: tasktrack sync watch   (keeps the remote in sync)")

	return nil
}
