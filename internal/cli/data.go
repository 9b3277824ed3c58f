package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportOutput string
	resetForce   bool
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export, import or reset all tracked data",
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data to a JSON backup file",
	RunE:  runDataExport,
}

var dataImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace all data from a JSON backup file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataImport,
}

var dataResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all tracked data",
	RunE:  runDataReset,
}

func init() {
	dataExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default tasktrack_backup_YYYY-MM-DD.json)")
	dataResetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip the confirmation prompt")

	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataResetCmd)
}

func runDataExport(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	snap := e.store.ExportSnapshot()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	out := exportOutput
	if out == "" {
		out = fmt.Sprintf("tasktrack_backup_%s.json", time.Now().Format("2006-01-02"))
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	fmt.Printf("Exported %d tickets, %d tasks, %d observations, %d time entries to %s%s%s\n",
		len(snap.Tickets), len(snap.Tasks), len(snap.Observations), len(snap.TimeEntries),
		colorCyan, out, colorReset)
	return nil
}

func runDataImport(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if err := e.store.ImportSnapshot(data); err != nil {
		return err
	}

	fmt.Printf("Imported %d tickets, %d tasks, %d observations, %d time entries from %s\n",
		len(e.store.Tickets()), len(e.store.Tasks()),
		len(e.store.Observations()), len(e.store.TimeEntries()),
		args[0])
	return nil
}

func runDataReset(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if !resetForce {
		fmt.Print("This deletes ALL tickets, tasks, observations and time entries. Type 'yes' to continue: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := e.store.ResetAll(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	fmt.Println("All data deleted.")
	return nil
}
