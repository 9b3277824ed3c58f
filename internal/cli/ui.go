package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imkarma/tasktrack/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive ticket board",
	Long:  "Opens an interactive board showing tickets by status with keyboard navigation, filtering and a ticket detail panel.",
	RunE:  runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}

	model := tui.New(e.store)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		e.Close()
		return fmt.Errorf("TUI error: %w", err)
	}

	e.Close()
	return nil
}
