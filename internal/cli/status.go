package cli

import (
	"fmt"

	"github.com/imkarma/tasktrack/internal/store"
	"github.com/imkarma/tasktrack/internal/timeutil"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show an overview of tickets, tasks, hours and sync state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	tickets := e.store.Tickets()
	tasks := e.store.Tasks()

	fmt.Printf("%sTickets%s (%d)\n", colorBold, colorReset, len(tickets))
	ticketCounts := e.store.TicketStatusCounts()
	for _, st := range []store.TicketStatus{store.TicketOpen, store.TicketPending, store.TicketResolved, store.TicketDone} {
		if n := ticketCounts[st]; n > 0 {
			fmt.Printf("  %s%-10s%s %d\n", ticketStatusColor(st), st, colorReset, n)
		}
	}
	if orphans := e.store.TicketsWithNoTasks(); len(orphans) > 0 {
		fmt.Printf("  %s%d without tasks%s\n", colorDim, len(orphans), colorReset)
	}

	fmt.Printf("\n%sTasks%s (%d)\n", colorBold, colorReset, len(tasks))
	taskCounts := e.store.TaskStatusCounts()
	for _, st := range []store.TaskStatus{store.TaskPlanned, store.TaskInProgress, store.TaskInReview, store.TaskDone} {
		if n := taskCounts[st]; n > 0 {
			fmt.Printf("  %s%-12s%s %d\n", taskStatusColor(st), st, colorReset, n)
		}
	}
	if unlinked := e.store.UnassociatedTasks(); len(unlinked) > 0 {
		fmt.Printf("  %s%d unlinked%s\n", colorDim, len(unlinked), colorReset)
	}

	var total float64
	for _, entry := range e.store.TimeEntries() {
		total += entry.Hours
	}
	fmt.Printf("\n%sLogged time%s %s\n", colorBold, colorReset, timeutil.FormatDisplay(total))

	last := "never"
	if t := e.queue.LastSync(); !t.IsZero() {
		last = t.Format("2006-01-02 15:04")
	}
	fmt.Printf("\n%sSync%s %d pending, last sync %s\n", colorBold, colorReset, e.queue.Len(), last)
	return nil
}
