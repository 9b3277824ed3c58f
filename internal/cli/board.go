package cli

import (
	"fmt"
	"strings"

	"github.com/imkarma/tasktrack/internal/store"
	"github.com/imkarma/tasktrack/internal/timeutil"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the ticket board",
	RunE:  runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	tickets := e.store.Tickets()
	if len(tickets) == 0 {
		fmt.Printf("%sBoard is empty.%s Create a ticket: %stasktrack ticket create \"title\"%s\n",
			colorDim, colorReset, colorCyan, colorReset)
		return nil
	}

	// Group tickets by status.
	columns := map[store.TicketStatus][]store.Ticket{
		store.TicketOpen:     {},
		store.TicketPending:  {},
		store.TicketResolved: {},
		store.TicketDone:     {},
	}
	for _, t := range tickets {
		columns[t.Status] = append(columns[t.Status], t)
	}

	type col struct {
		status store.TicketStatus
		label  string
		color  string
	}
	order := []col{
		{store.TicketOpen, "OPEN", colorBlue},
		{store.TicketPending, "PENDING", colorYellow},
		{store.TicketResolved, "RESOLVED", colorMagenta},
		{store.TicketDone, "DONE", colorGreen},
	}

	// Print header.
	colWidth := 28
	headerLine := ""
	sepLine := ""
	for _, c := range order {
		count := len(columns[c.status])
		header := fmt.Sprintf(" %s%s%s (%d)", c.color+colorBold, c.label, colorReset, count)
		// padRight needs visible length, not byte length (ANSI codes add bytes).
		visibleLen := len(fmt.Sprintf(" %s (%d)", c.label, count))
		padding := colWidth - visibleLen
		if padding < 0 {
			padding = 0
		}
		headerLine += header + strings.Repeat(" ", padding)
		sepLine += strings.Repeat("─", colWidth)
	}
	fmt.Println(headerLine)
	fmt.Println(colorDim + sepLine + colorReset)

	// Find max rows.
	maxRows := 0
	for _, c := range order {
		if len(columns[c.status]) > maxRows {
			maxRows = len(columns[c.status])
		}
	}

	// Print rows: each card is a title line plus a detail line.
	for i := 0; i < maxRows; i++ {
		line := ""
		for _, c := range order {
			cards := columns[c.status]
			cell := ""
			visible := 0
			if i < len(cards) {
				t := cards[i]
				idStr := shortID(t.ID)
				titleStr := truncate(t.Title, colWidth-len(idStr)-3)
				cell = fmt.Sprintf(" %s%s%s %s", priorityColor(t.Priority), idStr, colorReset, titleStr)
				visible = len(fmt.Sprintf(" %s %s", idStr, titleStr))
			}
			padding := colWidth - visible
			if padding < 0 {
				padding = 0
			}
			line += cell + strings.Repeat(" ", padding)
		}
		fmt.Println(line)

		detail := ""
		for _, c := range order {
			cards := columns[c.status]
			cell := ""
			visible := 0
			if i < len(cards) {
				t := cards[i]
				nTasks := len(e.store.TasksForTicket(t.ID))
				info := fmt.Sprintf("%d tasks, %s", nTasks, timeutil.FormatDisplay(e.store.TotalHoursForTicket(t.ID)))
				cell = fmt.Sprintf("   %s%s%s", colorDim, info, colorReset)
				visible = len(info) + 3
			}
			padding := colWidth - visible
			if padding < 0 {
				padding = 0
			}
			detail += cell + strings.Repeat(" ", padding)
		}
		fmt.Println(detail)
	}

	return nil
}
