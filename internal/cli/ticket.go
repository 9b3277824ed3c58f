package cli

import (
	"fmt"
	"strings"

	"github.com/imkarma/tasktrack/internal/store"
	"github.com/imkarma/tasktrack/internal/timeutil"
	"github.com/spf13/cobra"
)

var (
	ticketDescription string
	ticketPriority    string
	ticketStatus      string
	ticketTags        []string
)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Create or manage tickets",
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new ticket",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTicketCreate,
}

var ticketListCmd = &cobra.Command{
	Use:   "list [status]",
	Short: "List tickets, optionally filtered by status",
	RunE:  runTicketList,
}

var ticketShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show ticket details, tasks and logged hours",
	Args:  cobra.ExactArgs(1),
	RunE:  runTicketShow,
}

var ticketStatusCmd = &cobra.Command{
	Use:   "status [id] [status]",
	Short: "Change a ticket's status (open, pending, resolved, done)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTicketStatus,
}

var ticketTagCmd = &cobra.Command{
	Use:   "tag [id] [tags...]",
	Short: "Replace a ticket's tags (no tags clears them)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTicketTag,
}

var ticketDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a ticket, unlinking its tasks and removing its observations",
	Args:  cobra.ExactArgs(1),
	RunE:  runTicketDelete,
}

func init() {
	ticketCreateCmd.Flags().StringVarP(&ticketDescription, "desc", "d", "", "Ticket description")
	ticketCreateCmd.Flags().StringVarP(&ticketPriority, "priority", "p", "medium", "Priority: low, medium, high, critical")
	ticketCreateCmd.Flags().StringVarP(&ticketStatus, "status", "s", "open", "Status: open, pending, resolved, done")
	ticketCreateCmd.Flags().StringSliceVarP(&ticketTags, "tag", "t", nil, "Tag (repeatable)")

	ticketCmd.AddCommand(ticketCreateCmd)
	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketShowCmd)
	ticketCmd.AddCommand(ticketStatusCmd)
	ticketCmd.AddCommand(ticketTagCmd)
	ticketCmd.AddCommand(ticketDeleteCmd)
}

func runTicketCreate(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := e.store.CreateTicket(store.NewTicket{
		Title:       strings.Join(args, " "),
		Description: ticketDescription,
		Status:      store.TicketStatus(ticketStatus),
		Priority:    store.Priority(ticketPriority),
		Tags:        ticketTags,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created ticket %s%s%s: %s\n", colorCyan, shortID(t.ID), colorReset, t.Title)
	return nil
}

func runTicketList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	tickets := e.store.Tickets()
	if len(args) > 0 {
		status := store.TicketStatus(args[0])
		if !store.ValidTicketStatus(status) {
			return fmt.Errorf("unknown ticket status %q", args[0])
		}
		filtered := tickets[:0]
		for _, t := range tickets {
			if t.Status == status {
				filtered = append(filtered, t)
			}
		}
		tickets = filtered
	}

	if len(tickets) == 0 {
		fmt.Printf("%sNo tickets.%s Create one: %stasktrack ticket create \"title\"%s\n",
			colorDim, colorReset, colorCyan, colorReset)
		return nil
	}

	for _, t := range tickets {
		hours := e.store.TotalHoursForTicket(t.ID)
		fmt.Printf("%s%s%s  %s%-8s%s %s%-8s%s %s",
			colorYellow, shortID(t.ID), colorReset,
			ticketStatusColor(t.Status), t.Status, colorReset,
			priorityColor(t.Priority), t.Priority, colorReset,
			t.Title)
		if hours > 0 {
			fmt.Printf("  %s(%s)%s", colorDim, timeutil.FormatDisplay(hours), colorReset)
		}
		if len(t.Tags) > 0 {
			fmt.Printf("  %s[%s]%s", colorDim, strings.Join(t.Tags, ", "), colorReset)
		}
		fmt.Println()
	}
	return nil
}

func runTicketShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTicket(e.store, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s%s%s\n", colorBold, t.Title, colorReset)
	fmt.Printf("  id:        %s\n", t.ID)
	fmt.Printf("  status:    %s%s%s\n", ticketStatusColor(t.Status), t.Status, colorReset)
	fmt.Printf("  priority:  %s%s%s\n", priorityColor(t.Priority), t.Priority, colorReset)
	if len(t.Tags) > 0 {
		fmt.Printf("  tags:      %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Printf("  created:   %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  updated:   %s\n", t.UpdatedAt.Format("2006-01-02 15:04"))
	if t.Description != "" {
		fmt.Printf("\n%s\n", t.Description)
	}

	tasks := e.store.TasksForTicket(t.ID)
	if len(tasks) > 0 {
		fmt.Printf("\n%sTasks%s (total %s)\n", colorBold, colorReset,
			timeutil.FormatDisplay(e.store.TotalHoursForTicket(t.ID)))
		for _, task := range tasks {
			fmt.Printf("  %s%s%s  %s%-12s%s %s  %s\n",
				colorYellow, shortID(task.ID), colorReset,
				taskStatusColor(task.Status), task.Status, colorReset,
				task.Title,
				timeutil.FormatDisplay(e.store.TotalHoursForTask(task.ID)))
		}
	}

	printObservations(e.store, store.ParentTicket, t.ID)
	return nil
}

func runTicketStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTicket(e.store, args[0])
	if err != nil {
		return err
	}
	status := store.TicketStatus(args[1])
	if !store.ValidTicketStatus(status) {
		return fmt.Errorf("unknown ticket status %q (want open, pending, resolved or done)", args[1])
	}
	if err := e.store.SetTicketStatus(t.ID, status); err != nil {
		return err
	}
	fmt.Printf("Ticket %s → %s%s%s\n", shortID(t.ID), ticketStatusColor(status), status, colorReset)
	return nil
}

func runTicketTag(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTicket(e.store, args[0])
	if err != nil {
		return err
	}
	t.Tags = args[1:]
	if err := e.store.UpdateTicket(t); err != nil {
		return err
	}
	if len(t.Tags) == 0 {
		fmt.Printf("Cleared tags on ticket %s\n", shortID(t.ID))
	} else {
		fmt.Printf("Ticket %s tagged: %s\n", shortID(t.ID), strings.Join(t.Tags, ", "))
	}
	return nil
}

func runTicketDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTicket(e.store, args[0])
	if err != nil {
		return err
	}
	e.store.DeleteTicket(t.ID)
	fmt.Printf("Deleted ticket %s (its tasks were unlinked, its observations removed)\n", shortID(t.ID))
	return nil
}
