package cli

import (
	"fmt"
	"strings"

	"github.com/imkarma/tasktrack/internal/store"
	"github.com/imkarma/tasktrack/internal/timeutil"
	"github.com/spf13/cobra"
)

var (
	taskDescription string
	taskStatusFlag  string
	taskTicket      string
	taskEstimate    float64
	taskTags        []string
	taskUnlinked    bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create or manage tasks",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task, optionally linked to a ticket",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskCreate,
}

var taskListCmd = &cobra.Command{
	Use:   "list [status]",
	Short: "List tasks, optionally filtered by status",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show task details, time entries and observations",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [id] [status]",
	Short: "Change a task's status (planned, in-progress, in-review, done)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskStatus,
}

var taskLinkCmd = &cobra.Command{
	Use:   "link [task-id] [ticket-id]",
	Short: "Associate a task with a ticket",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskLink,
}

var taskUnlinkCmd = &cobra.Command{
	Use:   "unlink [task-id]",
	Short: "Clear a task's ticket association",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskUnlink,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a task and its time entries and observations",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

func init() {
	taskCreateCmd.Flags().StringVarP(&taskDescription, "desc", "d", "", "Task description")
	taskCreateCmd.Flags().StringVarP(&taskStatusFlag, "status", "s", "planned", "Status: planned, in-progress, in-review, done")
	taskCreateCmd.Flags().StringVar(&taskTicket, "ticket", "", "Ticket id to link the task to")
	taskCreateCmd.Flags().Float64Var(&taskEstimate, "estimate", 0, "Estimated hours")
	taskCreateCmd.Flags().StringSliceVarP(&taskTags, "tag", "t", nil, "Tag (repeatable)")

	taskListCmd.Flags().BoolVar(&taskUnlinked, "unlinked", false, "Only tasks with no ticket association")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskLinkCmd)
	taskCmd.AddCommand(taskUnlinkCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ticketID := ""
	if taskTicket != "" {
		t, err := findTicket(e.store, taskTicket)
		if err != nil {
			return err
		}
		ticketID = t.ID
	}

	t, err := e.store.CreateTask(store.NewTask{
		Title:          strings.Join(args, " "),
		Description:    taskDescription,
		Status:         store.TaskStatus(taskStatusFlag),
		TicketID:       ticketID,
		EstimatedHours: taskEstimate,
		Tags:           taskTags,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created task %s%s%s: %s\n", colorCyan, shortID(t.ID), colorReset, t.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var tasks []store.Task
	if taskUnlinked {
		tasks = e.store.UnassociatedTasks()
	} else {
		tasks = e.store.Tasks()
	}

	if len(args) > 0 {
		status := store.TaskStatus(args[0])
		if !store.ValidTaskStatus(status) {
			return fmt.Errorf("unknown task status %q", args[0])
		}
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.Status == status {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	if len(tasks) == 0 {
		fmt.Printf("%sNo tasks.%s Create one: %stasktrack task create \"title\"%s\n",
			colorDim, colorReset, colorCyan, colorReset)
		return nil
	}

	for _, t := range tasks {
		link := colorDim + "unlinked" + colorReset
		if t.TicketID != "" {
			link = "→ " + shortID(t.TicketID)
		}
		fmt.Printf("%s%s%s  %s%-12s%s %-10s %s",
			colorYellow, shortID(t.ID), colorReset,
			taskStatusColor(t.Status), t.Status, colorReset,
			link, t.Title)
		if hours := e.store.TotalHoursForTask(t.ID); hours > 0 {
			fmt.Printf("  %s(%s)%s", colorDim, timeutil.FormatDisplay(hours), colorReset)
		}
		fmt.Println()
	}
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTask(e.store, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s%s%s\n", colorBold, t.Title, colorReset)
	fmt.Printf("  id:        %s\n", t.ID)
	fmt.Printf("  status:    %s%s%s\n", taskStatusColor(t.Status), t.Status, colorReset)
	if t.TicketID != "" {
		fmt.Printf("  ticket:    %s\n", shortID(t.TicketID))
	}
	if t.EstimatedHours > 0 {
		fmt.Printf("  estimate:  %s\n", timeutil.FormatDisplay(t.EstimatedHours))
	}
	fmt.Printf("  logged:    %s\n", timeutil.FormatDisplay(e.store.TotalHoursForTask(t.ID)))
	if len(t.Tags) > 0 {
		fmt.Printf("  tags:      %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Printf("  created:   %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  updated:   %s\n", t.UpdatedAt.Format("2006-01-02 15:04"))
	if t.Description != "" {
		fmt.Printf("\n%s\n", t.Description)
	}

	entries := e.store.TimeEntriesForTask(t.ID)
	if len(entries) > 0 {
		fmt.Printf("\n%sTime entries%s\n", colorBold, colorReset)
		for _, entry := range entries {
			line := fmt.Sprintf("  %s%s%s  %s  %s",
				colorYellow, shortID(entry.ID), colorReset,
				entry.Date, timeutil.FormatClock(entry.Hours))
			if entry.Type != "" {
				line += fmt.Sprintf("  %s[%s]%s", colorDim, entry.Type, colorReset)
			}
			if entry.Description != "" {
				line += "  " + truncate(entry.Description, 50)
			}
			fmt.Println(line)
		}
	}

	printObservations(e.store, store.ParentTask, t.ID)
	return nil
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTask(e.store, args[0])
	if err != nil {
		return err
	}
	status := store.TaskStatus(args[1])
	if !store.ValidTaskStatus(status) {
		return fmt.Errorf("unknown task status %q (want planned, in-progress, in-review or done)", args[1])
	}
	if err := e.store.SetTaskStatus(t.ID, status); err != nil {
		return err
	}
	fmt.Printf("Task %s → %s%s%s\n", shortID(t.ID), taskStatusColor(status), status, colorReset)
	return nil
}

func runTaskLink(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTask(e.store, args[0])
	if err != nil {
		return err
	}
	tk, err := findTicket(e.store, args[1])
	if err != nil {
		return err
	}
	if err := e.store.AssociateTaskWithTicket(t.ID, tk.ID); err != nil {
		return err
	}
	fmt.Printf("Task %s linked to ticket %s\n", shortID(t.ID), shortID(tk.ID))
	return nil
}

func runTaskUnlink(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTask(e.store, args[0])
	if err != nil {
		return err
	}
	if err := e.store.DissociateTask(t.ID); err != nil {
		return err
	}
	fmt.Printf("Task %s unlinked\n", shortID(t.ID))
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTask(e.store, args[0])
	if err != nil {
		return err
	}
	e.store.DeleteTask(t.ID)
	fmt.Printf("Deleted task %s (its time entries and observations removed)\n", shortID(t.ID))
	return nil
}
