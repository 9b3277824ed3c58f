package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/imkarma/tasktrack/internal/store"
	"github.com/imkarma/tasktrack/internal/timeutil"
	"github.com/spf13/cobra"
)

var (
	timeDate        string
	timeType        string
	timeDescription string
)

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Log and manage time entries",
}

var timeLogCmd = &cobra.Command{
	Use:   "log [task-id] [hours]",
	Short: "Log time against a task (hours as decimal \"1.5\" or clock \"1:30\")",
	Args:  cobra.ExactArgs(2),
	RunE:  runTimeLog,
}

var timeListCmd = &cobra.Command{
	Use:   "list [task-id]",
	Short: "List time entries, optionally for one task",
	RunE:  runTimeList,
}

var timeEditCmd = &cobra.Command{
	Use:   "edit [id] [hours]",
	Short: "Change a time entry's hours",
	Args:  cobra.ExactArgs(2),
	RunE:  runTimeEdit,
}

var timeRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a time entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeRm,
}

func init() {
	timeLogCmd.Flags().StringVar(&timeDate, "date", "", "Date YYYY-MM-DD (default today)")
	timeLogCmd.Flags().StringVar(&timeType, "type", "", "Entry type, e.g. development, review, meeting")
	timeLogCmd.Flags().StringVarP(&timeDescription, "desc", "d", "", "What the time was spent on")

	timeCmd.AddCommand(timeLogCmd)
	timeCmd.AddCommand(timeListCmd)
	timeCmd.AddCommand(timeEditCmd)
	timeCmd.AddCommand(timeRmCmd)
}

// parseHours accepts decimal hours ("1.5") or clock notation ("1:30").
func parseHours(s string) (float64, error) {
	if strings.Contains(s, ":") {
		return timeutil.ParseClock(s)
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q: want a decimal like 1.5 or clock like 1:30", s)
	}
	return h, nil
}

func runTimeLog(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	t, err := findTask(e.store, args[0])
	if err != nil {
		return err
	}
	hours, err := parseHours(args[1])
	if err != nil {
		return err
	}

	date := timeDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	entry, err := e.store.CreateTimeEntry(store.NewTimeEntry{
		TaskID:      t.ID,
		Hours:       hours,
		Date:        date,
		Description: timeDescription,
		Type:        timeType,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Logged %s%s%s on task %s (%s, total %s)\n",
		colorCyan, timeutil.FormatDisplay(entry.Hours), colorReset,
		shortID(t.ID), date,
		timeutil.FormatDisplay(e.store.TotalHoursForTask(t.ID)))
	return nil
}

func runTimeList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var entries []store.TimeEntry
	if len(args) > 0 {
		t, err := findTask(e.store, args[0])
		if err != nil {
			return err
		}
		entries = e.store.TimeEntriesForTask(t.ID)
	} else {
		entries = e.store.TimeEntries()
	}

	if len(entries) == 0 {
		fmt.Printf("%sNo time entries.%s\n", colorDim, colorReset)
		return nil
	}

	var total float64
	for _, entry := range entries {
		total += entry.Hours
		line := fmt.Sprintf("%s%s%s  %s  %s  task %s",
			colorYellow, shortID(entry.ID), colorReset,
			entry.Date, timeutil.FormatClock(entry.Hours), shortID(entry.TaskID))
		if entry.Type != "" {
			line += fmt.Sprintf("  %s[%s]%s", colorDim, entry.Type, colorReset)
		}
		if entry.Description != "" {
			line += "  " + truncate(entry.Description, 50)
		}
		fmt.Println(line)
	}
	fmt.Printf("%sTotal: %s%s\n", colorBold, timeutil.FormatDisplay(total), colorReset)
	return nil
}

func runTimeEdit(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	entry, err := findTimeEntry(e.store, args[0])
	if err != nil {
		return err
	}
	hours, err := parseHours(args[1])
	if err != nil {
		return err
	}
	entry.Hours = hours
	if err := e.store.UpdateTimeEntry(entry); err != nil {
		return err
	}
	fmt.Printf("Time entry %s → %s\n", shortID(entry.ID), timeutil.FormatDisplay(hours))
	return nil
}

func runTimeRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	entry, err := findTimeEntry(e.store, args[0])
	if err != nil {
		return err
	}
	if err := e.store.DeleteTimeEntry(entry.ID); err != nil {
		return err
	}
	fmt.Printf("Removed time entry %s\n", shortID(entry.ID))
	return nil
}
