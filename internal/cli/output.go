package cli

import (
	"fmt"
	"strings"

	"github.com/imkarma/tasktrack/internal/store"
)

// ANSI color codes.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
)

// shortID abbreviates a uuid for display. Commands accept unique
// prefixes, so the short form is enough to address an entity.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func ticketStatusColor(s store.TicketStatus) string {
	switch s {
	case store.TicketOpen:
		return colorBlue
	case store.TicketPending:
		return colorYellow
	case store.TicketResolved:
		return colorMagenta
	case store.TicketDone:
		return colorGreen
	}
	return ""
}

func taskStatusColor(s store.TaskStatus) string {
	switch s {
	case store.TaskPlanned:
		return colorWhite
	case store.TaskInProgress:
		return colorBlue
	case store.TaskInReview:
		return colorMagenta
	case store.TaskDone:
		return colorGreen
	}
	return ""
}

func priorityColor(p store.Priority) string {
	switch p {
	case store.PriorityCritical:
		return colorRed + colorBold
	case store.PriorityHigh:
		return colorRed
	case store.PriorityMedium:
		return colorYellow
	case store.PriorityLow:
		return colorDim
	}
	return ""
}

// findTicket resolves an id or unique id prefix to a ticket.
func findTicket(s *store.Store, idOrPrefix string) (store.Ticket, error) {
	if t, err := s.GetTicket(idOrPrefix); err == nil {
		return t, nil
	}

	var matches []store.Ticket
	for _, t := range s.Tickets() {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return store.Ticket{}, fmt.Errorf("no ticket matches %q", idOrPrefix)
	default:
		return store.Ticket{}, fmt.Errorf("ticket id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

// findTask resolves an id or unique id prefix to a task.
func findTask(s *store.Store, idOrPrefix string) (store.Task, error) {
	if t, err := s.GetTask(idOrPrefix); err == nil {
		return t, nil
	}

	var matches []store.Task
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return store.Task{}, fmt.Errorf("no task matches %q", idOrPrefix)
	default:
		return store.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

// findObservation resolves an id or unique id prefix to an observation.
func findObservation(s *store.Store, idOrPrefix string) (store.Observation, error) {
	var matches []store.Observation
	for _, o := range s.Observations() {
		if o.ID == idOrPrefix {
			return o, nil
		}
		if strings.HasPrefix(o.ID, idOrPrefix) {
			matches = append(matches, o)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return store.Observation{}, fmt.Errorf("no observation matches %q", idOrPrefix)
	default:
		return store.Observation{}, fmt.Errorf("observation id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

// findTimeEntry resolves an id or unique id prefix to a time entry.
func findTimeEntry(s *store.Store, idOrPrefix string) (store.TimeEntry, error) {
	var matches []store.TimeEntry
	for _, e := range s.TimeEntries() {
		if e.ID == idOrPrefix {
			return e, nil
		}
		if strings.HasPrefix(e.ID, idOrPrefix) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return store.TimeEntry{}, fmt.Errorf("no time entry matches %q", idOrPrefix)
	default:
		return store.TimeEntry{}, fmt.Errorf("time entry id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

func printObservations(s *store.Store, kind store.ParentKind, parentID string) {
	obs := s.ObservationsFor(kind, parentID)
	if len(obs) == 0 {
		return
	}
	fmt.Printf("\n%sObservations%s\n", colorBold, colorReset)
	for _, o := range obs {
		fmt.Printf("  %s%s%s %s%s%s  %s\n",
			colorYellow, shortID(o.ID), colorReset,
			colorDim, o.CreatedAt.Format("2006-01-02 15:04"), colorReset,
			truncate(o.Content, 80))
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
