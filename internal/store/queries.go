package store

// Derived read-only views over the collections. These are pure
// functions of current state, recomputed on each call; the dataset is
// local and small, so there is no caching.

// TasksForTicket returns all tasks linked to the given ticket.
func (s *Store) TasksForTicket(ticketID string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for _, t := range s.tasks {
		if t.TicketID == ticketID {
			out = append(out, t)
		}
	}
	return out
}

// UnassociatedTasks returns all tasks with no ticket link.
func (s *Store) UnassociatedTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for _, t := range s.tasks {
		if t.TicketID == "" {
			out = append(out, t)
		}
	}
	return out
}

// TicketsWithNoTasks returns tickets no task references.
func (s *Store) TicketsWithNoTasks() []Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	referenced := make(map[string]bool)
	for _, t := range s.tasks {
		if t.TicketID != "" {
			referenced[t.TicketID] = true
		}
	}

	var out []Ticket
	for _, tk := range s.tickets {
		if !referenced[tk.ID] {
			out = append(out, tk)
		}
	}
	return out
}

// TotalHoursForTask sums logged hours over the task's time entries.
func (s *Store) TotalHoursForTask(taskID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalHoursForTask(taskID)
}

func (s *Store) totalHoursForTask(taskID string) float64 {
	var total float64
	for _, e := range s.timeEntries {
		if e.TaskID == taskID {
			total += e.Hours
		}
	}
	return total
}

// TotalHoursForTicket sums TotalHoursForTask over every task linked to
// the ticket. A ticket's hours are never stored; they are always
// derived transitively through its tasks.
func (s *Store) TotalHoursForTicket(ticketID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, t := range s.tasks {
		if t.TicketID == ticketID {
			total += s.totalHoursForTask(t.ID)
		}
	}
	return total
}

// ObservationsFor returns the observations attached to the given
// parent, in creation order.
func (s *Store) ObservationsFor(kind ParentKind, parentID string) []Observation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Observation
	for _, o := range s.observations {
		if o.ParentKind == kind && o.ParentID == parentID {
			out = append(out, o)
		}
	}
	return out
}

// TimeEntriesForTask returns the time entries logged against a task.
func (s *Store) TimeEntriesForTask(taskID string) []TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []TimeEntry
	for _, e := range s.timeEntries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}

// TicketStatusCounts returns the number of tickets per status.
func (s *Store) TicketStatusCounts() map[TicketStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[TicketStatus]int)
	for _, t := range s.tickets {
		counts[t.Status]++
	}
	return counts
}

// TaskStatusCounts returns the number of tasks per status.
func (s *Store) TaskStatusCounts() map[TaskStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[TaskStatus]int)
	for _, t := range s.tasks {
		counts[t.Status]++
	}
	return counts
}
