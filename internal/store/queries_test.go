package store

import "testing"

func TestTotalHours_Aggregation(t *testing.T) {
	s := testStore(t)

	tk, _ := s.CreateTicket(NewTicket{Title: "t"})
	a, _ := s.CreateTask(NewTask{Title: "a", TicketID: tk.ID})
	b, _ := s.CreateTask(NewTask{Title: "b", TicketID: tk.ID})
	s.CreateTimeEntry(NewTimeEntry{TaskID: a.ID, Hours: 2.5, Date: "2026-03-01"})
	s.CreateTimeEntry(NewTimeEntry{TaskID: a.ID, Hours: 1.25, Date: "2026-03-02"})
	s.CreateTimeEntry(NewTimeEntry{TaskID: b.ID, Hours: 0.25, Date: "2026-03-02"})

	if got := s.TotalHoursForTask(a.ID); got != 3.75 {
		t.Errorf("TotalHoursForTask = %v, want 3.75", got)
	}
	if got := s.TotalHoursForTicket(tk.ID); got != 4 {
		t.Errorf("TotalHoursForTicket = %v, want 4", got)
	}
	if got := s.TotalHoursForTask("missing"); got != 0 {
		t.Errorf("missing task hours = %v, want 0", got)
	}
}

func TestTasksForTicket(t *testing.T) {
	s := testStore(t)

	tk, _ := s.CreateTicket(NewTicket{Title: "t"})
	s.CreateTask(NewTask{Title: "linked", TicketID: tk.ID})
	s.CreateTask(NewTask{Title: "loose"})

	got := s.TasksForTicket(tk.ID)
	if len(got) != 1 || got[0].Title != "linked" {
		t.Fatalf("TasksForTicket = %+v", got)
	}
}

func TestUnassociatedTasks(t *testing.T) {
	s := testStore(t)

	tk, _ := s.CreateTicket(NewTicket{Title: "t"})
	s.CreateTask(NewTask{Title: "linked", TicketID: tk.ID})
	s.CreateTask(NewTask{Title: "loose one"})
	s.CreateTask(NewTask{Title: "loose two"})

	got := s.UnassociatedTasks()
	if len(got) != 2 {
		t.Fatalf("UnassociatedTasks = %d, want 2", len(got))
	}
}

func TestTicketsWithNoTasks(t *testing.T) {
	s := testStore(t)

	busy, _ := s.CreateTicket(NewTicket{Title: "busy"})
	idle, _ := s.CreateTicket(NewTicket{Title: "idle"})
	s.CreateTask(NewTask{Title: "work", TicketID: busy.ID})

	got := s.TicketsWithNoTasks()
	if len(got) != 1 || got[0].ID != idle.ID {
		t.Fatalf("TicketsWithNoTasks = %+v", got)
	}
}

func TestStatusCounts(t *testing.T) {
	s := testStore(t)

	s.CreateTicket(NewTicket{Title: "a"})
	s.CreateTicket(NewTicket{Title: "b"})
	s.CreateTicket(NewTicket{Title: "c", Status: TicketDone})
	s.CreateTask(NewTask{Title: "x", Status: TaskInProgress})

	tc := s.TicketStatusCounts()
	if tc[TicketOpen] != 2 || tc[TicketDone] != 1 {
		t.Errorf("TicketStatusCounts = %v", tc)
	}
	kc := s.TaskStatusCounts()
	if kc[TaskInProgress] != 1 {
		t.Errorf("TaskStatusCounts = %v", kc)
	}
}
