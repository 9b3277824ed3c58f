package store

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"
)

// memStorage is an in-memory Storage used by tests. Values round-trip
// through JSON the same way the real SQLite medium does.
type memStorage struct {
	data map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (m *memStorage) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memStorage) Load(key string, dest any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memStorage) Reset() error {
	m.data = make(map[string][]byte)
	return nil
}

// fakeQueue records enqueued actions.
type fakeQueue struct {
	actions []string
}

func (q *fakeQueue) Enqueue(action string, payload any) {
	q.actions = append(q.actions, action)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// testStore creates a store over in-memory storage for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	return Open(newMemStorage(), WithLogger(quietLogger()))
}

func TestCreateTicket(t *testing.T) {
	s := testStore(t)

	tk, err := s.CreateTicket(NewTicket{Title: "Broken login", Description: "500 on POST"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if tk.ID == "" {
		t.Error("expected a generated id")
	}
	if tk.Status != TicketOpen {
		t.Errorf("expected default status open, got %s", tk.Status)
	}
	if tk.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %s", tk.Priority)
	}
	if tk.Tags == nil {
		t.Error("expected tags to default to an empty slice, got nil")
	}
	if tk.CreatedAt.IsZero() || !tk.CreatedAt.Equal(tk.UpdatedAt) {
		t.Errorf("expected createdAt == updatedAt, got %v / %v", tk.CreatedAt, tk.UpdatedAt)
	}
}

func TestCreateTicket_Validation(t *testing.T) {
	s := testStore(t)

	if _, err := s.CreateTicket(NewTicket{}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("empty title: got %v, want ErrTitleRequired", err)
	}
	if _, err := s.CreateTicket(NewTicket{Title: "x", Status: "bogus"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: got %v, want ErrInvalidStatus", err)
	}
	if _, err := s.CreateTicket(NewTicket{Title: "x", Priority: "bogus"}); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("bad priority: got %v, want ErrInvalidPriority", err)
	}
}

func TestUpdateTicket_RefreshesTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := Open(newMemStorage(), WithLogger(quietLogger()), WithClock(clock))

	tk, err := s.CreateTicket(NewTicket{Title: "Slow dashboard"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	now = now.Add(time.Hour)
	updated := *tk
	updated.Title = "Slow dashboard in prod"
	if err := s.UpdateTicket(updated); err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}

	got, err := s.GetTicket(tk.ID)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if got.Title != "Slow dashboard in prod" {
		t.Errorf("title not updated: %q", got.Title)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updatedAt not refreshed: %v vs %v", got.UpdatedAt, got.CreatedAt)
	}
	if !got.CreatedAt.Equal(tk.CreatedAt) {
		t.Errorf("createdAt must be preserved: %v vs %v", got.CreatedAt, tk.CreatedAt)
	}
}

func TestUpdateTicket_UnknownIDIsNoOp(t *testing.T) {
	s := testStore(t)

	err := s.UpdateTicket(Ticket{ID: "missing", Title: "x", Status: TicketOpen, Priority: PriorityLow})
	if err != nil {
		t.Fatalf("update of unknown id must not error, got %v", err)
	}
	if len(s.Tickets()) != 0 {
		t.Error("no ticket should have been created")
	}
}

func TestSetTicketStatus(t *testing.T) {
	s := testStore(t)

	tk, _ := s.CreateTicket(NewTicket{Title: "t"})
	if err := s.SetTicketStatus(tk.ID, TicketDone); err != nil {
		t.Fatalf("SetTicketStatus: %v", err)
	}
	got, _ := s.GetTicket(tk.ID)
	if got.Status != TicketDone {
		t.Errorf("status = %s, want done", got.Status)
	}

	// Same status again is valid and refreshes the timestamp only.
	if err := s.SetTicketStatus(tk.ID, TicketDone); err != nil {
		t.Fatalf("idempotent SetTicketStatus: %v", err)
	}
	if err := s.SetTicketStatus(tk.ID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: got %v, want ErrInvalidStatus", err)
	}
}

func TestDeleteTicket_Cascades(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := Open(newMemStorage(), WithLogger(quietLogger()), WithClock(clock))

	tk, _ := s.CreateTicket(NewTicket{Title: "parent"})
	task, _ := s.CreateTask(NewTask{Title: "child", TicketID: tk.ID})
	s.CreateObservation(NewObservation{ParentKind: ParentTicket, ParentID: tk.ID, Content: "note"})

	now = now.Add(time.Minute)
	s.DeleteTicket(tk.ID)

	if _, err := s.GetTicket(tk.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ticket should be gone, got %v", err)
	}

	got, err := s.GetTask(task.ID)
	if err != nil {
		t.Fatalf("task must survive the cascade: %v", err)
	}
	if got.TicketID != "" {
		t.Errorf("task ticket link should be cleared, got %q", got.TicketID)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("unlinked task should get a refreshed update timestamp")
	}
	if obs := s.ObservationsFor(ParentTicket, tk.ID); len(obs) != 0 {
		t.Errorf("ticket observations should be removed, got %d", len(obs))
	}
}

func TestDeleteTask_Cascades(t *testing.T) {
	s := testStore(t)

	task, _ := s.CreateTask(NewTask{Title: "doomed"})
	s.CreateTimeEntry(NewTimeEntry{TaskID: task.ID, Hours: 2, Date: "2026-03-01"})
	s.CreateObservation(NewObservation{ParentKind: ParentTask, ParentID: task.ID, Content: "note"})
	other, _ := s.CreateTask(NewTask{Title: "survivor"})
	keep, _ := s.CreateTimeEntry(NewTimeEntry{TaskID: other.ID, Hours: 1, Date: "2026-03-01"})

	s.DeleteTask(task.ID)

	if _, err := s.GetTask(task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("task should be gone, got %v", err)
	}
	if entries := s.TimeEntriesForTask(task.ID); len(entries) != 0 {
		t.Errorf("task time entries should be removed, got %d", len(entries))
	}
	if obs := s.ObservationsFor(ParentTask, task.ID); len(obs) != 0 {
		t.Errorf("task observations should be removed, got %d", len(obs))
	}
	if _, err := s.GetTimeEntry(keep.ID); err != nil {
		t.Errorf("unrelated time entry must survive: %v", err)
	}
}

func TestDeleteTicket_UnknownIDIsNoOp(t *testing.T) {
	s := testStore(t)

	tk, _ := s.CreateTicket(NewTicket{Title: "keep"})
	s.DeleteTicket("missing")
	s.DeleteTicket("")
	if _, err := s.GetTicket(tk.ID); err != nil {
		t.Errorf("existing ticket must be untouched: %v", err)
	}
}

func TestCreateTask_Defaults(t *testing.T) {
	s := testStore(t)

	task, err := s.CreateTask(NewTask{Title: "t"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != TaskPlanned {
		t.Errorf("expected default status planned, got %s", task.Status)
	}
	if task.Tags == nil {
		t.Error("expected tags to default to an empty slice, got nil")
	}

	if _, err := s.CreateTask(NewTask{Title: "t", EstimatedHours: -1}); !errors.Is(err, ErrNegativeHours) {
		t.Errorf("negative estimate: got %v, want ErrNegativeHours", err)
	}
}

func TestAssociateAndDissociateTask(t *testing.T) {
	s := testStore(t)

	tk, _ := s.CreateTicket(NewTicket{Title: "t"})
	task, _ := s.CreateTask(NewTask{Title: "x"})

	if err := s.AssociateTaskWithTicket(task.ID, tk.ID); err != nil {
		t.Fatalf("associate: %v", err)
	}
	got, _ := s.GetTask(task.ID)
	if got.TicketID != tk.ID {
		t.Errorf("ticket link = %q, want %q", got.TicketID, tk.ID)
	}

	if err := s.DissociateTask(task.ID); err != nil {
		t.Fatalf("dissociate: %v", err)
	}
	got, _ = s.GetTask(task.ID)
	if got.TicketID != "" {
		t.Errorf("ticket link should be cleared, got %q", got.TicketID)
	}

	if err := s.AssociateTaskWithTicket("", tk.ID); !errors.Is(err, ErrInvalidID) {
		t.Errorf("empty task id: got %v, want ErrInvalidID", err)
	}
}

func TestObservations(t *testing.T) {
	s := testStore(t)

	tk, _ := s.CreateTicket(NewTicket{Title: "t"})
	o, err := s.CreateObservation(NewObservation{ParentKind: ParentTicket, ParentID: tk.ID, Content: "first"})
	if err != nil {
		t.Fatalf("CreateObservation: %v", err)
	}

	if err := s.UpdateObservation(o.ID, "revised"); err != nil {
		t.Fatalf("UpdateObservation: %v", err)
	}
	obs := s.ObservationsFor(ParentTicket, tk.ID)
	if len(obs) != 1 || obs[0].Content != "revised" {
		t.Fatalf("unexpected observations: %+v", obs)
	}

	if err := s.DeleteObservation(""); !errors.Is(err, ErrInvalidID) {
		t.Errorf("empty id: got %v, want ErrInvalidID", err)
	}
	if err := s.DeleteObservation(o.ID); err != nil {
		t.Fatalf("DeleteObservation: %v", err)
	}
	if obs := s.ObservationsFor(ParentTicket, tk.ID); len(obs) != 0 {
		t.Errorf("observation should be gone, got %d", len(obs))
	}
}

func TestCreateObservation_InvalidParent(t *testing.T) {
	s := testStore(t)

	if _, err := s.CreateObservation(NewObservation{ParentKind: ParentTicket}); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("empty parent id: got %v, want ErrInvalidParent", err)
	}
	if _, err := s.CreateObservation(NewObservation{ParentKind: "epic", ParentID: "x"}); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("unknown parent kind: got %v, want ErrInvalidParent", err)
	}
}

func TestTimeEntries_Validation(t *testing.T) {
	s := testStore(t)

	task, _ := s.CreateTask(NewTask{Title: "t"})

	if _, err := s.CreateTimeEntry(NewTimeEntry{TaskID: task.ID, Hours: -1, Date: "2026-03-01"}); !errors.Is(err, ErrNegativeHours) {
		t.Errorf("negative hours: got %v, want ErrNegativeHours", err)
	}
	if _, err := s.CreateTimeEntry(NewTimeEntry{TaskID: task.ID, Hours: 1, Date: "01/03/2026"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date: got %v, want ErrInvalidDate", err)
	}
	if _, err := s.CreateTimeEntry(NewTimeEntry{Hours: 1, Date: "2026-03-01"}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("empty task id: got %v, want ErrInvalidID", err)
	}

	e, err := s.CreateTimeEntry(NewTimeEntry{TaskID: task.ID, Hours: 1.5, Date: "2026-03-01"})
	if err != nil {
		t.Fatalf("CreateTimeEntry: %v", err)
	}
	e.Hours = 2.25
	if err := s.UpdateTimeEntry(*e); err != nil {
		t.Fatalf("UpdateTimeEntry: %v", err)
	}
	got, _ := s.GetTimeEntry(e.ID)
	if got.Hours != 2.25 {
		t.Errorf("hours = %v, want 2.25", got.Hours)
	}
	if err := s.DeleteTimeEntry(e.ID); err != nil {
		t.Fatalf("DeleteTimeEntry: %v", err)
	}
	if _, err := s.GetTimeEntry(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("entry should be gone, got %v", err)
	}
}

func TestWriteThrough_SurvivesReopen(t *testing.T) {
	mem := newMemStorage()
	s := Open(mem, WithLogger(quietLogger()))

	tk, _ := s.CreateTicket(NewTicket{Title: "persisted", Tags: []string{"infra"}})
	task, _ := s.CreateTask(NewTask{Title: "child", TicketID: tk.ID})
	s.CreateTimeEntry(NewTimeEntry{TaskID: task.ID, Hours: 3, Date: "2026-03-01"})

	// A second store over the same medium sees everything.
	reopened := Open(mem, WithLogger(quietLogger()))
	got, err := reopened.GetTicket(tk.ID)
	if err != nil {
		t.Fatalf("ticket not persisted: %v", err)
	}
	if got.Title != "persisted" || len(got.Tags) != 1 {
		t.Errorf("unexpected ticket after reopen: %+v", got)
	}
	if hours := reopened.TotalHoursForTicket(tk.ID); hours != 3 {
		t.Errorf("hours after reopen = %v, want 3", hours)
	}
}

func TestMutations_RecordSyncIntents(t *testing.T) {
	q := &fakeQueue{}
	s := Open(newMemStorage(), WithLogger(quietLogger()), WithQueue(q))

	tk, _ := s.CreateTicket(NewTicket{Title: "t"})
	s.SetTicketStatus(tk.ID, TicketDone)
	task, _ := s.CreateTask(NewTask{Title: "x"})
	s.CreateTimeEntry(NewTimeEntry{TaskID: task.ID, Hours: 1, Date: "2026-03-01"})
	s.DeleteTicket(tk.ID)

	want := []string{"ticket-create", "ticket-update", "task-create", "time-entry-create"}
	if len(q.actions) != len(want) {
		t.Fatalf("actions = %v, want %v", q.actions, want)
	}
	for i, a := range want {
		if q.actions[i] != a {
			t.Errorf("action[%d] = %q, want %q", i, q.actions[i], a)
		}
	}
}

func TestAccessors_ReturnCopies(t *testing.T) {
	s := testStore(t)

	s.CreateTicket(NewTicket{Title: "original"})
	tickets := s.Tickets()
	tickets[0].Title = "mutated"

	if got := s.Tickets()[0].Title; got != "original" {
		t.Errorf("store state leaked through accessor: %q", got)
	}
}
