package store

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSnapshot_Roundtrip(t *testing.T) {
	s := testStore(t)

	tk, _ := s.CreateTicket(NewTicket{Title: "t", Tags: []string{"infra"}})
	task, _ := s.CreateTask(NewTask{Title: "x", TicketID: tk.ID})
	s.CreateObservation(NewObservation{ParentKind: ParentTask, ParentID: task.ID, Content: "note"})
	s.CreateTimeEntry(NewTimeEntry{TaskID: task.ID, Hours: 1.5, Date: "2026-03-01"})

	snap := s.ExportSnapshot()
	if snap.Version != SnapshotVersion {
		t.Errorf("version = %q, want %q", snap.Version, SnapshotVersion)
	}
	if snap.ExportDate.IsZero() {
		t.Error("export date not set")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	other := testStore(t)
	if err := other.ImportSnapshot(data); err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}

	if got, err := other.GetTicket(tk.ID); err != nil || got.Title != "t" {
		t.Errorf("ticket after import: %+v, %v", got, err)
	}
	if hours := other.TotalHoursForTicket(tk.ID); hours != 1.5 {
		t.Errorf("hours after import = %v, want 1.5", hours)
	}
	if obs := other.ObservationsFor(ParentTask, task.ID); len(obs) != 1 {
		t.Errorf("observations after import = %d, want 1", len(obs))
	}
}

func TestImportSnapshot_RejectsMissingCollections(t *testing.T) {
	s := testStore(t)
	s.CreateTicket(NewTicket{Title: "keep me"})

	// tasks array is absent, not just empty.
	doc := `{"tickets":[],"observations":[],"timeEntries":[],"version":"1.0"}`
	if err := s.ImportSnapshot([]byte(doc)); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("got %v, want ErrInvalidSnapshot", err)
	}

	// Rejection must leave prior state untouched.
	if len(s.Tickets()) != 1 {
		t.Error("rejected import must not change state")
	}
}

func TestImportSnapshot_RejectsMalformedJSON(t *testing.T) {
	s := testStore(t)
	if err := s.ImportSnapshot([]byte("{not json")); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("got %v, want ErrInvalidSnapshot", err)
	}
}

func TestImportSnapshot_EmptyCollectionsAccepted(t *testing.T) {
	s := testStore(t)
	s.CreateTicket(NewTicket{Title: "old"})

	doc := `{"tickets":[],"tasks":[],"observations":[],"timeEntries":[],"version":"1.0"}`
	if err := s.ImportSnapshot([]byte(doc)); err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}
	if len(s.Tickets()) != 0 {
		t.Error("import should replace prior state entirely")
	}
}

func TestResetAll(t *testing.T) {
	mem := newMemStorage()
	s := Open(mem, WithLogger(quietLogger()))

	s.CreateTicket(NewTicket{Title: "t"})
	s.CreateTask(NewTask{Title: "x"})

	if err := s.ResetAll(); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	if len(s.Tickets()) != 0 || len(s.Tasks()) != 0 {
		t.Error("collections not cleared")
	}

	// The persisted medium is cleared too.
	reopened := Open(mem, WithLogger(quietLogger()))
	if len(reopened.Tickets()) != 0 {
		t.Error("storage not cleared")
	}
}
