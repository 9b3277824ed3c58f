package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion identifies the export document format.
const SnapshotVersion = "1.0"

// Snapshot is the transportable export document: all four collections
// plus a format version and export timestamp.
type Snapshot struct {
	Tickets      []Ticket      `json:"tickets"`
	Tasks        []Task        `json:"tasks"`
	Observations []Observation `json:"observations"`
	TimeEntries  []TimeEntry   `json:"timeEntries"`
	ExportDate   time.Time     `json:"exportDate"`
	Version      string        `json:"version"`
}

// snapshotDoc mirrors Snapshot with pointer collections so import can
// tell a missing array from an empty one.
type snapshotDoc struct {
	Tickets      *[]Ticket      `json:"tickets"`
	Tasks        *[]Task        `json:"tasks"`
	Observations *[]Observation `json:"observations"`
	TimeEntries  *[]TimeEntry   `json:"timeEntries"`
	ExportDate   time.Time      `json:"exportDate"`
	Version      string         `json:"version"`
}

// ExportSnapshot serializes all four collections into one document.
func (s *Store) ExportSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Tickets:      append([]Ticket{}, s.tickets...),
		Tasks:        append([]Task{}, s.tasks...),
		Observations: append([]Observation{}, s.observations...),
		TimeEntries:  append([]TimeEntry{}, s.timeEntries...),
		ExportDate:   s.now(),
		Version:      SnapshotVersion,
	}
}

// ImportSnapshot validates that the document contains all four
// collections and atomically replaces in-memory state, persisting every
// collection. A document missing any collection is rejected with no
// state change; all-or-nothing.
func (s *Store) ImportSnapshot(data []byte) error {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if doc.Tickets == nil || doc.Tasks == nil || doc.Observations == nil || doc.TimeEntries == nil {
		return ErrInvalidSnapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets = *doc.Tickets
	s.tasks = *doc.Tasks
	s.observations = *doc.Observations
	s.timeEntries = *doc.TimeEntries

	s.persist(KeyTickets, s.tickets)
	s.persist(KeyTasks, s.tasks)
	s.persist(KeyObservations, s.observations)
	s.persist(KeyTimeEntries, s.timeEntries)
	return nil
}

// ResetAll clears all four collections and the persisted storage
// unconditionally.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets = nil
	s.tasks = nil
	s.observations = nil
	s.timeEntries = nil
	return s.storage.Reset()
}
