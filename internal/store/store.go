// Package store holds the canonical in-memory collections of the four
// entity kinds and the mutation API that is the only way to change them.
// Every successful mutation is written through to durable storage before
// the call returns, and creates/updates are recorded as sync intents.
package store

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imkarma/tasktrack/internal/offline"
)

// Well-known storage keys for the four collections.
const (
	KeyTickets      = "tickets"
	KeyTasks        = "tasks"
	KeyObservations = "observations"
	KeyTimeEntries  = "time_entries"
)

// Storage persists a collection under a well-known key. Load reports
// found=false for keys that were never saved or whose payload is corrupt.
type Storage interface {
	Save(key string, v any) error
	Load(key string, dest any) (bool, error)
	Reset() error
}

// Enqueuer records a sync intent for later replication. Implemented by
// the offline queue; enqueueing is fire-and-forget from the store's
// point of view.
type Enqueuer interface {
	Enqueue(action string, payload any)
}

// Store owns the canonical collections. All access goes through its
// methods; external callers never hold a mutable reference to the
// underlying slices.
type Store struct {
	mu      sync.Mutex
	storage Storage
	queue   Enqueuer
	now     func() time.Time
	logger  *log.Logger

	tickets      []Ticket
	tasks        []Task
	observations []Observation
	timeEntries  []TimeEntry
}

// Option configures a Store.
type Option func(*Store)

// WithQueue wires a sync queue that receives create/update intents.
func WithQueue(q Enqueuer) Option {
	return func(s *Store) { s.queue = q }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger overrides the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open loads prior state from storage and returns a ready store.
// Absent or corrupt collections initialize empty; Open never fails hard.
func Open(st Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		now:     time.Now,
		logger:  log.New(os.Stderr, "[store] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.loadCollection(KeyTickets, &s.tickets)
	s.loadCollection(KeyTasks, &s.tasks)
	s.loadCollection(KeyObservations, &s.observations)
	s.loadCollection(KeyTimeEntries, &s.timeEntries)
	return s
}

func (s *Store) loadCollection(key string, dest any) {
	found, err := s.storage.Load(key, dest)
	if err != nil {
		s.logger.Printf("load %s: %v (starting empty)", key, err)
		return
	}
	if !found {
		return
	}
}

// persist writes a collection through to durable storage. Failures are
// logged, not propagated: local in-memory state stays authoritative.
func (s *Store) persist(key string, v any) {
	if err := s.storage.Save(key, v); err != nil {
		s.logger.Printf("persist %s: %v", key, err)
	}
}

func (s *Store) enqueue(action string, payload any) {
	if s.queue != nil {
		s.queue.Enqueue(action, payload)
	}
}

func newID() string {
	return uuid.NewString()
}

// cloneTags guarantees the default-tags invariant: never nil.
func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// --- Tickets ---

// CreateTicket assigns id, timestamps and default tags, appends the
// ticket, persists the collection and records a sync intent.
func (s *Store) CreateTicket(d NewTicket) (*Ticket, error) {
	if d.Title == "" {
		return nil, ErrTitleRequired
	}
	if d.Status == "" {
		d.Status = TicketOpen
	}
	if !ValidTicketStatus(d.Status) {
		return nil, ErrInvalidStatus
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if !ValidPriority(d.Priority) {
		return nil, ErrInvalidPriority
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := Ticket{
		ID:          newID(),
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		Tags:        cloneTags(d.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tickets = append(s.tickets, t)
	s.persist(KeyTickets, s.tickets)
	s.enqueue(offline.ActionTicketCreate, t)
	return &t, nil
}

// UpdateTicket replaces the ticket with the same id, refreshing its
// update timestamp. An unknown id is a logged no-op.
func (s *Store) UpdateTicket(t Ticket) error {
	if t.ID == "" {
		return ErrInvalidID
	}
	if !ValidTicketStatus(t.Status) {
		return ErrInvalidStatus
	}
	if !ValidPriority(t.Priority) {
		return ErrInvalidPriority
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.ticketIndex(t.ID)
	if i < 0 {
		s.logger.Printf("update ticket %s: not found, skipping", t.ID)
		return nil
	}
	t.CreatedAt = s.tickets[i].CreatedAt
	t.Tags = cloneTags(t.Tags)
	t.UpdatedAt = s.now()
	s.tickets[i] = t
	s.persist(KeyTickets, s.tickets)
	s.enqueue(offline.ActionTicketUpdate, t)
	return nil
}

// SetTicketStatus is a partial update restricted to status and the
// update timestamp.
func (s *Store) SetTicketStatus(id string, status TicketStatus) error {
	if id == "" {
		return ErrInvalidID
	}
	if !ValidTicketStatus(status) {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.ticketIndex(id)
	if i < 0 {
		s.logger.Printf("set ticket status %s: not found, skipping", id)
		return nil
	}
	s.tickets[i].Status = status
	s.tickets[i].UpdatedAt = s.now()
	s.persist(KeyTickets, s.tickets)
	s.enqueue(offline.ActionTicketUpdate, s.tickets[i])
	return nil
}

// DeleteTicket removes the ticket and cascades: tasks referencing it
// have their ticket link cleared, and its observations are removed.
// A missing or empty id is logged and otherwise ignored; deletion is a
// best-effort local operation.
func (s *Store) DeleteTicket(id string) {
	if id == "" {
		s.logger.Print("delete ticket: empty id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.ticketIndex(id)
	if i < 0 {
		s.logger.Printf("delete ticket %s: not found", id)
		return
	}

	now := s.now()
	for j := range s.tasks {
		if s.tasks[j].TicketID == id {
			s.tasks[j].TicketID = ""
			s.tasks[j].UpdatedAt = now
		}
	}
	s.observations = removeObservations(s.observations, ParentTicket, id)
	s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)

	s.persist(KeyTickets, s.tickets)
	s.persist(KeyTasks, s.tasks)
	s.persist(KeyObservations, s.observations)
}

func (s *Store) ticketIndex(id string) int {
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Tasks ---

// CreateTask assigns id, timestamps and default tags, appends the task,
// persists the collection and records a sync intent. The ticket link is
// not checked for existence: it is a weak reference.
func (s *Store) CreateTask(d NewTask) (*Task, error) {
	if d.Title == "" {
		return nil, ErrTitleRequired
	}
	if d.Status == "" {
		d.Status = TaskPlanned
	}
	if !ValidTaskStatus(d.Status) {
		return nil, ErrInvalidStatus
	}
	if d.EstimatedHours < 0 {
		return nil, ErrNegativeHours
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := Task{
		ID:             newID(),
		Title:          d.Title,
		Description:    d.Description,
		Status:         d.Status,
		TicketID:       d.TicketID,
		EstimatedHours: d.EstimatedHours,
		Tags:           cloneTags(d.Tags),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.tasks = append(s.tasks, t)
	s.persist(KeyTasks, s.tasks)
	s.enqueue(offline.ActionTaskCreate, t)
	return &t, nil
}

// UpdateTask replaces the task with the same id, refreshing its update
// timestamp. An unknown id is a logged no-op.
func (s *Store) UpdateTask(t Task) error {
	if t.ID == "" {
		return ErrInvalidID
	}
	if !ValidTaskStatus(t.Status) {
		return ErrInvalidStatus
	}
	if t.EstimatedHours < 0 {
		return ErrNegativeHours
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(t.ID)
	if i < 0 {
		s.logger.Printf("update task %s: not found, skipping", t.ID)
		return nil
	}
	t.CreatedAt = s.tasks[i].CreatedAt
	t.Tags = cloneTags(t.Tags)
	t.UpdatedAt = s.now()
	s.tasks[i] = t
	s.persist(KeyTasks, s.tasks)
	s.enqueue(offline.ActionTaskUpdate, t)
	return nil
}

// SetTaskStatus is a partial update restricted to status and the update
// timestamp.
func (s *Store) SetTaskStatus(id string, status TaskStatus) error {
	if id == "" {
		return ErrInvalidID
	}
	if !ValidTaskStatus(status) {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		s.logger.Printf("set task status %s: not found, skipping", id)
		return nil
	}
	s.tasks[i].Status = status
	s.tasks[i].UpdatedAt = s.now()
	s.persist(KeyTasks, s.tasks)
	s.enqueue(offline.ActionTaskUpdate, s.tasks[i])
	return nil
}

// AssociateTaskWithTicket sets the task's ticket link and refreshes its
// update timestamp. The ticket's existence is not enforced.
func (s *Store) AssociateTaskWithTicket(taskID, ticketID string) error {
	if taskID == "" || ticketID == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(taskID)
	if i < 0 {
		s.logger.Printf("associate task %s: not found, skipping", taskID)
		return nil
	}
	s.tasks[i].TicketID = ticketID
	s.tasks[i].UpdatedAt = s.now()
	s.persist(KeyTasks, s.tasks)
	s.enqueue(offline.ActionTaskUpdate, s.tasks[i])
	return nil
}

// DissociateTask clears the task's ticket link.
func (s *Store) DissociateTask(taskID string) error {
	if taskID == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(taskID)
	if i < 0 {
		s.logger.Printf("dissociate task %s: not found, skipping", taskID)
		return nil
	}
	s.tasks[i].TicketID = ""
	s.tasks[i].UpdatedAt = s.now()
	s.persist(KeyTasks, s.tasks)
	s.enqueue(offline.ActionTaskUpdate, s.tasks[i])
	return nil
}

// DeleteTask removes the task and cascades: its time entries and its
// observations are removed. Missing ids are logged and ignored.
func (s *Store) DeleteTask(id string) {
	if id == "" {
		s.logger.Print("delete task: empty id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		s.logger.Printf("delete task %s: not found", id)
		return
	}

	kept := s.timeEntries[:0:0]
	for _, e := range s.timeEntries {
		if e.TaskID != id {
			kept = append(kept, e)
		}
	}
	s.timeEntries = kept
	s.observations = removeObservations(s.observations, ParentTask, id)
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	s.persist(KeyTasks, s.tasks)
	s.persist(KeyTimeEntries, s.timeEntries)
	s.persist(KeyObservations, s.observations)
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Observations ---

// CreateObservation assigns id and creation timestamp and appends the
// observation. The parent reference is weak and not checked for
// existence.
func (s *Store) CreateObservation(d NewObservation) (*Observation, error) {
	if d.ParentID == "" {
		return nil, ErrInvalidParent
	}
	if d.ParentKind != ParentTicket && d.ParentKind != ParentTask {
		return nil, ErrInvalidParent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := Observation{
		ID:         newID(),
		ParentID:   d.ParentID,
		ParentKind: d.ParentKind,
		Content:    d.Content,
		CreatedAt:  s.now(),
	}
	s.observations = append(s.observations, o)
	s.persist(KeyObservations, s.observations)
	return &o, nil
}

// UpdateObservation replaces the observation's content only. There is
// no update timestamp to refresh. An unknown id is a logged no-op.
func (s *Store) UpdateObservation(id, content string) error {
	if id == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.observations {
		if s.observations[i].ID == id {
			s.observations[i].Content = content
			s.persist(KeyObservations, s.observations)
			return nil
		}
	}
	s.logger.Printf("update observation %s: not found, skipping", id)
	return nil
}

// DeleteObservation removes the observation. An empty id is a reported
// error; an unknown id leaves state unchanged.
func (s *Store) DeleteObservation(id string) error {
	if id == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.observations[:0:0]
	for _, o := range s.observations {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	s.observations = kept
	s.persist(KeyObservations, s.observations)
	return nil
}

func removeObservations(obs []Observation, kind ParentKind, parentID string) []Observation {
	kept := obs[:0:0]
	for _, o := range obs {
		if o.ParentKind == kind && o.ParentID == parentID {
			continue
		}
		kept = append(kept, o)
	}
	return kept
}

// --- Time entries ---

// CreateTimeEntry assigns an id and appends the entry. Time entries are
// leaves: they carry no timestamps beyond their calendar date.
func (s *Store) CreateTimeEntry(d NewTimeEntry) (*TimeEntry, error) {
	if d.TaskID == "" {
		return nil, ErrInvalidID
	}
	if err := validateTimeEntry(d.Hours, d.Date); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := TimeEntry{
		ID:          newID(),
		TaskID:      d.TaskID,
		Hours:       d.Hours,
		Date:        d.Date,
		Description: d.Description,
		Type:        d.Type,
	}
	s.timeEntries = append(s.timeEntries, e)
	s.persist(KeyTimeEntries, s.timeEntries)
	s.enqueue(offline.ActionTimeEntryCreate, e)
	return &e, nil
}

// UpdateTimeEntry replaces the entry with the same id. An unknown id is
// a logged no-op.
func (s *Store) UpdateTimeEntry(e TimeEntry) error {
	if e.ID == "" || e.TaskID == "" {
		return ErrInvalidID
	}
	if err := validateTimeEntry(e.Hours, e.Date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.timeEntries {
		if s.timeEntries[i].ID == e.ID {
			s.timeEntries[i] = e
			s.persist(KeyTimeEntries, s.timeEntries)
			s.enqueue(offline.ActionTimeEntryUpdate, e)
			return nil
		}
	}
	s.logger.Printf("update time entry %s: not found, skipping", e.ID)
	return nil
}

// DeleteTimeEntry removes the entry. No cascades: time entries are
// leaves.
func (s *Store) DeleteTimeEntry(id string) error {
	if id == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.timeEntries[:0:0]
	for _, e := range s.timeEntries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.timeEntries = kept
	s.persist(KeyTimeEntries, s.timeEntries)
	return nil
}

func validateTimeEntry(hours float64, date string) error {
	if hours < 0 {
		return ErrNegativeHours
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// --- Accessors ---

// Tickets returns a copy of the ticket collection.
func (s *Store) Tickets() []Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Ticket(nil), s.tickets...)
}

// Tasks returns a copy of the task collection.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

// Observations returns a copy of the observation collection.
func (s *Store) Observations() []Observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Observation(nil), s.observations...)
}

// TimeEntries returns a copy of the time entry collection.
func (s *Store) TimeEntries() []TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TimeEntry(nil), s.timeEntries...)
}

// GetTicket returns a single ticket by id.
func (s *Store) GetTicket(id string) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.ticketIndex(id); i >= 0 {
		return s.tickets[i], nil
	}
	return Ticket{}, ErrNotFound
}

// GetTask returns a single task by id.
func (s *Store) GetTask(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.taskIndex(id); i >= 0 {
		return s.tasks[i], nil
	}
	return Task{}, ErrNotFound
}

// GetTimeEntry returns a single time entry by id.
func (s *Store) GetTimeEntry(id string) (TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.timeEntries {
		if e.ID == id {
			return e, nil
		}
	}
	return TimeEntry{}, ErrNotFound
}
