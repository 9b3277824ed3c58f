package store

import "time"

// TicketStatus represents the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketPending  TicketStatus = "pending"
	TicketResolved TicketStatus = "resolved"
	TicketDone     TicketStatus = "done"
)

// ValidTicketStatus reports whether s is one of the known ticket statuses.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketOpen, TicketPending, TicketResolved, TicketDone:
		return true
	}
	return false
}

// Priority represents the urgency of a ticket.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPlanned    TaskStatus = "planned"
	TaskInProgress TaskStatus = "in-progress"
	TaskInReview   TaskStatus = "in-review"
	TaskDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether s is one of the known task statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPlanned, TaskInProgress, TaskInReview, TaskDone:
		return true
	}
	return false
}

// ParentKind identifies what kind of entity an observation is attached to.
type ParentKind string

const (
	ParentTicket ParentKind = "ticket"
	ParentTask   ParentKind = "task"
)

// Ticket is a top-level unit of work tracked by status and priority.
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	Priority    Priority     `json:"priority"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Task is a unit of actionable work, optionally linked to a ticket.
// TicketID is a weak reference: it may transiently name a ticket that
// no longer exists; cascade logic in the mutation API keeps it consistent.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	TicketID       string     `json:"ticketId,omitempty"`
	EstimatedHours float64    `json:"estimatedHours,omitempty"`
	Tags           []string   `json:"tags"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Observation is a free-text note attached to a ticket or a task.
// Observations carry no update timestamp: the model records only when
// they were created, even though their content can be edited.
type Observation struct {
	ID         string     `json:"id"`
	ParentID   string     `json:"parentId"`
	ParentKind ParentKind `json:"parentType"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// TimeEntry is a logged duration of work against a task. Hours is a
// non-negative decimal where the fractional part is minutes/60. Date is
// a calendar date in YYYY-MM-DD form with no time component.
type TimeEntry struct {
	ID          string  `json:"id"`
	TaskID      string  `json:"taskId"`
	Hours       float64 `json:"hours"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Type        string  `json:"type,omitempty"`
}

// NewTicket holds the caller-supplied fields for ticket creation.
// ID and timestamps are assigned by the store.
type NewTicket struct {
	Title       string
	Description string
	Status      TicketStatus
	Priority    Priority
	Tags        []string
}

// NewTask holds the caller-supplied fields for task creation.
type NewTask struct {
	Title          string
	Description    string
	Status         TaskStatus
	TicketID       string
	EstimatedHours float64
	Tags           []string
}

// NewObservation holds the caller-supplied fields for observation creation.
type NewObservation struct {
	ParentID   string
	ParentKind ParentKind
	Content    string
}

// NewTimeEntry holds the caller-supplied fields for time entry creation.
type NewTimeEntry struct {
	TaskID      string
	Hours       float64
	Date        string
	Description string
	Type        string
}
