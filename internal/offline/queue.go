// Package offline provides best-effort synchronization of locally
// recorded mutations against a remote backend. Mutations are captured
// as durable sync intents in a FIFO queue; the queue drains when
// connectivity is available, with bounded retry and dead-lettering.
// Local state is always authoritative: draining only reconciles the
// remote side and never touches the entity store.
package offline

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action tags for sync intents. Deletes are not replicated; the remote
// system only receives creates and updates.
const (
	ActionTicketCreate    = "ticket-create"
	ActionTicketUpdate    = "ticket-update"
	ActionTaskCreate      = "task-create"
	ActionTaskUpdate      = "task-update"
	ActionTimeEntryCreate = "time-entry-create"
	ActionTimeEntryUpdate = "time-entry-update"
)

// Storage keys for the queue and the last successful drain timestamp.
const (
	KeySyncQueue = "sync_queue"
	KeyLastSync  = "last_sync"
)

// Intent is one recorded mutation awaiting replication. The payload is
// a snapshot of the entity at enqueue time.
type Intent struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	Attempts   int             `json:"attempts"`
}

// DispatchFunc replays a single intent against the remote system. It
// is the pluggable collaborator boundary: no wire protocol is assumed
// here.
type DispatchFunc func(ctx context.Context, intent Intent) error

// Storage persists the queue between runs.
type Storage interface {
	Save(key string, v any) error
	Load(key string, dest any) (bool, error)
}

// Config holds tunables for the queue.
type Config struct {
	// MaxAttempts is how many drain cycles may fail before an intent is
	// dropped with an error logged.
	MaxAttempts int

	// RetryDelay is the fixed pause between dispatches within one drain.
	RetryDelay time.Duration

	// Online reports current connectivity. When it returns false,
	// Drain is a no-op. A nil Online means always online.
	Online func() bool

	// OnDrop, if set, observes intents removed after exhausting their
	// attempts. Dropped intents are otherwise only visible in the log.
	OnDrop func(Intent)

	// Clock overrides the time source. Used by tests.
	Clock func() time.Time

	// Logger for queue activity.
	Logger *log.Logger
}

// DefaultConfig returns the stock settings: three attempts, one second
// between dispatches.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		RetryDelay:  time.Second,
		Clock:       time.Now,
		Logger:      log.New(os.Stderr, "[sync] ", log.LstdFlags),
	}
}

// Queue is a durable, ordered queue of sync intents.
type Queue struct {
	storage  Storage
	dispatch DispatchFunc
	cfg      *Config

	mu       sync.Mutex
	items    []Intent
	lastSync time.Time
	draining bool
}

// NewQueue loads the persisted queue state and returns a ready queue.
// Absent or corrupt state initializes empty.
func NewQueue(st Storage, dispatch DispatchFunc, cfg *Config) *Queue {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}

	q := &Queue{storage: st, dispatch: dispatch, cfg: cfg}
	if _, err := st.Load(KeySyncQueue, &q.items); err != nil {
		cfg.Logger.Printf("load queue: %v (starting empty)", err)
	}
	if _, err := st.Load(KeyLastSync, &q.lastSync); err != nil {
		cfg.Logger.Printf("load last sync: %v", err)
	}
	return q
}

// Enqueue appends an intent for the given action and persists the
// queue immediately. Enqueueing is fire-and-forget: failures are
// logged, never surfaced to the mutation path.
func (q *Queue) Enqueue(action string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		q.cfg.Logger.Printf("marshal %s payload: %v (skipping intent)", action, err)
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, Intent{
		ID:         uuid.NewString(),
		Action:     action,
		Payload:    raw,
		EnqueuedAt: q.cfg.Clock(),
	})
	q.persistLocked()
}

// Drain processes the queue in FIFO order, one intent at a time.
// Successful intents are removed; failures increment the attempt
// counter and stay pending until they exhaust MaxAttempts, at which
// point they are dropped with an error logged. Drain is a no-op when
// offline or empty, and re-entrant calls while a drain is running
// return immediately. Cancelling ctx mid-drain leaves the remaining
// intents pending for a later drain.
func (q *Queue) Drain(ctx context.Context) {
	q.mu.Lock()
	if q.draining || len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	if q.cfg.Online != nil && !q.cfg.Online() {
		q.mu.Unlock()
		return
	}
	q.draining = true
	batch := append([]Intent(nil), q.items...)
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.draining = false
		q.mu.Unlock()
	}()

	for i, it := range batch {
		if ctx.Err() != nil {
			q.cfg.Logger.Print("drain cancelled, remaining intents stay pending")
			break
		}

		if err := q.dispatch(ctx, it); err != nil {
			q.cfg.Logger.Printf("dispatch %s %s: %v", it.Action, it.ID, err)
			q.recordFailure(it.ID)
		} else {
			q.remove(it.ID)
		}

		// Fixed inter-attempt delay, except after the last intent.
		if i < len(batch)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(q.cfg.RetryDelay):
			}
		}
	}

	q.mu.Lock()
	q.lastSync = q.cfg.Clock()
	q.persistLocked()
	if err := q.storage.Save(KeyLastSync, q.lastSync); err != nil {
		q.cfg.Logger.Printf("persist last sync: %v", err)
	}
	q.mu.Unlock()
}

// remove deletes an intent by id.
func (q *Queue) remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = removeIntent(q.items, id)
}

// recordFailure bumps the attempt counter and drops the intent once it
// reaches MaxAttempts.
func (q *Queue) recordFailure(id string) {
	q.mu.Lock()

	for i := range q.items {
		if q.items[i].ID != id {
			continue
		}
		q.items[i].Attempts++
		if q.items[i].Attempts < q.cfg.MaxAttempts {
			q.mu.Unlock()
			return
		}
		dropped := q.items[i]
		q.items = removeIntent(q.items, id)
		q.mu.Unlock()

		q.cfg.Logger.Printf("dropping intent %s %s after %d attempts", dropped.Action, dropped.ID, dropped.Attempts)
		if q.cfg.OnDrop != nil {
			q.cfg.OnDrop(dropped)
		}
		return
	}
	q.mu.Unlock()
}

func removeIntent(items []Intent, id string) []Intent {
	kept := items[:0:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return kept
}

func (q *Queue) persistLocked() {
	if err := q.storage.Save(KeySyncQueue, q.items); err != nil {
		q.cfg.Logger.Printf("persist queue: %v", err)
	}
}

// Len returns the number of pending intents.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a copy of the pending intents in FIFO order.
func (q *Queue) Items() []Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Intent(nil), q.items...)
}

// LastSync returns when the queue last finished a drain. The zero time
// means it never has.
func (q *Queue) LastSync() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastSync
}
