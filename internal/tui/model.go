package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/imkarma/tasktrack/internal/store"
)

// view represents which screen/mode the TUI is in.
type view int

const (
	viewBoard  view = iota // Ticket board (main)
	viewDetail             // Ticket detail panel
	viewCreate             // Create new ticket
)

// column indices for navigation
const (
	colOpen     = 0
	colPending  = 1
	colResolved = 2
	colDone     = 3
	numColumns  = 4
)

var columnStatuses = [numColumns]store.TicketStatus{
	store.TicketOpen,
	store.TicketPending,
	store.TicketResolved,
	store.TicketDone,
}

var columnLabels = [numColumns]string{
	"OPEN",
	"PENDING",
	"RESOLVED",
	"DONE",
}

// Model is the top-level bubbletea model.
type Model struct {
	store  *store.Store
	width  int
	height int

	// Current view.
	currentView view

	// Board state.
	columns   [numColumns][]store.Ticket
	cursorCol int
	cursorRow int

	// All tickets cache.
	tickets []store.Ticket

	// Filter applied to the board (matches title and tags).
	filterInput  textinput.Model
	filtering    bool
	filterActive string

	// Text inputs for the create dialog.
	titleInput     textinput.Model
	descInput      textinput.Model
	inputFocused   int // which input is focused in create mode (0=title, 1=desc)
	createPriority store.Priority

	// Selected ticket for detail view.
	selectedTicket *store.Ticket

	// Status message at the bottom.
	statusMsg string

	// Quitting flag.
	quitting bool
}

// New creates a new TUI model.
func New(s *store.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "Ticket title..."
	ti.CharLimit = 120
	ti.Width = 50

	di := textinput.New()
	di.Placeholder = "Description (optional)..."
	di.CharLimit = 500
	di.Width = 50

	fi := textinput.New()
	fi.Placeholder = "Filter by title or tag..."
	fi.CharLimit = 60
	fi.Width = 30

	return Model{
		store:          s,
		currentView:    viewBoard,
		titleInput:     ti,
		descInput:      di,
		filterInput:    fi,
		createPriority: store.PriorityMedium,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.refreshTickets()
}

type ticketsRefreshedMsg struct {
	tickets []store.Ticket
}

func (m Model) refreshTickets() tea.Cmd {
	return func() tea.Msg {
		return ticketsRefreshedMsg{tickets: m.store.Tickets()}
	}
}

func (m *Model) rebuildColumns() {
	for i := range m.columns {
		m.columns[i] = nil
	}
	for _, t := range m.tickets {
		if !m.matchesFilter(t) {
			continue
		}
		for i, status := range columnStatuses {
			if t.Status == status {
				m.columns[i] = append(m.columns[i], t)
				break
			}
		}
	}
	m.clampCursor()
}

func (m *Model) matchesFilter(t store.Ticket) bool {
	if m.filterActive == "" {
		return true
	}
	needle := strings.ToLower(m.filterActive)
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (m *Model) clampCursor() {
	if m.cursorCol < 0 {
		m.cursorCol = 0
	}
	if m.cursorCol >= numColumns {
		m.cursorCol = numColumns - 1
	}
	col := m.columns[m.cursorCol]
	if m.cursorRow >= len(col) {
		m.cursorRow = len(col) - 1
	}
	if m.cursorRow < 0 {
		m.cursorRow = 0
	}
}

func (m *Model) selectedFromBoard() *store.Ticket {
	col := m.columns[m.cursorCol]
	if m.cursorRow < len(col) {
		t := col[m.cursorRow]
		return &t
	}
	return nil
}
