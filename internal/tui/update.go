package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/imkarma/tasktrack/internal/store"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ticketsRefreshedMsg:
		m.tickets = msg.tickets
		m.rebuildColumns()
		// Keep the detail panel in sync with the refreshed data.
		if m.currentView == viewDetail && m.selectedTicket != nil {
			for i := range m.tickets {
				if m.tickets[i].ID == m.selectedTicket.ID {
					m.selectedTicket = &m.tickets[i]
					break
				}
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case viewCreate:
		return m.handleCreateKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	return m.handleBoardKey(msg)
}

// --- Board keys ---

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "h", "left":
		m.cursorCol--
		m.clampCursor()
	case "l", "right":
		m.cursorCol++
		m.clampCursor()
	case "j", "down":
		m.cursorRow++
		m.clampCursor()
	case "k", "up":
		m.cursorRow--
		m.clampCursor()

	case "enter":
		if t := m.selectedFromBoard(); t != nil {
			m.selectedTicket = t
			m.currentView = viewDetail
		}

	case "c":
		m.currentView = viewCreate
		m.inputFocused = 0
		m.titleInput.SetValue("")
		m.descInput.SetValue("")
		m.createPriority = store.PriorityMedium
		m.titleInput.Focus()
		return m, textinput.Blink

	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.filterActive)
		m.filterInput.Focus()
		return m, textinput.Blink

	case "esc":
		if m.filterActive != "" {
			m.filterActive = ""
			m.rebuildColumns()
			m.statusMsg = "Filter cleared"
		}

	case "1", "2", "3", "4":
		if t := m.selectedFromBoard(); t != nil {
			status := columnStatuses[int(msg.String()[0]-'1')]
			if err := m.store.SetTicketStatus(t.ID, status); err != nil {
				m.statusMsg = "Status change failed: " + err.Error()
				return m, nil
			}
			m.statusMsg = "Ticket moved to " + string(status)
			return m, m.refreshTickets()
		}

	case "x":
		if t := m.selectedFromBoard(); t != nil {
			m.store.DeleteTicket(t.ID)
			m.statusMsg = "Deleted " + t.Title
			return m, m.refreshTickets()
		}

	case "r":
		return m, m.refreshTickets()
	}

	return m, nil
}

// --- Filter keys ---

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filterActive = m.filterInput.Value()
		m.filtering = false
		m.filterInput.Blur()
		m.rebuildColumns()
		return m, nil

	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil

	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// --- Detail keys ---

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.currentView = viewBoard
		m.selectedTicket = nil
		return m, nil

	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "1", "2", "3", "4":
		if m.selectedTicket != nil {
			status := columnStatuses[int(msg.String()[0]-'1')]
			if err := m.store.SetTicketStatus(m.selectedTicket.ID, status); err != nil {
				m.statusMsg = "Status change failed: " + err.Error()
				return m, nil
			}
			m.statusMsg = "Ticket moved to " + string(status)
			return m, m.refreshTickets()
		}
	}

	return m, nil
}

// --- Create keys ---

func (m Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.currentView = viewBoard
		m.titleInput.Blur()
		m.descInput.Blur()
		return m, nil

	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		if m.inputFocused == 0 {
			m.inputFocused = 1
			m.titleInput.Blur()
			m.descInput.Focus()
		} else {
			m.inputFocused = 0
			m.descInput.Blur()
			m.titleInput.Focus()
		}
		return m, textinput.Blink

	case "ctrl+p":
		m.createPriority = nextPriority(m.createPriority)
		return m, nil

	case "enter":
		title := m.titleInput.Value()
		if title == "" {
			m.statusMsg = "Title is required"
			return m, nil
		}
		_, err := m.store.CreateTicket(store.NewTicket{
			Title:       title,
			Description: m.descInput.Value(),
			Priority:    m.createPriority,
		})
		if err != nil {
			m.statusMsg = "Create failed: " + err.Error()
			return m, nil
		}
		m.statusMsg = "Created " + title
		m.currentView = viewBoard
		m.titleInput.Blur()
		m.descInput.Blur()
		return m, m.refreshTickets()
	}

	var cmd tea.Cmd
	if m.inputFocused == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}

func nextPriority(p store.Priority) store.Priority {
	switch p {
	case store.PriorityLow:
		return store.PriorityMedium
	case store.PriorityMedium:
		return store.PriorityHigh
	case store.PriorityHigh:
		return store.PriorityCritical
	default:
		return store.PriorityLow
	}
}
