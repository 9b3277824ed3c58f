package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/imkarma/tasktrack/internal/store"
	"github.com/imkarma/tasktrack/internal/timeutil"
)

// --- Color palette ---
var (
	clrSubtle    = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#666666"}
	clrHighlight = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	clrGreen     = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	clrYellow    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	clrRed       = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	clrBlue      = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	clrMagenta   = lipgloss.AdaptiveColor{Light: "#9D174D", Dark: "#F472B6"}
	clrDim       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}
)

// --- Styles ---
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	dimStyle    = lipgloss.NewStyle().Foreground(clrDim)
	subtleStyle = lipgloss.NewStyle().Foreground(clrSubtle)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrSubtle).
			Padding(0, 1).
			Width(26)

	cardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(clrHighlight).
				Padding(0, 1).
				Width(26).
				Bold(true)

	columnHeaderStyle = lipgloss.NewStyle().Bold(true).Width(28).Align(lipgloss.Center)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrHighlight).
			Padding(1, 2).
			Width(60)

	statusStyle = lipgloss.NewStyle().Foreground(clrGreen).Bold(true)

	footerKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	footerDescStyle = lipgloss.NewStyle().Foreground(clrSubtle)
)

func ticketStatusStyle(s store.TicketStatus) lipgloss.Style {
	switch s {
	case store.TicketOpen:
		return lipgloss.NewStyle().Foreground(clrBlue)
	case store.TicketPending:
		return lipgloss.NewStyle().Foreground(clrYellow)
	case store.TicketResolved:
		return lipgloss.NewStyle().Foreground(clrMagenta)
	case store.TicketDone:
		return lipgloss.NewStyle().Foreground(clrGreen)
	}
	return lipgloss.NewStyle()
}

func priorityStyle(p store.Priority) lipgloss.Style {
	switch p {
	case store.PriorityCritical, store.PriorityHigh:
		return lipgloss.NewStyle().Foreground(clrRed)
	case store.PriorityMedium:
		return lipgloss.NewStyle().Foreground(clrYellow)
	}
	return dimStyle
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.currentView {
	case viewDetail:
		return m.viewDetail()
	case viewCreate:
		return m.viewCreate()
	}
	return m.viewBoard()
}

// --- Board view ---

func (m Model) viewBoard() string {
	var b strings.Builder

	header := titleStyle.Render("tasktrack board")
	header += dimStyle.Render(fmt.Sprintf(" — %d tickets", len(m.tickets)))
	if m.filterActive != "" {
		header += subtleStyle.Render(fmt.Sprintf("  filter: %q", m.filterActive))
	}
	b.WriteString(header + "\n\n")

	if m.filtering {
		b.WriteString("  " + m.filterInput.View() + "\n\n")
	}

	// Column headers.
	var headers []string
	for i, label := range columnLabels {
		h := fmt.Sprintf("%s (%d)", label, len(m.columns[i]))
		headers = append(headers, columnHeaderStyle.Foreground(columnColor(i)).Render(h))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...) + "\n")

	// Cards, column by column, joined horizontally.
	var rendered []string
	for i := range m.columns {
		var cards []string
		for j, t := range m.columns[i] {
			style := cardStyle
			if i == m.cursorCol && j == m.cursorRow {
				style = cardSelectedStyle
			}
			body := t.Title
			meta := priorityStyle(t.Priority).Render(string(t.Priority))
			if n := len(m.store.TasksForTicket(t.ID)); n > 0 {
				meta += dimStyle.Render(fmt.Sprintf("  %d tasks", n))
			}
			cards = append(cards, style.Render(body+"\n"+meta))
		}
		if len(cards) == 0 {
			cards = append(cards, dimStyle.Width(28).Align(lipgloss.Center).Render("·"))
		}
		rendered = append(rendered, lipgloss.JoinVertical(lipgloss.Left, cards...))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))

	b.WriteString("\n\n" + m.footer(
		"enter", "open",
		"c", "new",
		"1-4", "status",
		"/", "filter",
		"x", "delete",
		"q", "quit",
	))

	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render(m.statusMsg))
	}
	return b.String()
}

func columnColor(i int) lipgloss.AdaptiveColor {
	switch i {
	case colOpen:
		return clrBlue
	case colPending:
		return clrYellow
	case colResolved:
		return clrMagenta
	case colDone:
		return clrGreen
	}
	return clrSubtle
}

// --- Detail view ---

func (m Model) viewDetail() string {
	t := m.selectedTicket
	if t == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Title) + "\n\n")

	b.WriteString(subtleStyle.Render("status   ") + ticketStatusStyle(t.Status).Render(string(t.Status)) + "\n")
	b.WriteString(subtleStyle.Render("priority ") + priorityStyle(t.Priority).Render(string(t.Priority)) + "\n")
	if len(t.Tags) > 0 {
		b.WriteString(subtleStyle.Render("tags     ") + strings.Join(t.Tags, ", ") + "\n")
	}
	b.WriteString(subtleStyle.Render("logged   ") + timeutil.FormatDisplay(m.store.TotalHoursForTicket(t.ID)) + "\n")
	b.WriteString(subtleStyle.Render("updated  ") + t.UpdatedAt.Format("2006-01-02 15:04") + "\n")

	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}

	tasks := m.store.TasksForTicket(t.ID)
	if len(tasks) > 0 {
		b.WriteString("\n" + titleStyle.Render("Tasks") + "\n")
		for _, task := range tasks {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				ticketTaskBadge(task.Status),
				task.Title,
				dimStyle.Render(timeutil.FormatDisplay(m.store.TotalHoursForTask(task.ID)))))
		}
	}

	obs := m.store.ObservationsFor(store.ParentTicket, t.ID)
	if len(obs) > 0 {
		b.WriteString("\n" + titleStyle.Render("Observations") + "\n")
		for _, o := range obs {
			b.WriteString("  " + dimStyle.Render(o.CreatedAt.Format("2006-01-02")) + " " + o.Content + "\n")
		}
	}

	b.WriteString("\n" + m.footer("1-4", "status", "esc", "back"))
	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render(m.statusMsg))
	}
	return b.String()
}

func ticketTaskBadge(s store.TaskStatus) string {
	switch s {
	case store.TaskDone:
		return lipgloss.NewStyle().Foreground(clrGreen).Render("✓")
	case store.TaskInProgress:
		return lipgloss.NewStyle().Foreground(clrBlue).Render("▶")
	case store.TaskInReview:
		return lipgloss.NewStyle().Foreground(clrMagenta).Render("◉")
	}
	return dimStyle.Render("○")
}

// --- Create view ---

func (m Model) viewCreate() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New ticket") + "\n\n")
	b.WriteString(subtleStyle.Render("Title") + "\n" + m.titleInput.View() + "\n\n")
	b.WriteString(subtleStyle.Render("Description") + "\n" + m.descInput.View() + "\n\n")
	b.WriteString(subtleStyle.Render("Priority ") + priorityStyle(m.createPriority).Render(string(m.createPriority)) + "\n")

	b.WriteString("\n" + m.footer(
		"tab", "next field",
		"ctrl+p", "priority",
		"enter", "create",
		"esc", "cancel",
	))
	content := dialogStyle.Render(b.String())
	if m.statusMsg != "" {
		content += "\n" + statusStyle.Render(m.statusMsg)
	}
	return content
}

// footer renders alternating key/description hint pairs.
func (m Model) footer(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, footerKeyStyle.Render(pairs[i])+footerDescStyle.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, footerDescStyle.Render("  ·  "))
}
