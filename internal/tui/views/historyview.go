package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"transcheck/internal/history"
)

var (
	historyTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B")).
				MarginBottom(1)

	historyRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee")).
			Padding(0, 1)

	historyRowSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 1)

	historyMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 1)
)

// historyLoadedMsg carries a finished local-history read.
type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

// ReuseTranslationMsg asks the app to load a past translation back into
// the translate form.
type ReuseTranslationMsg struct {
	Entry history.Entry
}

// HistoryModel shows the local translation history.
type HistoryModel struct {
	store *history.Store // nil when history is unavailable

	entries  []history.Entry
	selected int
	limit    int
	loaded   bool
	notice   Notice

	width  int
	height int
}

// NewHistoryModel creates the history view.
func NewHistoryModel(store *history.Store, limit int) HistoryModel {
	return HistoryModel{store: store, limit: limit}
}

// SetSize updates the view dimensions.
func (m *HistoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// HasOverlay is here for symmetry; history has no overlays.
func (m *HistoryModel) HasOverlay() bool {
	return false
}

// Activate reloads the history; the app calls it on entry.
func (m *HistoryModel) Activate() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	limit := m.limit
	return func() tea.Msg {
		entries, err := store.Recent(context.Background(), limit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// Update handles messages.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.entries)-1 {
				m.selected++
			}
			return m, nil
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "enter":
			if m.selected < len(m.entries) {
				entry := m.entries[m.selected]
				return m, func() tea.Msg { return ReuseTranslationMsg{Entry: entry} }
			}
			return m, nil
		case "r":
			return m, m.Activate()
		}

	case historyLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			return m, m.notice.Show(NoticeError, "Could not read the local history")
		}
		m.entries = msg.entries
		if m.selected >= len(m.entries) {
			m.selected = maxInt(0, len(m.entries)-1)
		}
		return m, nil

	case noticeExpiredMsg:
		m.notice.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the history view.
func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(historyTitleStyle.Render("Translation History"))
	b.WriteString("\n")

	switch {
	case m.store == nil:
		b.WriteString(emptyStateStyle.Render("Local history is unavailable"))
		b.WriteString("\n")
	case len(m.entries) == 0 && m.loaded:
		b.WriteString(emptyStateStyle.Render("No translations recorded yet"))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderEntries())
	}

	if notice := m.notice.View(); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}

	b.WriteString(viewHelpStyle.Render("j/k select • enter reuse in Translate • r reload"))

	return b.String()
}

func (m HistoryModel) renderEntries() string {
	var b strings.Builder

	visible := maxInt(1, (m.height-8)/2)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := minInt(len(m.entries), start+visible)

	lineWidth := maxInt(20, m.width-8)

	for i := start; i < end; i++ {
		e := m.entries[i]
		row := fmt.Sprintf("%s → %s",
			truncate(e.SourceText, lineWidth/2),
			truncate(e.TranslatedText, lineWidth/2))
		meta := fmt.Sprintf("%s → %s  %s",
			e.SourceLanguage, e.TargetLanguage, e.CreatedAt.Format("2006-01-02 15:04"))

		if i == m.selected {
			b.WriteString(historyRowSelectedStyle.Render(row))
		} else {
			b.WriteString(historyRowStyle.Render(row))
		}
		b.WriteString("\n")
		b.WriteString(historyMetaStyle.Render(meta))
		b.WriteString("\n")
	}

	if len(m.entries) > end-start {
		b.WriteString(historyMetaStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(m.entries))))
		b.WriteString("\n")
	}

	return b.String()
}
