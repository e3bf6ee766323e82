package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"transcheck/internal/api"
)

// Results view styles
var (
	resultsTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B")).
				MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 2).
			MarginBottom(1)

	cardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#ffe66d")).
				Padding(0, 2).
				MarginBottom(1)

	cardHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f1faee"))

	outcomeSuccessStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8e6cf"))

	outcomePartialStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d"))

	outcomeFailureStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ff6b6b"))

	cardMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true).
			Padding(1, 0)
)

// resultsLoadedMsg carries a finished list fetch.
type resultsLoadedMsg struct {
	records []api.TestResultRecord
	page    *api.Pagination
	err     error
}

// deleteDoneMsg carries a finished delete request.
type deleteDoneMsg struct {
	id  int64
	err error
}

// exportDoneMsg carries a finished export download.
type exportDoneMsg struct {
	path string
	err  error
}

// ResultsModel lists stored test results and offers delete and export.
type ResultsModel struct {
	client    *api.Client
	exportDir string

	records []api.TestResultRecord
	page    *api.Pagination
	curPage int

	selected      int
	loading       bool
	deleting      bool
	exporting     bool
	confirmDelete bool
	afterDelete   bool // the in-flight fetch is the post-delete refresh
	loaded        bool

	spin   spinner.Model
	notice Notice

	width  int
	height int
}

// NewResultsModel creates the results view.
func NewResultsModel(client *api.Client, exportDir string) ResultsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	return ResultsModel{
		client:    client,
		exportDir: exportDir,
		curPage:   1,
		spin:      sp,
	}
}

// SetSize updates the view dimensions.
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// HasOverlay reports whether the delete confirmation is open.
func (m *ResultsModel) HasOverlay() bool {
	return m.confirmDelete
}

// Activate refreshes the listing; the app calls it on every entry into
// the view so the list is never stale.
func (m *ResultsModel) Activate() tea.Cmd {
	return m.startFetch()
}

func (m *ResultsModel) startFetch() tea.Cmd {
	m.loading = true
	client := m.client
	page := m.curPage
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		records, pagination, err := client.ListTestResults(context.Background(), api.ListOptions{Page: page})
		return resultsLoadedMsg{records: records, page: pagination, err: err}
	})
}

// Update handles messages.
func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDelete {
			if msg.String() == "y" {
				m.confirmDelete = false
				return m.startDelete()
			}
			m.confirmDelete = false
			return m, nil
		}

		if m.loading || m.deleting {
			return m, nil
		}

		switch msg.String() {
		case "r":
			return m, m.startFetch()
		case "j", "down":
			if m.selected < len(m.records)-1 {
				m.selected++
			}
			return m, nil
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "n":
			if m.page != nil && m.page.HasNext {
				m.curPage++
				return m, m.startFetch()
			}
			return m, nil
		case "p":
			if m.page != nil && m.page.HasPrev {
				m.curPage--
				return m, m.startFetch()
			}
			return m, nil
		case "d":
			if len(m.records) > 0 {
				m.confirmDelete = true
			}
			return m, nil
		case "e":
			return m.startExport()
		}

	case resultsLoadedMsg:
		m.loading = false
		m.loaded = true
		wasRefresh := m.afterDelete
		m.afterDelete = false

		if msg.err != nil {
			if wasRefresh {
				// The delete may have gone through; say so instead of
				// leaving a silently stale list.
				return m, m.notice.Show(NoticeError,
					"Could not refresh the list after deleting. Press r to retry.")
			}
			return m, m.notice.Show(NoticeError, listErrorText(msg.err))
		}

		m.records = msg.records
		m.page = msg.page
		if m.selected >= len(m.records) {
			m.selected = maxInt(0, len(m.records)-1)
		}
		return m, nil

	case deleteDoneMsg:
		m.deleting = false
		// The reload runs regardless of how the delete went.
		m.afterDelete = true
		if msg.err != nil {
			return m, tea.Batch(
				m.notice.Show(NoticeError, deleteErrorText(msg.err)),
				m.startFetch(),
			)
		}
		return m, tea.Batch(
			m.notice.Showf(NoticeSuccess, "Deleted test result #%d", msg.id),
			m.startFetch(),
		)

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			return m, m.notice.Show(NoticeError, exportErrorText(msg.err))
		}
		return m, m.notice.Showf(NoticeSuccess, "Exported to %s", msg.path)

	case noticeExpiredMsg:
		m.notice.Update(msg)
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.deleting || m.exporting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m ResultsModel) startDelete() (ResultsModel, tea.Cmd) {
	if m.selected >= len(m.records) {
		return m, nil
	}
	id := m.records[m.selected].ID
	m.deleting = true
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		err := client.DeleteTestResult(context.Background(), id)
		return deleteDoneMsg{id: id, err: err}
	})
}

func (m ResultsModel) startExport() (ResultsModel, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	m.exporting = true
	client := m.client
	dir := m.exportDir
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		data, err := client.ExportTestResults(context.Background())
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, api.ExportFilename(time.Now()))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return exportDoneMsg{err: fmt.Errorf("writing export file: %w", err)}
		}
		return exportDoneMsg{path: path}
	})
}

// listErrorText keeps the timeout message distinct from a generic
// network failure.
func listErrorText(err error) string {
	switch {
	case api.IsTimeout(err):
		return "Loading test results timed out. Press r to try again."
	case api.IsAPIError(err):
		return err.Error()
	default:
		return "Cannot reach the server. Press r to try again."
	}
}

func deleteErrorText(err error) string {
	if api.IsNotFound(err) {
		return "That test result no longer exists on the server."
	}
	if api.IsAPIError(err) {
		return err.Error()
	}
	return "Delete failed: cannot reach the server."
}

func exportErrorText(err error) string {
	if api.IsNotFound(err) {
		return "Nothing to export yet."
	}
	if api.IsAPIError(err) {
		return err.Error()
	}
	return "Export failed: cannot reach the server."
}

// View renders the results view.
func (m ResultsModel) View() string {
	var b strings.Builder

	b.WriteString(resultsTitleStyle.Render("Test Results"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(LoadingLineStyle.Render(m.spin.View() + " Loading test results…"))
		b.WriteString("\n")
	case m.deleting:
		b.WriteString(LoadingLineStyle.Render(m.spin.View() + " Deleting…"))
		b.WriteString("\n")
	case len(m.records) == 0 && m.loaded:
		b.WriteString(emptyStateStyle.Render("No test results yet. Save one from the Record view."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderCards())
	}

	if m.exporting {
		b.WriteString(LoadingLineStyle.Render(m.spin.View() + " Exporting…"))
		b.WriteString("\n")
	}

	if m.confirmDelete && m.selected < len(m.records) {
		b.WriteString(confirmStyle.Render(
			fmt.Sprintf("Delete test result #%d? (y/n)", m.records[m.selected].ID)))
		b.WriteString("\n")
	}

	if m.page != nil && m.page.Pages > 1 {
		b.WriteString(cardMutedStyle.Render(
			fmt.Sprintf("Page %d of %d (%d total)", m.page.Page, m.page.Pages, m.page.Total)))
		b.WriteString("\n")
	}

	if notice := m.notice.View(); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}

	b.WriteString(viewHelpStyle.Render("r reload • j/k select • d delete • e export • n/p page"))

	return b.String()
}

func (m ResultsModel) renderCards() string {
	var b strings.Builder

	// Keep the selection visible within the card budget.
	maxCards := maxInt(1, (m.height-10)/4)
	start := 0
	if m.selected >= maxCards {
		start = m.selected - maxCards + 1
	}
	end := minInt(len(m.records), start+maxCards)

	lineWidth := maxInt(20, m.width-12)

	for i := start; i < end; i++ {
		r := m.records[i]

		header := fmt.Sprintf("#%d  %s  %.0f%%  by %s",
			r.ID, renderOutcome(r.Outcome), r.Accuracy, r.TestedBy)
		body := fmt.Sprintf("%s → %s",
			truncate(r.TextToTranslate, lineWidth/2),
			truncate(r.TranslatedText, lineWidth/2))
		meta := fmt.Sprintf("%s → %s  %s", r.SourceLanguage, r.TargetLanguage, r.CreatedAt)
		if r.Observation != "" {
			meta += "\n" + truncate(r.Observation, lineWidth)
		}

		card := cardHeaderStyle.Render(header) + "\n" + body + "\n" + cardMutedStyle.Render(meta)
		if i == m.selected {
			b.WriteString(cardSelectedStyle.Width(lineWidth + 6).Render(card))
		} else {
			b.WriteString(cardStyle.Width(lineWidth + 6).Render(card))
		}
		b.WriteString("\n")
	}

	if len(m.records) > end-start {
		b.WriteString(cardMutedStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d on this page", start+1, end, len(m.records))))
		b.WriteString("\n")
	}

	return b.String()
}

func renderOutcome(outcome string) string {
	switch outcome {
	case "Success":
		return outcomeSuccessStyle.Render(outcome)
	case "Failure":
		return outcomeFailureStyle.Render(outcome)
	default:
		return outcomePartialStyle.Render(outcome)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// LoadingLineStyle marks in-flight operations.
var LoadingLineStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#ffe66d")).
	Bold(true).
	Italic(true)
