package views

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"transcheck/internal/api"
	"transcheck/internal/clipboard"
	"transcheck/internal/history"
	"transcheck/internal/session"
)

// Translate view styles
var (
	translateTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B")).
				MarginBottom(1)

	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	counterOverStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ff6b6b")).
				Bold(true)

	langLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true)

	langValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true)

	langFocusedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 1)

	buttonReadyStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#1a1a2e")).
				Background(lipgloss.Color("#4ecdc4")).
				Padding(0, 2)

	buttonBlockedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 2)

	outputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffe66d")).
			Padding(0, 2).
			Margin(1, 0)

	outputEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff6b6b")).
			Padding(0, 2).
			Margin(1, 0)

	viewHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

// translateDoneMsg carries the outcome of an async translate request.
type translateDoneMsg struct {
	result *api.TranslationResult
	err    error
}

// historyWrittenMsg reports the local history insert.
type historyWrittenMsg struct {
	err error
}

type translateFocus int

const (
	focusSource translateFocus = iota
	focusLanguage
)

// TranslateModel is the translate form: source text, target language,
// the translate action, and the output area.
type TranslateModel struct {
	client *api.Client
	sess   *session.Session
	store  *history.Store // nil when history is unavailable

	source textarea.Model
	spin   spinner.Model

	focus     translateFocus
	langIndex int // index into sess.Languages(); -1 means unselected

	loading      bool
	output       string
	copyEnabled  bool
	confirmClear bool
	notice       Notice

	width  int
	height int
}

// NewTranslateModel creates the translate view.
func NewTranslateModel(client *api.Client, sess *session.Session, store *history.Store) TranslateModel {
	ta := textarea.New()
	ta.Placeholder = "Enter text to translate..."
	ta.ShowLineNumbers = false
	// No CharLimit: the cap is enforced by validation so oversized
	// pastes are rejected with a message instead of silently truncated.
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	return TranslateModel{
		client:    client,
		sess:      sess,
		store:     store,
		source:    ta,
		spin:      sp,
		langIndex: -1,
	}
}

// SetSize updates the view dimensions.
func (m *TranslateModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.source.SetWidth(maxInt(20, width-6))
}

// Draft returns the current source text, for the unsaved-work guard.
func (m *TranslateModel) Draft() string {
	return m.source.Value()
}

// SetDraft loads text and a target language into the form, used when
// reusing a history entry.
func (m *TranslateModel) SetDraft(text, targetLanguage string) {
	m.source.SetValue(text)
	m.langIndex = -1
	for i, l := range m.sess.Languages() {
		if l.Key == targetLanguage {
			m.langIndex = i
			break
		}
	}
}

// ClampLanguage re-checks the selection after the language table was
// replaced wholesale.
func (m *TranslateModel) ClampLanguage() {
	if m.langIndex >= len(m.sess.Languages()) {
		m.langIndex = -1
	}
}

// HasOverlay reports whether the clear-all confirmation is open.
func (m *TranslateModel) HasOverlay() bool {
	return m.confirmClear
}

func (m *TranslateModel) selectedKey() string {
	langs := m.sess.Languages()
	if m.langIndex < 0 || m.langIndex >= len(langs) {
		return ""
	}
	return langs[m.langIndex].Key
}

// Update handles messages.
func (m TranslateModel) Update(msg tea.Msg) (TranslateModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmClear {
			if msg.String() == "y" {
				m.clearAll()
				return m, m.notice.Show(NoticeInfo, "Cleared")
			}
			m.confirmClear = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+t":
			return m.startTranslate()
		case "ctrl+y":
			return m.copyOutput()
		case "ctrl+x":
			if m.sess.Dirty(m.source.Value()) || m.output != "" {
				m.confirmClear = true
				return m, nil
			}
			return m, nil
		case "ctrl+l", "tab", "shift+tab":
			if m.focus == focusSource {
				m.focus = focusLanguage
				m.source.Blur()
			} else {
				m.focus = focusSource
				return m, m.source.Focus()
			}
			return m, nil
		}

		if m.focus == focusLanguage {
			switch msg.String() {
			case "left", "h":
				m.cycleLanguage(-1)
				return m, nil
			case "right", "l":
				m.cycleLanguage(1)
				return m, nil
			case "enter":
				return m.startTranslate()
			}
			return m, nil
		}

	case translateDoneMsg:
		// Loading always ends here, success or failure.
		m.loading = false
		if msg.err != nil {
			m.output = ""
			m.copyEnabled = false
			return m, m.notice.Show(NoticeError, translateErrorText(msg.err))
		}

		m.sess.SetResult(msg.result)
		m.output = msg.result.TranslatedText
		m.copyEnabled = clipboard.Available()

		cmds := []tea.Cmd{
			m.notice.Showf(NoticeSuccess, "Translated to %s", m.sess.LanguageLabel(msg.result.TargetLanguage)),
		}
		if m.store != nil {
			cmds = append(cmds, m.recordHistory(*msg.result))
		}
		return m, tea.Batch(cmds...)

	case historyWrittenMsg:
		// History is best-effort; a failed insert never disturbs the form.
		return m, nil

	case noticeExpiredMsg:
		m.notice.Update(msg)
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.focus == focusSource && !m.loading {
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		return m, cmd
	}

	return m, nil
}

// startTranslate validates locally and fires the request. On a
// precondition failure the offending field is focused and a warning
// shown; no request goes out.
func (m TranslateModel) startTranslate() (TranslateModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	text := m.source.Value()
	target := m.selectedKey()

	if verr := session.CheckTranslate(text, target); verr != nil {
		switch verr.Field {
		case session.FieldSourceText:
			m.focus = focusSource
			cmd := m.source.Focus()
			return m, tea.Batch(cmd, m.notice.Show(NoticeWarning, verr.Message))
		case session.FieldTargetLanguage:
			m.focus = focusLanguage
			m.source.Blur()
		}
		return m, m.notice.Show(NoticeWarning, verr.Message)
	}

	m.loading = true
	client := m.client
	trimmed := strings.TrimSpace(text)
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		result, err := client.Translate(context.Background(), trimmed, target)
		return translateDoneMsg{result: result, err: err}
	})
}

// recordHistory writes the translation to the local store off the UI loop.
func (m TranslateModel) recordHistory(r api.TranslationResult) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		_, err := store.Add(context.Background(), r)
		return historyWrittenMsg{err: err}
	}
}

func (m TranslateModel) copyOutput() (TranslateModel, tea.Cmd) {
	if !m.copyEnabled || m.output == "" {
		return m, nil
	}
	if err := clipboard.Write(m.output); err != nil {
		return m, m.notice.Show(NoticeError, "Could not copy to clipboard")
	}
	return m, m.notice.Show(NoticeSuccess, "Copied translation to clipboard")
}

func (m *TranslateModel) cycleLanguage(delta int) {
	langs := m.sess.Languages()
	if len(langs) == 0 {
		return
	}
	m.langIndex += delta
	if m.langIndex < 0 {
		m.langIndex = len(langs) - 1
	}
	if m.langIndex >= len(langs) {
		m.langIndex = 0
	}
}

func (m *TranslateModel) clearAll() {
	m.confirmClear = false
	m.source.Reset()
	m.output = ""
	m.copyEnabled = false
	m.sess.Clear()
}

// translateErrorText distinguishes connectivity failures from
// application-reported errors.
func translateErrorText(err error) string {
	switch {
	case api.IsTimeout(err):
		return "Translation request timed out. Please try again."
	case api.IsAPIError(err):
		return err.Error()
	default:
		return "Cannot reach the translation server. Check your connection and try again."
	}
}

// View renders the translate view.
func (m TranslateModel) View() string {
	var b strings.Builder

	b.WriteString(translateTitleStyle.Render("Translate"))
	b.WriteString("\n")

	b.WriteString(m.source.View())
	b.WriteString("\n")

	// Character counter
	count := utf8.RuneCountInString(m.source.Value())
	counter := fmt.Sprintf("%d/%d", count, session.MaxSourceLength)
	if count > session.MaxSourceLength {
		b.WriteString(counterOverStyle.Render(counter + " - too long"))
	} else {
		b.WriteString(counterStyle.Render(counter))
	}
	b.WriteString("\n\n")

	// Target language selector
	b.WriteString(langLabelStyle.Render("Target: "))
	label := "‹ select a language ›"
	if key := m.selectedKey(); key != "" {
		label = m.sess.LanguageLabel(key)
	}
	if m.focus == focusLanguage {
		b.WriteString(langFocusedStyle.Render("◂ " + label + " ▸"))
	} else {
		b.WriteString(langValueStyle.Render(label))
	}
	b.WriteString("\n\n")

	// Translate action; the label names the unmet precondition.
	b.WriteString(m.renderButton())
	b.WriteString("\n")

	// Output area
	if m.output != "" {
		b.WriteString(outputBoxStyle.Width(maxInt(20, m.width-6)).Render(m.output))
	} else {
		b.WriteString(outputBoxStyle.Width(maxInt(20, m.width-6)).Render(
			outputEmptyStyle.Render("Translation appears here")))
	}
	b.WriteString("\n")

	if m.confirmClear {
		b.WriteString(confirmStyle.Render("Clear the text and the current translation? (y/n)"))
		b.WriteString("\n")
	}

	if notice := m.notice.View(); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}

	help := "ctrl+t translate • ctrl+l target language • ctrl+x clear all"
	if m.copyEnabled {
		help = "ctrl+t translate • ctrl+y copy • ctrl+l target language • ctrl+x clear all"
	}
	b.WriteString(viewHelpStyle.Render(help))

	return b.String()
}

func (m TranslateModel) renderButton() string {
	if m.loading {
		return buttonBlockedStyle.Render(m.spin.View() + " Translating…")
	}
	if strings.TrimSpace(m.source.Value()) == "" {
		return buttonBlockedStyle.Render("Enter text to translate")
	}
	if m.selectedKey() == "" {
		return buttonBlockedStyle.Render("Select a target language")
	}
	return buttonReadyStyle.Render("Translate (ctrl+t)")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// truncate shortens s to fit width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
