package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"transcheck/internal/api"
	"transcheck/internal/session"
)

// Test-result view styles
var (
	trTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	trLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true).
			Width(14)

	trContextStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 2).
			MarginBottom(1)

	trNoContextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true).
				MarginBottom(1)

	outcomePillStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Padding(0, 2)

	outcomePillActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#1a1a2e")).
				Background(lipgloss.Color("#4ecdc4")).
				Padding(0, 2)

	outcomePillFocusStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Padding(0, 2)

	accuracyLockedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)
)

// saveDoneMsg carries the outcome of an async save request.
type saveDoneMsg struct {
	id  int64
	err error
}

type trFocus int

const (
	focusOutcome trFocus = iota
	focusAccuracy
	focusObservation
	focusTestedBy
)

// TestResultModel is the test-result sub-form: outcome, accuracy,
// observation and tester name, saved against the current translation.
type TestResultModel struct {
	client *api.Client
	sess   *session.Session

	outcomeIndex int // index into session.Outcomes; -1 means unset
	accuracy     textinput.Model
	observation  textarea.Model
	testedBy     textinput.Model
	accuracyRule session.AccuracyRule

	focus  trFocus
	saving bool
	spin   spinner.Model
	notice Notice

	defaultTester string

	width  int
	height int
}

// NewTestResultModel creates the test-result view.
func NewTestResultModel(client *api.Client, sess *session.Session) TestResultModel {
	acc := textinput.New()
	acc.Placeholder = "0-100"
	acc.CharLimit = 6
	acc.Width = 10

	obs := textarea.New()
	obs.Placeholder = "Observations (optional)..."
	obs.ShowLineNumbers = false
	obs.SetHeight(3)

	tester := textinput.New()
	tester.Placeholder = "Your name"
	tester.CharLimit = 100
	tester.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	return TestResultModel{
		client:       client,
		sess:         sess,
		outcomeIndex: -1,
		accuracy:     acc,
		observation:  obs,
		testedBy:     tester,
		accuracyRule: session.AccuracyFor(session.OutcomeUnset),
		spin:         sp,
	}
}

// SetSize updates the view dimensions.
func (m *TestResultModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.observation.SetWidth(maxInt(20, width-6))
}

// SetTester prefills the tested-by field when it is still empty.
func (m *TestResultModel) SetTester(name string) {
	if name == "" {
		return
	}
	m.defaultTester = name
	if m.testedBy.Value() == "" {
		m.testedBy.SetValue(name)
	}
}

// HasOverlay is here for symmetry with the other views; the save form
// has no confirmation overlays.
func (m *TestResultModel) HasOverlay() bool {
	return false
}

func (m *TestResultModel) selectedOutcome() session.Outcome {
	if m.outcomeIndex < 0 || m.outcomeIndex >= len(session.Outcomes) {
		return session.OutcomeUnset
	}
	return session.Outcomes[m.outcomeIndex]
}

// setOutcome applies the accuracy coupling synchronously on selection.
func (m *TestResultModel) setOutcome(index int) {
	m.outcomeIndex = index
	m.accuracyRule = session.AccuracyFor(m.selectedOutcome())
	m.accuracy.SetValue(m.accuracyRule.Value)
	if !m.accuracyRule.Enabled && m.focus == focusAccuracy {
		m.setFocus(focusObservation)
	}
}

func (m *TestResultModel) setFocus(f trFocus) tea.Cmd {
	m.focus = f
	m.accuracy.Blur()
	m.observation.Blur()
	m.testedBy.Blur()

	switch f {
	case focusAccuracy:
		return m.accuracy.Focus()
	case focusObservation:
		return m.observation.Focus()
	case focusTestedBy:
		return m.testedBy.Focus()
	}
	return nil
}

func (m *TestResultModel) nextFocus(delta int) tea.Cmd {
	order := []trFocus{focusOutcome, focusAccuracy, focusObservation, focusTestedBy}
	idx := int(m.focus)
	for i := 0; i < len(order); i++ {
		idx = (idx + delta + len(order)) % len(order)
		if order[idx] == focusAccuracy && !m.accuracyRule.Enabled {
			continue
		}
		return m.setFocus(order[idx])
	}
	return nil
}

// Update handles messages.
func (m TestResultModel) Update(msg tea.Msg) (TestResultModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return m.startSave()
		case "tab":
			return m, m.nextFocus(1)
		case "shift+tab":
			return m, m.nextFocus(-1)
		}

		if m.focus == focusOutcome {
			switch msg.String() {
			case "left", "h":
				if m.outcomeIndex > 0 {
					m.setOutcome(m.outcomeIndex - 1)
				} else if m.outcomeIndex < 0 {
					m.setOutcome(len(session.Outcomes) - 1)
				}
				return m, nil
			case "right", "l", " ":
				if m.outcomeIndex < len(session.Outcomes)-1 {
					m.setOutcome(m.outcomeIndex + 1)
				}
				return m, nil
			}
			return m, nil
		}

	case saveDoneMsg:
		m.saving = false
		if msg.err != nil {
			return m, m.notice.Show(NoticeError, saveErrorText(msg.err))
		}

		m.sess.MarkSaved()
		m.resetForm()
		return m, m.notice.Showf(NoticeSuccess, "Test result #%d saved. Open Results to review", msg.id)

	case noticeExpiredMsg:
		m.notice.Update(msg)
		return m, nil

	case spinner.TickMsg:
		if m.saving {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.saving {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusAccuracy:
		m.accuracy, cmd = m.accuracy.Update(msg)
	case focusObservation:
		m.observation, cmd = m.observation.Update(msg)
	case focusTestedBy:
		m.testedBy, cmd = m.testedBy.Update(msg)
	}
	return m, cmd
}

// startSave runs the ordered validation and submits on success. The
// first violation focuses its field and stops everything; nothing is
// sent.
func (m TestResultModel) startSave() (TestResultModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}

	form := session.SaveForm{
		Outcome:     m.selectedOutcome(),
		Accuracy:    m.accuracy.Value(),
		Observation: m.observation.Value(),
		TestedBy:    m.testedBy.Value(),
	}

	if verr := session.CheckSave(form, m.sess.Result()); verr != nil {
		var focusCmd tea.Cmd
		switch verr.Field {
		case session.FieldOutcome:
			focusCmd = m.setFocus(focusOutcome)
		case session.FieldTestedBy:
			focusCmd = m.setFocus(focusTestedBy)
		case session.FieldAccuracy:
			focusCmd = m.setFocus(focusAccuracy)
		}
		return m, tea.Batch(focusCmd, m.notice.Show(NoticeWarning, verr.Message))
	}

	payload := session.BuildTestResult(form, m.sess.Result())
	if err := session.ValidatePayload(payload); err != nil {
		return m, m.notice.Showf(NoticeWarning, "Invalid test result: %v", err)
	}

	m.saving = true
	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		id, err := client.SaveTestResult(context.Background(), payload)
		return saveDoneMsg{id: id, err: err}
	})
}

func (m *TestResultModel) resetForm() {
	m.outcomeIndex = -1
	m.accuracyRule = session.AccuracyFor(session.OutcomeUnset)
	m.accuracy.SetValue("")
	m.observation.Reset()
	m.testedBy.SetValue(m.defaultTester)
	m.setFocus(focusOutcome)
}

func saveErrorText(err error) string {
	if api.IsAPIError(err) {
		return err.Error()
	}
	if api.IsTimeout(err) {
		return "Saving timed out. Please try again."
	}
	return "Cannot reach the server. The test result was not saved."
}

// View renders the test-result view.
func (m TestResultModel) View() string {
	var b strings.Builder

	b.WriteString(trTitleStyle.Render("Record Test Result"))
	b.WriteString("\n")

	// Context: the translation being judged.
	if result := m.sess.Result(); result != nil && result.TranslatedText != "" {
		ctxWidth := maxInt(20, m.width-10)
		line := fmt.Sprintf("%s → %s",
			truncate(result.SourceText, ctxWidth/2),
			truncate(result.TranslatedText, ctxWidth/2))
		pair := fmt.Sprintf("%s → %s", result.SourceLanguage, result.TargetLanguage)
		b.WriteString(trContextStyle.Render(line + "\n" + HelpTextStyle.Render(pair)))
	} else {
		b.WriteString(trNoContextStyle.Render("No translation yet. Translate something first"))
	}
	b.WriteString("\n")

	// Outcome pills
	b.WriteString(trLabelStyle.Render("Outcome"))
	for i, o := range session.Outcomes {
		style := outcomePillStyle
		if i == m.outcomeIndex {
			style = outcomePillActiveStyle
		} else if m.focus == focusOutcome {
			style = outcomePillFocusStyle
		}
		b.WriteString(style.Render(string(o)))
	}
	b.WriteString("\n\n")

	// Accuracy, pinned to zero for Failure
	b.WriteString(trLabelStyle.Render("Accuracy %"))
	if m.accuracyRule.Enabled {
		b.WriteString(m.accuracy.View())
	} else {
		b.WriteString(accuracyLockedStyle.Render("0 (locked for Failure)"))
	}
	b.WriteString("\n\n")

	b.WriteString(trLabelStyle.Render("Observation"))
	b.WriteString("\n")
	b.WriteString(m.observation.View())
	b.WriteString("\n\n")

	b.WriteString(trLabelStyle.Render("Tested by"))
	b.WriteString(m.testedBy.View())
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(buttonBlockedStyle.Render(m.spin.View() + " Saving…"))
	} else {
		b.WriteString(buttonReadyStyle.Render("Save Test Result (ctrl+s)"))
	}
	b.WriteString("\n")

	if notice := m.notice.View(); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}

	b.WriteString(viewHelpStyle.Render("tab next field • ←/→ pick outcome • ctrl+s save"))

	return b.String()
}

// HelpTextStyle is shared by views that embed muted detail lines.
var HelpTextStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#666666"))
