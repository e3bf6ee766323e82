// Package views provides the individual views for the transcheck TUI.
package views

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NoticeLevel selects the rendering and dismiss policy of a notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

var (
	noticeInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc"))

	noticeSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true)

	noticeWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffe66d")).
				Bold(true)

	noticeErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ff6b6b")).
				Bold(true)
)

type noticeExpiredMsg struct {
	seq int
}

// noticeSeq is global: expiry messages are broadcast to every view, so
// sequence numbers must never collide across notices. Only touched on
// the UI's sequential event path.
var noticeSeq int

// Notice is the status-area notification shared by every view: one
// configuration surface for level, message and auto-dismiss. It renders
// inline below the form rather than as an overlay.
type Notice struct {
	level   NoticeLevel
	message string
	seq     int
}

// Show replaces the current notice and schedules its dismissal.
func (n *Notice) Show(level NoticeLevel, message string) tea.Cmd {
	n.level = level
	n.message = message
	noticeSeq++
	n.seq = noticeSeq

	seq := n.seq
	return tea.Tick(noticeTTL(level), func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// Showf is Show with a format string.
func (n *Notice) Showf(level NoticeLevel, format string, args ...any) tea.Cmd {
	return n.Show(level, fmt.Sprintf(format, args...))
}

// Dismiss clears the notice immediately.
func (n *Notice) Dismiss() {
	n.message = ""
}

// Update expires the notice when its own timer fires. Timers from
// superseded notices are ignored.
func (n *Notice) Update(msg tea.Msg) {
	if expired, ok := msg.(noticeExpiredMsg); ok && expired.seq == n.seq {
		n.message = ""
	}
}

// View renders the notice, or nothing when idle.
func (n *Notice) View() string {
	if n.message == "" {
		return ""
	}
	switch n.level {
	case NoticeSuccess:
		return noticeSuccessStyle.Render("✓ " + n.message)
	case NoticeWarning:
		return noticeWarningStyle.Render("⚠ " + n.message)
	case NoticeError:
		return noticeErrorStyle.Render("✗ " + n.message)
	default:
		return noticeInfoStyle.Render(n.message)
	}
}

// noticeTTL gives errors and warnings longer on screen than routine
// notices.
func noticeTTL(level NoticeLevel) time.Duration {
	switch level {
	case NoticeWarning:
		return 6 * time.Second
	case NoticeError:
		return 8 * time.Second
	default:
		return 4 * time.Second
	}
}
