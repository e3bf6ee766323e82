package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticeSupersededTimerIgnored(t *testing.T) {
	var n Notice

	n.Show(NoticeInfo, "first")
	staleSeq := n.seq
	n.Show(NoticeError, "second")

	n.Update(noticeExpiredMsg{seq: staleSeq})
	assert.Equal(t, "second", n.message, "an older notice's timer must not clear the current one")

	n.Update(noticeExpiredMsg{seq: n.seq})
	assert.Empty(t, n.message)
}

func TestNoticeSeqUniqueAcrossInstances(t *testing.T) {
	var a, b Notice

	a.Show(NoticeInfo, "from a")
	b.Show(NoticeInfo, "from b")

	// Expiry messages are broadcast to every view; a's timer firing must
	// leave b untouched.
	b.Update(noticeExpiredMsg{seq: a.seq})
	assert.Equal(t, "from b", b.message)
}

func TestNoticeViewLevels(t *testing.T) {
	var n Notice
	assert.Empty(t, n.View())

	n.Show(NoticeSuccess, "saved")
	assert.Contains(t, n.View(), "✓")

	n.Show(NoticeWarning, "careful")
	assert.Contains(t, n.View(), "⚠")

	n.Show(NoticeError, "broken")
	assert.Contains(t, n.View(), "✗")

	n.Dismiss()
	assert.Empty(t, n.View())
}
