package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"transcheck/internal/api"
	"transcheck/internal/session"
)

func TestStartTranslateGatesLocally(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	sess := session.New()
	m := NewTranslateModel(api.NewClient(server.URL), sess, nil)

	// Empty text: warning, no request.
	m, cmd := m.startTranslate()
	assert.False(t, m.loading)
	drainCmd(t, cmd)
	assert.Equal(t, int64(0), hits.Load())

	// Oversized text: warning, no request.
	m.source.SetValue(strings.Repeat("a", session.MaxSourceLength+1))
	m.langIndex = 0
	m, cmd = m.startTranslate()
	assert.False(t, m.loading)
	drainCmd(t, cmd)
	assert.Equal(t, int64(0), hits.Load())
	assert.NotEmpty(t, m.notice.message)
}

func TestTranslateDoneUpdatesSession(t *testing.T) {
	sess := session.New()
	m := NewTranslateModel(api.NewClient("http://127.0.0.1:0"), sess, nil)
	m.loading = true

	m, _ = m.Update(translateDoneMsg{result: &api.TranslationResult{
		SourceText:     "Hello",
		TranslatedText: "Bonjour",
		SourceLanguage: "en",
		TargetLanguage: "fr",
	}})

	assert.False(t, m.loading)
	assert.Equal(t, "Bonjour", m.output)
	assert.True(t, sess.HasTranslation())
}

func TestTranslateErrorClearsOutput(t *testing.T) {
	sess := session.New()
	m := NewTranslateModel(api.NewClient("http://127.0.0.1:0"), sess, nil)
	m.loading = true
	m.output = "stale"
	m.copyEnabled = true

	m, _ = m.Update(translateDoneMsg{err: assert.AnError})

	assert.False(t, m.loading)
	assert.Empty(t, m.output)
	assert.False(t, m.copyEnabled)
	assert.NotEmpty(t, m.notice.message)
}

func TestOutcomeSelectionCouplesAccuracy(t *testing.T) {
	sess := session.New()
	m := NewTestResultModel(api.NewClient("http://127.0.0.1:0"), sess)

	// Failure pins accuracy to zero and disables the field.
	failureIdx := -1
	for i, o := range session.Outcomes {
		if o == session.OutcomeFailure {
			failureIdx = i
		}
	}
	m.setOutcome(failureIdx)
	assert.False(t, m.accuracyRule.Enabled)
	assert.Equal(t, "0", m.accuracy.Value())

	// Switching away re-enables it, empty.
	m.setOutcome(0)
	assert.True(t, m.accuracyRule.Enabled)
	assert.Empty(t, m.accuracy.Value())
}

func TestTabSkipsDisabledAccuracy(t *testing.T) {
	sess := session.New()
	m := NewTestResultModel(api.NewClient("http://127.0.0.1:0"), sess)

	failureIdx := len(session.Outcomes) - 1
	assert.Equal(t, session.OutcomeFailure, session.Outcomes[failureIdx])
	m.setOutcome(failureIdx)

	m.focus = focusOutcome
	m.nextFocus(1)
	assert.Equal(t, focusObservation, m.focus, "tab from outcome must skip the disabled accuracy field")
}
