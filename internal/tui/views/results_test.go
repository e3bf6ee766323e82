package views

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcheck/internal/api"
)

// drainCmd executes a command tree and collects the messages it
// produces, unwrapping tea.Batch along the way. Commands that block on
// wall-clock timers (notice auto-dismiss) are abandoned after a short
// grace period rather than waited out.
func drainCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		done := make(chan tea.Msg, 1)
		go func(c tea.Cmd) { done <- c() }(next)

		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(500 * time.Millisecond):
			continue
		}

		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func newListServer(t *testing.T, listCalls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/test-results" {
			listCalls.Add(1)
			fmt.Fprint(w, `{"success":true,"data":[],"pagination":null}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func TestDeleteFailureStillReloads(t *testing.T) {
	var listCalls atomic.Int64
	server := newListServer(t, &listCalls)
	defer server.Close()

	m := NewResultsModel(api.NewClient(server.URL), t.TempDir())

	m, cmd := m.Update(deleteDoneMsg{id: 7, err: errors.New("boom")})
	require.NotNil(t, cmd)
	assert.True(t, m.afterDelete)

	msgs := drainCmd(t, cmd)

	var loaded bool
	for _, msg := range msgs {
		if _, ok := msg.(resultsLoadedMsg); ok {
			loaded = true
		}
	}
	assert.True(t, loaded, "a failed delete must still trigger a reload")
	assert.Equal(t, int64(1), listCalls.Load())
}

func TestDeleteSuccessReloads(t *testing.T) {
	var listCalls atomic.Int64
	server := newListServer(t, &listCalls)
	defer server.Close()

	m := NewResultsModel(api.NewClient(server.URL), t.TempDir())

	m, cmd := m.Update(deleteDoneMsg{id: 3})
	require.NotNil(t, cmd)

	drainCmd(t, cmd)
	assert.Equal(t, int64(1), listCalls.Load())
	assert.False(t, m.deleting)
}

func TestRefreshFailureAfterDeleteUsesFallbackMessage(t *testing.T) {
	m := NewResultsModel(api.NewClient("http://127.0.0.1:0"), t.TempDir())
	m.afterDelete = true

	m, _ = m.Update(resultsLoadedMsg{err: errors.New("connection refused")})

	assert.False(t, m.afterDelete)
	assert.Contains(t, m.notice.message, "Could not refresh the list after deleting")
}

func TestListErrorTextDistinguishesTimeout(t *testing.T) {
	timeoutMsg := listErrorText(fmt.Errorf("%w: deadline", api.ErrTimeout))
	networkMsg := listErrorText(errors.New("connection refused"))
	apiMsg := listErrorText(&api.APIError{StatusCode: 500, Message: "database locked"})

	assert.Contains(t, timeoutMsg, "timed out")
	assert.NotEqual(t, timeoutMsg, networkMsg)
	assert.Equal(t, "database locked", apiMsg)
}

func TestLoadedResultsClampSelection(t *testing.T) {
	m := NewResultsModel(api.NewClient("http://127.0.0.1:0"), t.TempDir())
	m.selected = 5

	m, _ = m.Update(resultsLoadedMsg{records: []api.TestResultRecord{
		{ID: 1, Outcome: "Success"},
		{ID: 2, Outcome: "Failure"},
	}})

	assert.Equal(t, 1, m.selected)
	assert.Len(t, m.records, 2)
}
