package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/translate", r.URL.Path)

		var body struct {
			Text           string `json:"text"`
			TargetLanguage string `json:"target_language"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hello", body.Text)
		assert.Equal(t, "fr", body.TargetLanguage)

		json.NewEncoder(w).Encode(map[string]any{
			"success":         true,
			"translated_text": "Bonjour",
			"source_language": "en",
			"target_language": "fr",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.Translate(context.Background(), "Hello", "fr")
	require.NoError(t, err)

	assert.Equal(t, "Hello", result.SourceText)
	assert.Equal(t, "Bonjour", result.TranslatedText)
	assert.Equal(t, "en", result.SourceLanguage)
	assert.Equal(t, "fr", result.TargetLanguage)
}

func TestTranslateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Translation service error: upstream unavailable",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Translate(context.Background(), "Hello", "fr")
	require.Error(t, err)

	assert.True(t, IsAPIError(err))
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestTranslateConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL)
	_, err := c.Translate(context.Background(), "Hello", "fr")
	require.Error(t, err)

	assert.False(t, IsAPIError(err), "connection failure is not an application error")
	assert.False(t, IsTimeout(err))
}

func TestLanguages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/languages", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"languages": []map[string]string{
				{"key": "fr", "text": "French"},
				{"key": "de", "text": "German"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	langs, err := c.Languages(context.Background())
	require.NoError(t, err)
	require.Len(t, langs, 2)
	assert.Equal(t, Language{Key: "fr", Text: "French"}, langs[0])
}

func TestSaveTestResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/save-test-results", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Failure", body["outcome"])
		assert.Equal(t, "0", body["accuracy"])
		assert.Equal(t, "alice", body["testedBy"])

		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"message":   "Test results saved successfully to database",
			"result_id": 42,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	id, err := c.SaveTestResult(context.Background(), TestResult{
		Outcome:  "Failure",
		Accuracy: "0",
		TestedBy: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestSaveTestResultServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Accuracy must be between 0 and 100",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.SaveTestResult(context.Background(), TestResult{Outcome: "Success", Accuracy: "200"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 100")
}

func TestListTestResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/test-results", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("_t"), "listing must carry a cache buster")
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Failure", r.URL.Query().Get("outcome"))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{
					"id":                7,
					"outcome":           "Failure",
					"accuracy":          0,
					"tested_by":         "alice",
					"text_to_translate": "Hello",
					"translated_text":   "Bonjour",
					"source_language":   "en",
					"target_language":   "fr",
					"created_at":        "2025-06-01T10:00:00",
				},
			},
			"pagination": map[string]any{"page": 2, "per_page": 10, "total": 11, "pages": 2, "has_prev": true},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	records, page, err := c.ListTestResults(context.Background(), ListOptions{Page: 2, Outcome: "Failure"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].ID)
	assert.Equal(t, "alice", records[0].TestedBy)
	require.NotNil(t, page)
	assert.Equal(t, 11, page.Total)
	assert.True(t, page.HasPrev)
}

func TestListTestResultsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithListTimeout(50*time.Millisecond))
	_, _, err := c.ListTestResults(context.Background(), ListOptions{})
	require.Error(t, err)

	assert.True(t, IsTimeout(err), "slow listing must classify as timeout, got: %v", err)
	assert.False(t, IsAPIError(err))
}

func TestDeleteTestResultNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/test-results/7", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": "Test result not found"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.DeleteTestResult(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteTestResultOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"message": "Test result deleted successfully"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.DeleteTestResult(context.Background(), 3))
}

func TestExportTestResults(t *testing.T) {
	payload := []byte{0x50, 0x4b, 0x03, 0x04} // zip magic, as xlsx starts with
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/export-test-results", r.URL.Path)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	data, err := c.ExportTestResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestExportTestResultsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": "No test results to export"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ExportTestResults(context.Background())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "No test results")
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "test_results_2025-06-01.xlsx", ExportFilename(ts))
}

func TestWhoAmI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/azure-user", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "user": "alice@example.com"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	info, err := c.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", info.User)
}
