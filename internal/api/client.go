// Package api is the HTTP client for the PLM Translator backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultListTimeout    = 10 * time.Second
)

// Client talks to a PLM Translator backend.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	listTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRequestTimeout sets the overall timeout for single requests.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithListTimeout sets the deadline applied to test-result listings.
func WithListTimeout(d time.Duration) Option {
	return func(c *Client) { c.listTimeout = d }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		listTimeout: defaultListTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody covers both error shapes the backend uses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

// Translate translates text into the target language.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (*TranslationResult, error) {
	payload := struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"target_language"`
	}{Text: text, TargetLanguage: targetLanguage}

	var resp struct {
		Success        bool   `json:"success"`
		TranslatedText string `json:"translated_text"`
		SourceLanguage string `json:"source_language"`
		TargetLanguage string `json:"target_language"`
		Error          string `json:"error"`
	}

	status, err := c.doJSON(ctx, http.MethodPost, "/api/translate", nil, payload, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success || status >= 300 {
		return nil, &APIError{StatusCode: status, Message: resp.Error}
	}

	return &TranslationResult{
		SourceText:     text,
		TranslatedText: resp.TranslatedText,
		SourceLanguage: resp.SourceLanguage,
		TargetLanguage: targetLanguage,
	}, nil
}

// Languages fetches the supported-language list.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var resp struct {
		Success   bool       `json:"success"`
		Languages []Language `json:"languages"`
		Error     string     `json:"error"`
	}

	status, err := c.doJSON(ctx, http.MethodGet, "/api/languages", nil, nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success || status >= 300 {
		return nil, &APIError{StatusCode: status, Message: resp.Error}
	}

	return resp.Languages, nil
}

// SaveTestResult submits a manual test verdict and returns the stored id.
func (c *Client) SaveTestResult(ctx context.Context, result TestResult) (int64, error) {
	var resp struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		ResultID int64  `json:"result_id"`
		Error    string `json:"error"`
	}

	status, err := c.doJSON(ctx, http.MethodPost, "/api/save-test-results", nil, result, &resp)
	if err != nil {
		return 0, err
	}
	if !resp.Success || status >= 300 {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		return 0, &APIError{StatusCode: status, Message: msg}
	}

	return resp.ResultID, nil
}

// ListTestResults fetches stored test results, newest first. The request
// carries a cache-busting query parameter and is bounded by the client's
// list timeout; past the deadline the call fails with ErrTimeout.
func (c *Client) ListTestResults(ctx context.Context, opts ListOptions) ([]TestResultRecord, *Pagination, error) {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("_t", strconv.FormatInt(time.Now().UnixNano(), 10))
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Outcome != "" {
		query.Set("outcome", opts.Outcome)
	}

	var resp struct {
		Success    bool               `json:"success"`
		Data       []TestResultRecord `json:"data"`
		Pagination *Pagination        `json:"pagination"`
		Error      string             `json:"error"`
	}

	status, err := c.doJSON(ctx, http.MethodGet, "/api/test-results", query, nil, &resp)
	if err != nil {
		return nil, nil, err
	}
	if !resp.Success || status >= 300 {
		return nil, nil, &APIError{StatusCode: status, Message: resp.Error}
	}

	return resp.Data, resp.Pagination, nil
}

// DeleteTestResult removes a stored test result by id.
func (c *Client) DeleteTestResult(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/test-results/%d", id)

	var resp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	status, err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, &resp)
	if err != nil {
		return err
	}
	if status >= 300 {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		return &APIError{StatusCode: status, Message: msg}
	}

	return nil
}

// ExportTestResults downloads the backend's spreadsheet export.
func (c *Client) ExportTestResults(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/export-test-results", nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: eb.text()}
	}

	return body, nil
}

// WhoAmI asks the backend for the current tester's identity. Backends
// without user tracking answer with a generic user; callers should treat
// failure as non-fatal.
func (c *Client) WhoAmI(ctx context.Context) (*UserInfo, error) {
	var resp struct {
		Success   bool   `json:"success"`
		User      string `json:"user"`
		Timestamp string `json:"timestamp"`
		Error     string `json:"error"`
	}

	status, err := c.doJSON(ctx, http.MethodGet, "/api/azure-user", nil, nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success || status >= 300 {
		return nil, &APIError{StatusCode: status, Message: resp.Error}
	}

	return &UserInfo{User: resp.User, Timestamp: resp.Timestamp}, nil
}

// ExportFilename returns the download name for an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("test_results_%s.xlsx", t.Format("2006-01-02"))
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// doJSON issues a request and decodes the JSON response into out. It
// returns the HTTP status so callers can combine it with application-level
// success flags. Transport failures come back classified; response bodies
// are decoded even on error statuses because the backend reports failures
// in the body.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			if resp.StatusCode >= 300 {
				return resp.StatusCode, &APIError{StatusCode: resp.StatusCode}
			}
			return resp.StatusCode, fmt.Errorf("unmarshaling response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// classify maps transport errors to the client's error taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("contacting server: %w", err)
}
