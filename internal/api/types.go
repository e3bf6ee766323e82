package api

// Language is one entry of the backend's supported-language list.
type Language struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// TranslationResult is the outcome of a successful translate call.
type TranslationResult struct {
	SourceText     string `json:"source_text"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

// TestResult is a manual test verdict submitted against a translation.
// Field names follow the backend's save contract.
type TestResult struct {
	Outcome        string `json:"outcome"`
	Accuracy       string `json:"accuracy"`
	Observation    string `json:"observation"`
	TestedBy       string `json:"testedBy"`
	SourceText     string `json:"sourceText"`
	TranslatedText string `json:"translatedText"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
	SessionID      string `json:"sessionId"`
	Timestamp      string `json:"timestamp"`
}

// TestResultRecord is a stored test result as returned by the list endpoint.
type TestResultRecord struct {
	ID              int64   `json:"id"`
	Outcome         string  `json:"outcome"`
	Accuracy        float64 `json:"accuracy"`
	Observation     string  `json:"observation"`
	TestedBy        string  `json:"tested_by"`
	TextToTranslate string  `json:"text_to_translate"`
	TranslatedText  string  `json:"translated_text"`
	SourceLanguage  string  `json:"source_language"`
	TargetLanguage  string  `json:"target_language"`
	SessionID       string  `json:"session_id"`
	CreatedAt       string  `json:"created_at"`
}

// Pagination describes the window returned by the list endpoint.
type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// ListOptions narrows a test-result listing. Zero values mean
// "let the server decide".
type ListOptions struct {
	Page    int
	PerPage int
	Outcome string
}

// UserInfo identifies the current tester, when the backend knows it.
type UserInfo struct {
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
}
