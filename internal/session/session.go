// Package session holds the client-side state of a translation test
// session: the last translation, the language lookup table, and the
// validation rules that gate requests to the backend.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"transcheck/internal/api"
)

// MaxSourceLength is the source-text cap enforced before any request.
const MaxSourceLength = 5000

// Outcome is the tester's verdict on a translation.
type Outcome string

const (
	OutcomeUnset   Outcome = ""
	OutcomeSuccess Outcome = "Success"
	OutcomePartial Outcome = "Partial"
	OutcomeFailure Outcome = "Failure"
)

// Outcomes lists the selectable verdicts in display order.
var Outcomes = []Outcome{OutcomeSuccess, OutcomePartial, OutcomeFailure}

// Field identifies a form field so the UI can focus the one that
// failed validation.
type Field string

const (
	FieldSourceText     Field = "source_text"
	FieldTargetLanguage Field = "target_language"
	FieldOutcome        Field = "outcome"
	FieldTestedBy       Field = "tested_by"
	FieldTranslation    Field = "translation"
	FieldAccuracy       Field = "accuracy"
)

// ValidationError is a precondition failure tied to a form field.
// No request is made when one is returned.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AccuracyRule describes how the accuracy field behaves for an outcome.
type AccuracyRule struct {
	Enabled  bool
	Required bool
	Value    string
}

// AccuracyFor returns the accuracy field state for the given outcome.
// A Failure verdict pins accuracy to zero and disables the field; every
// other selection re-enables it, empty and required.
func AccuracyFor(o Outcome) AccuracyRule {
	if o == OutcomeFailure {
		return AccuracyRule{Enabled: false, Required: false, Value: "0"}
	}
	return AccuracyRule{Enabled: true, Required: true, Value: ""}
}

// CheckTranslate validates a translate request locally. It returns nil
// when the request may be sent.
func CheckTranslate(text, targetLanguage string) *ValidationError {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{FieldSourceText, "Please enter text to translate"}
	}
	if targetLanguage == "" {
		return &ValidationError{FieldTargetLanguage, "Please select a target language"}
	}
	if utf8.RuneCountInString(text) > MaxSourceLength {
		return &ValidationError{FieldSourceText,
			fmt.Sprintf("Text is too long. Maximum %d characters allowed.", MaxSourceLength)}
	}
	return nil
}

// SaveForm carries the test-result sub-form's raw field values.
type SaveForm struct {
	Outcome     Outcome
	Accuracy    string
	Observation string
	TestedBy    string
}

// CheckSave validates the save form against the current translation,
// stopping at the first violation. The checks run in a fixed order:
// outcome, tester name, translation present, accuracy.
func CheckSave(form SaveForm, result *api.TranslationResult) *ValidationError {
	if form.Outcome == OutcomeUnset {
		return &ValidationError{FieldOutcome, "Please select a test outcome"}
	}
	if strings.TrimSpace(form.TestedBy) == "" {
		return &ValidationError{FieldTestedBy, "Please enter the tester name"}
	}
	if result == nil || result.TranslatedText == "" {
		return &ValidationError{FieldTranslation, "Translate some text before saving a test result"}
	}
	if form.Outcome != OutcomeFailure {
		acc := strings.TrimSpace(form.Accuracy)
		if acc == "" {
			return &ValidationError{FieldAccuracy, "Accuracy is required"}
		}
		n, err := strconv.ParseFloat(acc, 64)
		if err != nil {
			return &ValidationError{FieldAccuracy, "Accuracy must be a valid number"}
		}
		if n < 0 || n > 100 {
			return &ValidationError{FieldAccuracy, "Accuracy must be between 0 and 100"}
		}
	}
	return nil
}

// BuildTestResult assembles the save payload from the form and the
// current translation. Call CheckSave first; BuildTestResult applies the
// Failure rule but performs no other validation. Each payload gets a
// fresh session id and a UTC timestamp.
func BuildTestResult(form SaveForm, result *api.TranslationResult) api.TestResult {
	accuracy := strings.TrimSpace(form.Accuracy)
	if form.Outcome == OutcomeFailure {
		accuracy = "0"
	}

	return api.TestResult{
		Outcome:        string(form.Outcome),
		Accuracy:       accuracy,
		Observation:    strings.TrimSpace(form.Observation),
		TestedBy:       strings.TrimSpace(form.TestedBy),
		SourceText:     result.SourceText,
		TranslatedText: result.TranslatedText,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
		SessionID:      uuid.NewString(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}

// Session is the state shared across views: the last translation, its
// saved flag, and the language table. All access happens on the UI's
// sequential event path.
type Session struct {
	result    *api.TranslationResult
	saved     bool
	languages []api.Language
}

// New creates a session seeded with the built-in language list.
func New() *Session {
	return &Session{languages: DefaultLanguages()}
}

// SetResult records a fresh translation and marks it unsaved.
func (s *Session) SetResult(r *api.TranslationResult) {
	s.result = r
	s.saved = false
}

// Result returns the current translation, or nil.
func (s *Session) Result() *api.TranslationResult {
	return s.result
}

// HasTranslation reports whether a translation exists to save against.
func (s *Session) HasTranslation() bool {
	return s.result != nil && s.result.TranslatedText != ""
}

// MarkSaved flags the current translation as recorded.
func (s *Session) MarkSaved() {
	s.saved = true
}

// Clear drops the current translation.
func (s *Session) Clear() {
	s.result = nil
	s.saved = false
}

// Dirty reports whether quitting now would lose work: source text in the
// editor, or a translation no test result was saved for.
func (s *Session) Dirty(draft string) bool {
	if strings.TrimSpace(draft) != "" {
		return true
	}
	return s.result != nil && !s.saved
}

// SetLanguages replaces the language table wholesale. Empty lists are
// ignored so a failed backend fetch keeps the fallback.
func (s *Session) SetLanguages(langs []api.Language) {
	if len(langs) == 0 {
		return
	}
	s.languages = langs
}

// Languages returns the current language table.
func (s *Session) Languages() []api.Language {
	return s.languages
}

// LanguageName resolves a language code to its display name, falling
// back to the code itself.
func (s *Session) LanguageName(key string) string {
	for _, l := range s.languages {
		if l.Key == key {
			return l.Text
		}
	}
	return key
}

// LanguageLabel builds the "Name (code)" label shown in notices.
func (s *Session) LanguageLabel(key string) string {
	name := s.LanguageName(key)
	if name == key {
		return key
	}
	return fmt.Sprintf("%s (%s)", name, key)
}
