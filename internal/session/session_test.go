package session

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcheck/internal/api"
)

func TestCheckTranslate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		lang      string
		wantField Field
	}{
		{"valid", "Hello", "fr", ""},
		{"empty text", "", "fr", FieldSourceText},
		{"whitespace text", "   \n\t", "fr", FieldSourceText},
		{"missing language", "Hello", "", FieldTargetLanguage},
		{"at the cap", strings.Repeat("a", MaxSourceLength), "fr", ""},
		{"over the cap", strings.Repeat("a", MaxSourceLength+1), "fr", FieldSourceText},
		{"multibyte runes counted as one", strings.Repeat("你", MaxSourceLength), "zh", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTranslate(tt.text, tt.lang)
			if tt.wantField == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantField, err.Field)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestAccuracyFor(t *testing.T) {
	failure := AccuracyFor(OutcomeFailure)
	assert.Equal(t, AccuracyRule{Enabled: false, Required: false, Value: "0"}, failure)

	for _, o := range []Outcome{OutcomeSuccess, OutcomePartial, OutcomeUnset} {
		rule := AccuracyFor(o)
		assert.Equal(t, AccuracyRule{Enabled: true, Required: true, Value: ""}, rule, "outcome %q", o)
	}
}

func translated() *api.TranslationResult {
	return &api.TranslationResult{
		SourceText:     "Hello",
		TranslatedText: "Bonjour",
		SourceLanguage: "en",
		TargetLanguage: "fr",
	}
}

func TestCheckSaveOrder(t *testing.T) {
	valid := SaveForm{Outcome: OutcomeSuccess, Accuracy: "95", TestedBy: "alice"}

	tests := []struct {
		name      string
		form      SaveForm
		result    *api.TranslationResult
		wantField Field
	}{
		{"valid", valid, translated(), ""},
		{"outcome unset first", SaveForm{}, nil, FieldOutcome},
		{"tester before translation", SaveForm{Outcome: OutcomeSuccess}, nil, FieldTestedBy},
		{"translation before accuracy", SaveForm{Outcome: OutcomeSuccess, TestedBy: "alice"}, nil, FieldTranslation},
		{"missing accuracy", SaveForm{Outcome: OutcomeSuccess, TestedBy: "alice"}, translated(), FieldAccuracy},
		{"non-numeric accuracy", SaveForm{Outcome: OutcomeSuccess, TestedBy: "alice", Accuracy: "high"}, translated(), FieldAccuracy},
		{"accuracy above range", SaveForm{Outcome: OutcomePartial, TestedBy: "alice", Accuracy: "101"}, translated(), FieldAccuracy},
		{"accuracy below range", SaveForm{Outcome: OutcomePartial, TestedBy: "alice", Accuracy: "-1"}, translated(), FieldAccuracy},
		{"failure needs no accuracy", SaveForm{Outcome: OutcomeFailure, TestedBy: "alice"}, translated(), ""},
		{"boundary 0", SaveForm{Outcome: OutcomeSuccess, TestedBy: "alice", Accuracy: "0"}, translated(), ""},
		{"boundary 100", SaveForm{Outcome: OutcomeSuccess, TestedBy: "alice", Accuracy: "100"}, translated(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSave(tt.form, tt.result)
			if tt.wantField == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantField, err.Field)
		})
	}
}

func TestBuildTestResult(t *testing.T) {
	form := SaveForm{
		Outcome:     OutcomeFailure,
		Accuracy:    "", // left empty; Failure pins it to zero
		Observation: "  garbled output  ",
		TestedBy:    " alice ",
	}

	tr := BuildTestResult(form, translated())

	assert.Equal(t, "Failure", tr.Outcome)
	assert.Equal(t, "0", tr.Accuracy)
	assert.Equal(t, "garbled output", tr.Observation)
	assert.Equal(t, "alice", tr.TestedBy)
	assert.Equal(t, "Hello", tr.SourceText)
	assert.Equal(t, "Bonjour", tr.TranslatedText)
	assert.Equal(t, "en", tr.SourceLanguage)
	assert.Equal(t, "fr", tr.TargetLanguage)

	_, err := uuid.Parse(tr.SessionID)
	assert.NoError(t, err, "session id must be a uuid")

	ts, err := time.Parse(time.RFC3339, tr.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestBuildTestResultKeepsAccuracy(t *testing.T) {
	form := SaveForm{Outcome: OutcomeSuccess, Accuracy: " 87.5 ", TestedBy: "alice"}
	tr := BuildTestResult(form, translated())
	assert.Equal(t, "87.5", tr.Accuracy)
}

func TestValidatePayload(t *testing.T) {
	good := BuildTestResult(SaveForm{Outcome: OutcomeSuccess, Accuracy: "90", TestedBy: "alice"}, translated())
	assert.NoError(t, ValidatePayload(good))

	bad := good
	bad.Outcome = "Maybe"
	assert.Error(t, ValidatePayload(bad))

	bad = good
	bad.Accuracy = "200"
	assert.Error(t, ValidatePayload(bad))

	bad = good
	bad.SessionID = "not-a-uuid"
	assert.Error(t, ValidatePayload(bad))
}

func TestSessionLifecycle(t *testing.T) {
	s := New()

	assert.False(t, s.HasTranslation())
	assert.False(t, s.Dirty(""))
	assert.True(t, s.Dirty("draft text"))

	s.SetResult(translated())
	assert.True(t, s.HasTranslation())
	assert.True(t, s.Dirty(""), "unsaved translation is dirty")

	s.MarkSaved()
	assert.False(t, s.Dirty(""))

	s.SetResult(translated())
	assert.True(t, s.Dirty(""), "a new translation resets the saved flag")

	s.Clear()
	assert.False(t, s.HasTranslation())
	assert.False(t, s.Dirty(""))
}

func TestSessionLanguages(t *testing.T) {
	s := New()

	assert.Equal(t, "French", s.LanguageName("fr"))
	assert.Equal(t, "French (fr)", s.LanguageLabel("fr"))
	assert.Equal(t, "xx", s.LanguageLabel("xx"), "unknown codes fall back to the code")

	s.SetLanguages(nil)
	assert.NotEmpty(t, s.Languages(), "empty fetch keeps the fallback table")

	s.SetLanguages([]api.Language{{Key: "eo", Text: "Esperanto"}})
	assert.Equal(t, "Esperanto", s.LanguageName("eo"))
	assert.Equal(t, "fr", s.LanguageName("fr"), "backend list replaces the table wholesale")
}
