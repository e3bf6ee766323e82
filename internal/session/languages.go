package session

import "transcheck/internal/api"

// DefaultLanguages is the built-in language table used until the backend
// list loads. It mirrors the backend's own fallback set.
func DefaultLanguages() []api.Language {
	return []api.Language{
		{Key: "ar", Text: "Arabic"},
		{Key: "zh", Text: "Chinese (Simplified)"},
		{Key: "da", Text: "Danish"},
		{Key: "nl", Text: "Dutch"},
		{Key: "fi", Text: "Finnish"},
		{Key: "fr", Text: "French"},
		{Key: "de", Text: "German"},
		{Key: "hi", Text: "Hindi"},
		{Key: "it", Text: "Italian"},
		{Key: "ja", Text: "Japanese"},
		{Key: "ko", Text: "Korean"},
		{Key: "no", Text: "Norwegian"},
		{Key: "pl", Text: "Polish"},
		{Key: "pt", Text: "Portuguese"},
		{Key: "ru", Text: "Russian"},
		{Key: "es", Text: "Spanish"},
		{Key: "sv", Text: "Swedish"},
		{Key: "th", Text: "Thai"},
		{Key: "tr", Text: "Turkish"},
	}
}
