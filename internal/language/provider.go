package language

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/readalong/internal/segment"
)

// ErrServiceUnavailable is returned when the language service cannot be
// reached, including when the circuit breaker is open.
var ErrServiceUnavailable = errors.New("language service unavailable")

// VocabularyItem is one (source word, translation) pair. List order is the
// presentation order for the learning cycle and is fixed for the session.
type VocabularyItem struct {
	SourceWord  string `json:"word"`
	Translation string `json:"translation"`
}

// Provider defines the interface to the external language service
type Provider interface {
	// Vocabulary extracts learning-worthy vocabulary pairs from the text
	Vocabulary(ctx context.Context, text string) ([]VocabularyItem, error)

	// Segments splits the text into ordered word/punctuation segments with
	// per-word translations, whitespace excluded
	Segments(ctx context.Context, text string) ([]segment.Segment, error)

	// Name returns the provider name
	Name() string
}

// Config holds common configuration for language providers
type Config struct {
	Provider string // "openai" or "gemini"

	SourceLanguage string // language of the reading text, e.g. "German"
	TargetLanguage string // language translations are given in, e.g. "English"

	OpenAIKey   string
	OpenAIModel string

	GeminiKey   string
	GeminiModel string
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:       "openai",
		SourceLanguage: "German",
		TargetLanguage: "English",
		OpenAIModel:    "gpt-4o-mini",
		GeminiModel:    "gemini-2.0-flash",
	}
}

// NewProvider creates the appropriate language provider based on
// configuration, wrapped in a circuit breaker.
func NewProvider(cfg *Config) (Provider, error) {
	if cfg == nil {
		cfg = DefaultProviderConfig()
	}

	var p Provider
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		p = NewOpenAIProvider(cfg)
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		p = NewGeminiProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown language provider: %s", cfg.Provider)
	}

	return WithBreaker(p), nil
}

// stripCodeFence removes a surrounding markdown code fence that chat models
// like to wrap JSON payloads in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
