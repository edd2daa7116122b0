package language

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"codeberg.org/snonux/readalong/internal/segment"
)

// GeminiProvider implements Provider using the Gemini API
type GeminiProvider struct {
	cfg *Config
}

// NewGeminiProvider creates a new Gemini language provider. The client is
// created per call since genai.NewClient requires a context.
func NewGeminiProvider(cfg *Config) *GeminiProvider {
	return &GeminiProvider{cfg: cfg}
}

// Vocabulary extracts vocabulary pairs from the text
func (p *GeminiProvider) Vocabulary(ctx context.Context, text string) ([]VocabularyItem, error) {
	prompt := fmt.Sprintf(`From the following %s text, pick the vocabulary a learner should study, in order of appearance. Respond with ONLY a JSON array of objects with keys "word" (the %s word as it appears) and "translation" (its %s translation). No other output.

Text:
%s`, p.cfg.SourceLanguage, p.cfg.SourceLanguage, p.cfg.TargetLanguage, text)

	raw, err := p.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseVocabulary(raw), nil
}

// Segments splits the text into ordered word/punctuation segments
func (p *GeminiProvider) Segments(ctx context.Context, text string) ([]segment.Segment, error) {
	prompt := fmt.Sprintf(`Split the following %s text into tokens in their exact original order. One token per word and one per punctuation mark; skip whitespace. Respond with ONLY a JSON array of objects with keys "text" (the token), "isWord" (true for words, false for punctuation) and "translation" (the %s translation for words, empty for punctuation). No other output.

Text:
%s`, p.cfg.SourceLanguage, p.cfg.TargetLanguage, text)

	raw, err := p.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSegments(raw), nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) complete(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.cfg.GeminiModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	out := resp.Text()
	if out == "" {
		return "", fmt.Errorf("no response from Gemini")
	}
	return out, nil
}
