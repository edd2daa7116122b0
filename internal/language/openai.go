package language

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/readalong/internal/segment"
)

// OpenAIProvider implements Provider using OpenAI chat completions
type OpenAIProvider struct {
	client *openai.Client
	cfg    *Config
}

// NewOpenAIProvider creates a new OpenAI language provider
func NewOpenAIProvider(cfg *Config) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(cfg.OpenAIKey),
		cfg:    cfg,
	}
}

// Vocabulary extracts vocabulary pairs from the text
func (p *OpenAIProvider) Vocabulary(ctx context.Context, text string) ([]VocabularyItem, error) {
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
func (p *OpenAIProvider) Segments(ctx context.Context, text string) ([]segment.Segment, error) {
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
func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.cfg.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.2,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
