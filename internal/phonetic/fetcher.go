package phonetic

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Fetcher fetches IPA transcriptions for vocabulary words. Results are cached
// in memory so the learning cycle only pays for each word once.
type Fetcher struct {
	apiKey   string
	client   *openai.Client
	language string

	mu    sync.Mutex
	cache map[string]string
}

// NewFetcher creates a new phonetic transcription fetcher for words in the
// given language.
func NewFetcher(apiKey, language string) *Fetcher {
	return &Fetcher{
		apiKey:   apiKey,
		client:   openai.NewClient(apiKey),
		language: language,
		cache:    make(map[string]string),
	}
}

// Fetch returns the IPA transcription for a word, e.g. "[ˈhʊnt]"
func (f *Fetcher) Fetch(ctx context.Context, word string) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}
	if strings.TrimSpace(word) == "" {
		return "", fmt.Errorf("word is empty")
	}

	f.mu.Lock()
	if hint, ok := f.cache[word]; ok {
		f.mu.Unlock()
		return hint, nil
	}
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("You are a %s pronunciation expert. Answer with the IPA transcription of the given word in square brackets, including the stress mark, and nothing else.", f.language),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: word,
			},
		},
		Temperature: 0.0,
		MaxTokens:   50,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}

	hint := strings.TrimSpace(resp.Choices[0].Message.Content)

	f.mu.Lock()
	f.cache[word] = hint
	f.mu.Unlock()

	return hint, nil
}
