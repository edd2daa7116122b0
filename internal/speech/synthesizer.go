package speech

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/readalong/internal/audio"
)

// TTSSynthesizer synthesizes utterances through an audio.Provider, one
// provider instance per requested language and rate, with results stored in
// the shared synthesis cache so repeated cues for the same word are free.
type TTSSynthesizer struct {
	mu        sync.Mutex
	base      *audio.Config
	cache     *audio.Cache
	providers map[providerKey]audio.Provider

	// NewProvider builds a provider from a per-utterance config; tests
	// inject a fake here
	NewProvider func(*audio.Config) (audio.Provider, error)
}

type providerKey struct {
	language string
	rate     float64
}

// NewTTSSynthesizer creates a synthesizer over the given provider config and
// cache. The config is cloned per language and rate; the cache may not be
// nil.
func NewTTSSynthesizer(base *audio.Config, cache *audio.Cache) *TTSSynthesizer {
	return &TTSSynthesizer{
		base:        base,
		cache:       cache,
		providers:   make(map[providerKey]audio.Provider),
		NewProvider: audio.NewProvider,
	}
}

// Synthesize produces (or finds cached) audio for the utterance and returns
// the file path.
func (t *TTSSynthesizer) Synthesize(ctx context.Context, text, language string, rate float64) (string, error) {
	if err := audio.ValidateText(text); err != nil {
		return "", err
	}
	if err := audio.ValidateRate(rate); err != nil {
		return "", err
	}

	key := t.cache.Key(text, t.base.OpenAIVoice+"/"+language, rate)
	if entry, ok := t.cache.Lookup(key); ok {
		return entry.File, nil
	}

	provider, err := t.providerFor(language, rate)
	if err != nil {
		return "", err
	}

	file := t.cache.FilePath(key, ".mp3")
	if err := provider.GenerateAudio(ctx, text, file); err != nil {
		return "", err
	}

	duration, err := audio.ProbeDuration(file)
	if err != nil {
		// the file is playable even if the probe failed; cache with a
		// zero duration rather than dropping the synthesis
		duration = 0
	}
	if err := t.cache.Store(key, file, duration); err != nil {
		return "", fmt.Errorf("failed to index synthesized audio: %w", err)
	}

	return file, nil
}

func (t *TTSSynthesizer) providerFor(language string, rate float64) (audio.Provider, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := providerKey{language, rate}
	if p, ok := t.providers[key]; ok {
		return p, nil
	}

	cfg := *t.base
	cfg.Language = language
	cfg.OpenAISpeed = rate
	p, err := t.NewProvider(&cfg)
	if err != nil {
		return nil, err
	}
	t.providers[key] = p
	return p, nil
}

// ExecPlayer plays synthesized files through the platform audio player
type ExecPlayer struct{}

// PlayFile implements Player
func (ExecPlayer) PlayFile(ctx context.Context, file string) error {
	return audio.PlayFile(ctx, file)
}
