package audio

import (
	"context"
	"fmt"
)

// Generator turns a full reading text into playable audio with a
// millisecond-accurate duration. Results are cached, so each distinct text is
// synthesized and probed at most once.
type Generator struct {
	provider Provider
	cache    *Cache
	voice    string
	speed    float64

	// Probe measures the duration of a generated file; swapped in tests
	Probe func(file string) (float64, error)
}

// NewGenerator creates a generator over the given provider and cache
func NewGenerator(provider Provider, cache *Cache, voice string, speed float64) *Generator {
	return &Generator{
		provider: provider,
		cache:    cache,
		voice:    voice,
		speed:    speed,
		Probe:    ProbeDuration,
	}
}

// Generate synthesizes audio for the text and returns the file path and
// duration in seconds.
func (g *Generator) Generate(ctx context.Context, text string) (string, float64, error) {
	if err := ValidateText(text); err != nil {
		return "", 0, err
	}

	key := g.cache.Key(text, g.voice, g.speed)
	if entry, ok := g.cache.Lookup(key); ok && entry.Duration > 0 {
		return entry.File, entry.Duration, nil
	}

	file := g.cache.FilePath(key, ".mp3")
	if err := g.provider.GenerateAudio(ctx, text, file); err != nil {
		return "", 0, fmt.Errorf("audio generation failed: %w", err)
	}

	duration, err := g.Probe(file)
	if err != nil {
		return "", 0, fmt.Errorf("duration probe failed: %w", err)
	}

	if err := g.cache.Store(key, file, duration); err != nil {
		return "", 0, fmt.Errorf("failed to index generated audio: %w", err)
	}

	return file, duration, nil
}
