package speech

import (
	"context"
	"os"
	"sync"
	"testing"

	"codeberg.org/snonux/readalong/internal/audio"
	"codeberg.org/snonux/readalong/internal/testutil"
)

// configProvider records the config it was built from and writes placeholder
// audio
type configProvider struct {
	cfg *audio.Config
}

func (p *configProvider) GenerateAudio(ctx context.Context, text, outputFile string) error {
	return os.WriteFile(outputFile, testutil.MP3Header(), 0644)
}

func (p *configProvider) Name() string       { return "config-probe" }
func (p *configProvider) IsAvailable() error { return nil }

func newSynthesizerForTest(t *testing.T) (*TTSSynthesizer, *[]*audio.Config) {
	t.Helper()

	cache, err := audio.OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	base := &audio.Config{
		Provider:    "openai",
		Language:    "de",
		OpenAIKey:   "test-key",
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
	}

	var (
		mu       sync.Mutex
		captured []*audio.Config
	)
	synth := NewTTSSynthesizer(base, cache)
	synth.NewProvider = func(cfg *audio.Config) (audio.Provider, error) {
		mu.Lock()
		captured = append(captured, cfg)
		mu.Unlock()
		return &configProvider{cfg: cfg}, nil
	}

	return synth, &captured
}

func TestSynthesizerUsesUtteranceLanguage(t *testing.T) {
	synth, captured := newSynthesizerForTest(t)

	if _, err := synth.Synthesize(context.Background(), "dog", "en", 1.0); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if len(*captured) != 1 {
		t.Fatalf("provider factory called %d times, want 1", len(*captured))
	}
	cfg := (*captured)[0]
	if cfg.Language != "en" {
		t.Errorf("provider language = %s, want en", cfg.Language)
	}
	if cfg.OpenAISpeed != 1.0 {
		t.Errorf("provider speed = %v, want 1.0", cfg.OpenAISpeed)
	}

	// the shared base config must not be mutated
	if synth.base.Language != "de" {
		t.Errorf("base language changed to %s", synth.base.Language)
	}
}

func TestSynthesizerProviderPerLanguageAndRate(t *testing.T) {
	synth, captured := newSynthesizerForTest(t)
	ctx := context.Background()

	utterances := []struct {
		text     string
		language string
		rate     float64
	}{
		{"Hund", "de", 0.8},
		{"dog", "en", 1.0},
		{"Katze", "de", 0.8},
	}
	for _, u := range utterances {
		if _, err := synth.Synthesize(ctx, u.text, u.language, u.rate); err != nil {
			t.Fatalf("Synthesize(%q) failed: %v", u.text, err)
		}
	}

	// de/0.8 is reused for the third utterance
	if len(*captured) != 2 {
		t.Fatalf("provider factory called %d times, want 2", len(*captured))
	}
	if (*captured)[0].Language != "de" || (*captured)[1].Language != "en" {
		t.Errorf("provider languages = %s, %s, want de, en",
			(*captured)[0].Language, (*captured)[1].Language)
	}
}

func TestSynthesizerCachesByLanguage(t *testing.T) {
	synth, captured := newSynthesizerForTest(t)
	ctx := context.Background()

	// the same word in two languages must synthesize twice
	if _, err := synth.Synthesize(ctx, "Bild", "de", 1.0); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if _, err := synth.Synthesize(ctx, "Bild", "en", 1.0); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(*captured) != 2 {
		t.Errorf("provider factory called %d times, want 2", len(*captured))
	}

	// a repeat is a cache hit, no new synthesis
	before := len(*captured)
	if _, err := synth.Synthesize(ctx, "Bild", "de", 1.0); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(*captured) != before {
		t.Error("cache hit created a new provider")
	}
}
