package processor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"codeberg.org/snonux/readalong/internal/audio"
	"codeberg.org/snonux/readalong/internal/cli"
	"codeberg.org/snonux/readalong/internal/gui"
	"codeberg.org/snonux/readalong/internal/language"
	"codeberg.org/snonux/readalong/internal/phonetic"
	"codeberg.org/snonux/readalong/internal/player"
	"codeberg.org/snonux/readalong/internal/reader"
	"codeberg.org/snonux/readalong/internal/session"
	"codeberg.org/snonux/readalong/internal/speech"
	"codeberg.org/snonux/readalong/internal/vocab"
)

// Processor turns the parsed command line into a running application, either
// the GUI or the terminal reading mode.
type Processor struct {
	flags *cli.Flags
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{flags: flags}
}

// languageConfig builds the language service configuration from the flags
func (p *Processor) languageConfig() *language.Config {
	return &language.Config{
		Provider:       p.flags.LanguageProvider,
		SourceLanguage: p.flags.SourceLanguage,
		TargetLanguage: p.flags.TargetLanguage,
		OpenAIKey:      cli.GetOpenAIKey(),
		OpenAIModel:    p.flags.OpenAIChatModel,
		GeminiKey:      cli.GetGeminiKey(),
		GeminiModel:    p.flags.GeminiModel,
	}
}

// audioConfig builds the audio provider configuration from the flags
func (p *Processor) audioConfig() *audio.Config {
	return &audio.Config{
		Provider:          p.flags.AudioProvider,
		OutputDir:         p.flags.CacheDir,
		OutputFormat:      p.flags.AudioFormat,
		Language:          language.Tag(p.flags.SourceLanguage),
		OpenAIKey:         cli.GetOpenAIKey(),
		OpenAIModel:       p.flags.OpenAITTSModel,
		OpenAIVoice:       p.flags.OpenAIVoice,
		OpenAISpeed:       1.0,
		OpenAIInstruction: p.flags.OpenAIInstruction,
	}
}

// sessionConfig builds the learning cycle configuration from the flags
func (p *Processor) sessionConfig() session.Config {
	return session.Config{
		SourceLanguage: language.Tag(p.flags.SourceLanguage),
		TargetLanguage: language.Tag(p.flags.TargetLanguage),
		IntroRate:      p.flags.IntroRate,
		FixationDwell:  time.Duration(p.flags.FixationDwell * float64(time.Second)),
	}
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	app, err := gui.New(&gui.Config{
		CacheDir:          p.flags.CacheDir,
		TextFile:          p.flags.TextFile,
		VocabFile:         p.flags.VocabFile,
		LanguageProvider:  p.flags.LanguageProvider,
		SourceLanguage:    p.flags.SourceLanguage,
		TargetLanguage:    p.flags.TargetLanguage,
		OpenAIKey:         cli.GetOpenAIKey(),
		GeminiKey:         cli.GetGeminiKey(),
		OpenAIChatModel:   p.flags.OpenAIChatModel,
		GeminiModel:       p.flags.GeminiModel,
		AudioProvider:     p.flags.AudioProvider,
		OpenAITTSModel:    p.flags.OpenAITTSModel,
		OpenAIVoice:       p.flags.OpenAIVoice,
		OpenAIInstruction: p.flags.OpenAIInstruction,
		Rate:              p.flags.Rate,
		Phonetic:          p.flags.Phonetic,
		IntroRate:         p.flags.IntroRate,
		FixationDwell:     time.Duration(p.flags.FixationDwell * float64(time.Second)),
	})
	if err != nil {
		return err
	}

	app.Run()
	return nil
}

// RunTerminal plays a reading text from the terminal: guided playback first,
// then the vocabulary learning cycle.
func (p *Processor) RunTerminal(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read text file: %w", err)
	}

	ctx := context.Background()

	langProvider, err := language.NewProvider(p.languageConfig())
	if err != nil {
		return err
	}

	fmt.Println("Loading vocabulary and segments...")
	sess, err := reader.NewLoader(langProvider).Load(ctx, string(data))
	if err != nil {
		return err
	}
	if sess.SegmentsErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: segmentation failed (%v), using local tokenizer\n", sess.SegmentsErr)
	}
	if sess.VocabularyErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: vocabulary fetch failed (%v), translations missing\n", sess.VocabularyErr)
	}

	if p.flags.VocabFile != "" {
		extra, err := vocab.ReadVocabFile(p.flags.VocabFile)
		if err != nil {
			return err
		}
		sess.Vocabulary = vocab.Merge(sess.Vocabulary, extra)
	}

	cache, err := audio.OpenCache(p.flags.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to open synthesis cache: %w", err)
	}
	defer cache.Close()

	audioConfig := p.audioConfig()
	audioProvider, err := audio.NewProvider(audioConfig)
	if err != nil {
		return err
	}

	if err := p.playText(ctx, sess, audioProvider, cache); err != nil {
		return err
	}

	if len(sess.Vocabulary) == 0 {
		fmt.Println("No vocabulary to practice.")
		return nil
	}
	return p.runLearningCycle(ctx, sess, audioConfig, cache)
}

// playText synthesizes the full text and plays it while printing the spoken
// segment.
func (p *Processor) playText(ctx context.Context, sess *reader.Session, provider audio.Provider, cache *audio.Cache) error {
	gen := audio.NewGenerator(provider, cache, p.flags.OpenAIVoice, 1.0)
	ctrl := player.New(audio.NewExecEngine(), gen)
	ctrl.SetSource(sess.Segments)

	done := make(chan struct{})
	var once sync.Once
	ctrl.SetCallbacks(
		func(index int) {
			if index >= 0 && index < len(sess.Segments) {
				fmt.Printf("\r> %-40s", sess.Segments[index].Text)
			}
		},
		func(state player.State) {
			if state == player.Stopped {
				once.Do(func() { close(done) })
			}
		},
	)

	fmt.Println("Generating audio...")
	if err := ctrl.GenerateAndPlay(ctx, sess.Text); err != nil {
		return err
	}
	if p.flags.Rate != 1.0 {
		if err := ctrl.SetRate(p.flags.Rate); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: rate change failed: %v\n", err)
		}
	}

	<-done
	fmt.Println()
	return nil
}

// runLearningCycle walks the vocabulary from the terminal
func (p *Processor) runLearningCycle(ctx context.Context, sess *reader.Session, audioConfig *audio.Config, cache *audio.Cache) error {
	// Prefetch phonetic hints so the cycle timing is not disturbed
	hints := make(map[string]string)
	if p.flags.Phonetic {
		fetcher := phonetic.NewFetcher(cli.GetOpenAIKey(), p.flags.SourceLanguage)
		for _, item := range sess.Vocabulary {
			if hint, err := fetcher.Fetch(ctx, item.SourceWord); err == nil {
				hints[item.SourceWord] = hint
			}
		}
	}

	speaker := speech.NewSpeaker(speech.NewTTSSynthesizer(audioConfig, cache), speech.ExecPlayer{})
	scheduler := session.New(session.NewSpeechSpeaker(speaker), sess.Vocabulary, p.sessionConfig())

	done := make(chan struct{})
	scheduler.SetCallbacks(
		func(phase session.Phase, index int) {
			item := sess.Vocabulary[index]
			switch phase {
			case session.PhaseIntro:
				hint := ""
				if h, ok := hints[item.SourceWord]; ok {
					hint = " " + h
				}
				fmt.Printf("\n[%d/%d] %s%s\n", index+1, len(sess.Vocabulary), item.SourceWord, hint)
			case session.PhaseTranslating:
				fmt.Printf("      = %s\n", item.Translation)
			}
		},
		func() { close(done) },
	)

	fmt.Printf("\nPracticing %d words...\n", len(sess.Vocabulary))
	scheduler.Start()
	<-done
	fmt.Println("\nDone.")
	return nil
}
