package speech

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Synthesizer produces a playable audio file for a short utterance
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string, rate float64) (string, error)
}

// Player plays an audio file to completion, or until ctx is cancelled
type Player interface {
	PlayFile(ctx context.Context, file string) error
}

// Speaker owns the single speech-synthesis channel of the application.
// Starting a new utterance cancels any live one, so at most one utterance
// exists system-wide. Synthesis or playback failures are swallowed and the
// cue resolves as completed, because speech is best-effort and must never
// stall the surrounding cycle.
type Speaker struct {
	mu     sync.Mutex
	synth  Synthesizer
	player Player
	live   *Cue
}

// NewSpeaker creates a speaker over the given synthesis and playback backends
func NewSpeaker(synth Synthesizer, player Player) *Speaker {
	return &Speaker{synth: synth, player: player}
}

// Speak starts speaking text in the given language at the given rate and
// returns the cue handle. The previous live cue, if any, is cancelled first.
func (s *Speaker) Speak(text, language string, rate float64) *Cue {
	s.mu.Lock()
	if s.live != nil {
		s.live.Cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cue := newCue(cancel)
	s.live = cue
	s.mu.Unlock()

	go func() {
		err := s.utter(ctx, text, language, rate)
		if err != nil && ctx.Err() == nil {
			// best-effort: report and resolve as done
			fmt.Fprintf(os.Stderr, "speech cue failed: %v\n", err)
		}
		cue.complete(err)
	}()

	return cue
}

// CancelLive cancels the currently live utterance, if any
func (s *Speaker) CancelLive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live != nil {
		s.live.Cancel()
	}
}

func (s *Speaker) utter(ctx context.Context, text, language string, rate float64) error {
	file, err := s.synth.Synthesize(ctx, text, language, rate)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := s.player.PlayFile(ctx, file); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
