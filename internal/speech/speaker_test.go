package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSynth returns a fixed file, optionally failing or blocking until ctx
// cancellation
type fakeSynth struct {
	mu    sync.Mutex
	err   error
	block bool
	calls []string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, language string, rate float64) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return "/tmp/fake.mp3", nil
}

func (f *fakeSynth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakePlayer plays instantly, or blocks until cancelled
type fakePlayer struct {
	mu     sync.Mutex
	err    error
	block  bool
	played []string
}

func (f *fakePlayer) PlayFile(ctx context.Context, file string) error {
	f.mu.Lock()
	f.played = append(f.played, file)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func waitDone(t *testing.T, cue *Cue) {
	t.Helper()
	select {
	case <-cue.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("cue never completed")
	}
}

func TestSpeaker_SpeakCompletes(t *testing.T) {
	synth := &fakeSynth{}
	player := &fakePlayer{}
	s := NewSpeaker(synth, player)

	cue := s.Speak("Hund", "de", 0.8)
	waitDone(t, cue)

	if cue.Err() != nil {
		t.Errorf("unexpected cue error: %v", cue.Err())
	}
	if len(player.played) != 1 {
		t.Errorf("played %d files, want 1", len(player.played))
	}
}

func TestSpeaker_SynthesisErrorResolvesAsDone(t *testing.T) {
	synth := &fakeSynth{err: errors.New("no voice")}
	s := NewSpeaker(synth, &fakePlayer{})

	cue := s.Speak("Hund", "de", 1.0)
	waitDone(t, cue)

	// the error is recorded but the cue completed; sequencing never stalls
	if cue.Err() == nil {
		t.Error("expected recorded error")
	}
}

func TestSpeaker_PlaybackErrorResolvesAsDone(t *testing.T) {
	player := &fakePlayer{err: errors.New("no audio device")}
	s := NewSpeaker(&fakeSynth{}, player)

	cue := s.Speak("Hund", "de", 1.0)
	waitDone(t, cue)
}

func TestSpeaker_NewUtteranceCancelsLive(t *testing.T) {
	synth := &fakeSynth{block: true}
	s := NewSpeaker(synth, &fakePlayer{})

	first := s.Speak("eins", "de", 1.0)
	second := s.Speak("zwei", "de", 1.0)

	// starting the second cue cancels the first one
	waitDone(t, first)

	select {
	case <-second.Done():
		t.Error("second cue completed although synth blocks")
	case <-time.After(50 * time.Millisecond):
	}

	second.Cancel()
	waitDone(t, second)
}

func TestSpeaker_CancelLive(t *testing.T) {
	synth := &fakeSynth{block: true}
	s := NewSpeaker(synth, &fakePlayer{})

	cue := s.Speak("Hund", "de", 1.0)
	s.CancelLive()
	waitDone(t, cue)
}

func TestSpeaker_CancelLiveWithoutCue(t *testing.T) {
	s := NewSpeaker(&fakeSynth{}, &fakePlayer{})
	s.CancelLive() // must not panic
}

func TestCue_CancelIdempotent(t *testing.T) {
	s := NewSpeaker(&fakeSynth{block: true}, &fakePlayer{})

	cue := s.Speak("Hund", "de", 1.0)
	cue.Cancel()
	cue.Cancel()
	waitDone(t, cue)
}
