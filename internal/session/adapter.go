package session

import "codeberg.org/snonux/readalong/internal/speech"

// speechSpeaker adapts *speech.Speaker to the Speaker interface
type speechSpeaker struct {
	s *speech.Speaker
}

// NewSpeechSpeaker wraps a speech.Speaker for use by the scheduler
func NewSpeechSpeaker(s *speech.Speaker) Speaker {
	return speechSpeaker{s: s}
}

// Speak implements Speaker
func (a speechSpeaker) Speak(text, language string, rate float64) Cue {
	return a.s.Speak(text, language, rate)
}

// CancelLive aborts the in-flight utterance
func (a speechSpeaker) CancelLive() {
	a.s.CancelLive()
}
