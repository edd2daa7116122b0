package session

import (
	"sync"
	"time"

	"codeberg.org/snonux/readalong/internal/language"
)

// Phase is one step of the per-item learning cycle
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseTranslating
	PhaseFixation
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseTranslating:
		return "translating"
	case PhaseFixation:
		return "fixation"
	default:
		return "unknown"
	}
}

// Cue is the completion handle of one utterance
type Cue interface {
	Done() <-chan struct{}
	Cancel()
}

// Speaker is the speech channel the scheduler drives. Starting a new
// utterance cancels any live one.
type Speaker interface {
	Speak(text, language string, rate float64) Cue
}

// Config holds the cycle parameters. The zero value is completed with the
// defaults below.
type Config struct {
	SourceLanguage string // language the source words are spoken in
	TargetLanguage string // language the translations are spoken in

	IntroRate     float64       // reduced rate for the source word
	TranslateRate float64       // normal rate for the translation
	SettleDelay   time.Duration // pause after intro and translation speech
	FixationDwell time.Duration // visual fixation period per item
}

func (c *Config) fillDefaults() {
	if c.SourceLanguage == "" {
		c.SourceLanguage = "de"
	}
	if c.TargetLanguage == "" {
		c.TargetLanguage = "en"
	}
	if c.IntroRate == 0 {
		c.IntroRate = 0.8
	}
	if c.TranslateRate == 0 {
		c.TranslateRate = 1.0
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = 500 * time.Millisecond
	}
	if c.FixationDwell == 0 {
		c.FixationDwell = 4500 * time.Millisecond
	}
}

// SessionState is a read-only snapshot for the UI layer
type SessionState struct {
	Active       bool
	CurrentIndex int
	Phase        Phase
	Generation   uint64
}

// Scheduler runs the timed learning cycle over the vocabulary list: for each
// item, intro speech at reduced rate, translation speech at normal rate, then
// a fixation dwell with a fire-and-forget reinforcement cue, advancing until
// the list is exhausted.
//
// Cancellation is generation-token based: every stop, skip or restart bumps
// generation, and a running cycle re-checks its captured token after every
// suspension point. A superseded cycle's remaining timers may still elapse,
// but the token check guarantees its state writes are discarded, so a stale
// cycle can never race the current one. Comparing a captured index against
// the shared current index would not give that guarantee, because skip moves
// the shared index before the old cycle reaches its next check.
type Scheduler struct {
	mu sync.Mutex

	speaker Speaker
	cfg     Config
	items   []language.VocabularyItem

	active     bool
	index      int
	phase      Phase
	generation uint64

	onPhase func(Phase, int)
	onDone  func()
}

// New creates a scheduler over the vocabulary list
func New(speaker Speaker, items []language.VocabularyItem, cfg Config) *Scheduler {
	cfg.fillDefaults()
	return &Scheduler{
		speaker: speaker,
		cfg:     cfg,
		items:   items,
	}
}

// SetCallbacks installs UI-facing callbacks. onPhase fires on every phase
// transition of the live generation; onDone fires when the session ends on
// its own. Both are invoked without internal locks held.
func (s *Scheduler) SetCallbacks(onPhase func(Phase, int), onDone func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPhase = onPhase
	s.onDone = onDone
}

// Start begins a session at vocabulary index 0. A running session is
// superseded.
func (s *Scheduler) Start() {
	s.mu.Lock()

	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}

	s.generation++
	s.active = true
	s.index = 0
	gen := s.generation
	s.mu.Unlock()

	go s.run(0, gen)
}

// Skip abandons the current item and starts the cycle on the next one. The
// in-flight cycle is invalidated instantly at its next checkpoint. Skipping
// past the last item, or skipping an inactive session, stops instead.
func (s *Scheduler) Skip() {
	s.mu.Lock()

	if !s.active {
		// stop wins: a skip after stop must not resurrect the session
		s.mu.Unlock()
		return
	}

	s.generation++
	s.index++
	if s.index >= len(s.items) {
		s.stopLocked()
		s.mu.Unlock()
		s.cancelLiveSpeech()
		return
	}

	index := s.index
	gen := s.generation
	s.mu.Unlock()

	s.cancelLiveSpeech()
	go s.run(index, gen)
}

// Stop ends the session. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopLocked()
	s.mu.Unlock()

	s.cancelLiveSpeech()
}

// Snapshot returns a copy of the current session state
func (s *Scheduler) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		Active:       s.active,
		CurrentIndex: s.index,
		Phase:        s.phase,
		Generation:   s.generation,
	}
}

// stopLocked deactivates the session and invalidates in-flight cycles.
// Caller holds s.mu.
func (s *Scheduler) stopLocked() {
	s.active = false
	s.generation++
}

func (s *Scheduler) cancelLiveSpeech() {
	if c, ok := s.speaker.(interface{ CancelLive() }); ok {
		c.CancelLive()
	}
}

// run drives cycles from index to the end of the list under the given
// generation token. It is a plain loop rather than recursion so stack depth
// stays bounded and every cancellation checkpoint is explicit.
func (s *Scheduler) run(index int, gen uint64) {
	for ; index < len(s.items); index++ {
		if !s.runCycle(index, gen) {
			return
		}
	}
	s.finish(gen)
}

// runCycle executes one item's intro/translating/fixation sequence. It
// returns false when the cycle was superseded and the caller must abort
// silently.
func (s *Scheduler) runCycle(index int, gen uint64) bool {
	item := s.items[index]

	// intro: source word at reduced rate
	if !s.enterPhase(gen, index, PhaseIntro) {
		return false
	}
	cue, ok := s.speakChecked(gen, item.SourceWord, s.cfg.SourceLanguage, s.cfg.IntroRate)
	if !ok {
		return false
	}
	<-cue.Done()
	if !s.valid(gen) {
		return false
	}
	time.Sleep(s.cfg.SettleDelay)
	if !s.valid(gen) {
		return false
	}

	// translating: translation at normal rate
	if !s.enterPhase(gen, index, PhaseTranslating) {
		return false
	}
	if item.Translation != "" {
		cue, ok = s.speakChecked(gen, item.Translation, s.cfg.TargetLanguage, s.cfg.TranslateRate)
		if !ok {
			return false
		}
		<-cue.Done()
	}
	if !s.valid(gen) {
		return false
	}
	time.Sleep(s.cfg.SettleDelay)
	if !s.valid(gen) {
		return false
	}

	// fixation: re-speak the source word as reinforcement without awaiting
	// it; the dwell timer runs regardless of whether speech finishes. The
	// handle is retained for the whole dwell and its outcome discarded.
	if !s.enterPhase(gen, index, PhaseFixation) {
		return false
	}
	reinforcement, ok := s.speakChecked(gen, item.SourceWord, s.cfg.SourceLanguage, s.cfg.IntroRate)
	if !ok {
		return false
	}
	time.Sleep(s.cfg.FixationDwell)
	_ = reinforcement
	return s.valid(gen)
}

// speakChecked issues an utterance only while the cycle is still live. Token
// check and Speak happen under the same lock, so a superseded cycle can
// never cancel the live generation's cue with a stale utterance.
func (s *Scheduler) speakChecked(gen uint64, text, language string, rate float64) (Cue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || gen != s.generation {
		return nil, false
	}
	return s.speaker.Speak(text, language, rate), true
}

// valid is the cancellation checkpoint: a cycle may only proceed while its
// token matches the live generation of an active session.
func (s *Scheduler) valid(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active && gen == s.generation
}

// enterPhase records a phase transition if the cycle is still live
func (s *Scheduler) enterPhase(gen uint64, index int, phase Phase) bool {
	s.mu.Lock()
	if !s.active || gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.index = index
	s.phase = phase
	onPhase := s.onPhase
	s.mu.Unlock()

	if onPhase != nil {
		onPhase(phase, index)
	}
	return true
}

// finish ends the session after the last item, if this generation is still
// the live one.
func (s *Scheduler) finish(gen uint64) {
	s.mu.Lock()
	if !s.active || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	onDone := s.onDone
	s.mu.Unlock()

	if onDone != nil {
		onDone()
	}
}
