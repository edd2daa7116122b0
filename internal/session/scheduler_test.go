package session

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/snonux/readalong/internal/language"
)

// recordedCue completes immediately unless blocked
type recordedCue struct {
	done chan struct{}
}

func (c *recordedCue) Done() <-chan struct{} { return c.done }
func (c *recordedCue) Cancel()               {}

// recordingSpeaker records utterances and completes them instantly (or never,
// when stalled).
type recordingSpeaker struct {
	mu         sync.Mutex
	utterances []utterance
	stall      bool
	cancels    int
}

type utterance struct {
	text string
	lang string
	rate float64
}

func (s *recordingSpeaker) Speak(text, lang string, rate float64) Cue {
	s.mu.Lock()
	s.utterances = append(s.utterances, utterance{text, lang, rate})
	stall := s.stall
	s.mu.Unlock()

	cue := &recordedCue{done: make(chan struct{})}
	if !stall {
		close(cue.done)
	}
	return cue
}

func (s *recordingSpeaker) CancelLive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
}

func (s *recordingSpeaker) spoken() []utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]utterance(nil), s.utterances...)
}

// phaseRecorder collects phase transitions
type phaseRecorder struct {
	mu     sync.Mutex
	events []phaseEvent
	done   bool
}

type phaseEvent struct {
	phase Phase
	index int
}

func (r *phaseRecorder) onPhase(p Phase, index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, phaseEvent{p, index})
}

func (r *phaseRecorder) onDone() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = true
}

func (r *phaseRecorder) snapshot() ([]phaseEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]phaseEvent(nil), r.events...), r.done
}

func testItems() []language.VocabularyItem {
	return []language.VocabularyItem{
		{SourceWord: "Hund", Translation: "dog"},
		{SourceWord: "Katze", Translation: "cat"},
		{SourceWord: "Vogel", Translation: "bird"},
	}
}

// fastConfig keeps the cycle timers tiny so tests run quickly
func fastConfig() Config {
	return Config{
		SourceLanguage: "de",
		TargetLanguage: "en",
		IntroRate:      0.8,
		TranslateRate:  1.0,
		SettleDelay:    time.Millisecond,
		FixationDwell:  2 * time.Millisecond,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestScheduler_VisitsEveryItemInOrder(t *testing.T) {
	speaker := &recordingSpeaker{}
	rec := &phaseRecorder{}
	s := New(speaker, testItems(), fastConfig())
	s.SetCallbacks(rec.onPhase, rec.onDone)

	s.Start()

	waitFor(t, "session end", func() bool {
		_, done := rec.snapshot()
		return done
	})

	events, _ := rec.snapshot()
	want := []phaseEvent{
		{PhaseIntro, 0}, {PhaseTranslating, 0}, {PhaseFixation, 0},
		{PhaseIntro, 1}, {PhaseTranslating, 1}, {PhaseFixation, 1},
		{PhaseIntro, 2}, {PhaseTranslating, 2}, {PhaseFixation, 2},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d phase events, want %d: %+v", len(events), len(want), events)
	}
	for i, e := range events {
		if e != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, e, want[i])
		}
	}

	if s.Snapshot().Active {
		t.Error("session still active after last item")
	}
}

func TestScheduler_SpeechSequencePerItem(t *testing.T) {
	speaker := &recordingSpeaker{}
	rec := &phaseRecorder{}
	s := New(speaker, testItems()[:1], fastConfig())
	s.SetCallbacks(rec.onPhase, rec.onDone)

	s.Start()
	waitFor(t, "session end", func() bool {
		_, done := rec.snapshot()
		return done
	})

	spoken := speaker.spoken()
	if len(spoken) != 3 {
		t.Fatalf("got %d utterances, want 3: %+v", len(spoken), spoken)
	}

	// intro at reduced rate
	if spoken[0].text != "Hund" || spoken[0].lang != "de" || spoken[0].rate != 0.8 {
		t.Errorf("intro utterance = %+v", spoken[0])
	}
	// translation at normal rate
	if spoken[1].text != "dog" || spoken[1].lang != "en" || spoken[1].rate != 1.0 {
		t.Errorf("translation utterance = %+v", spoken[1])
	}
	// fixation reinforcement repeats the source word at reduced rate
	if spoken[2].text != "Hund" || spoken[2].rate != 0.8 {
		t.Errorf("fixation utterance = %+v", spoken[2])
	}
}

func TestScheduler_SkipAdvancesAndInvalidatesOldCycle(t *testing.T) {
	speaker := &recordingSpeaker{stall: true}
	rec := &phaseRecorder{}
	s := New(speaker, testItems(), fastConfig())
	s.SetCallbacks(rec.onPhase, rec.onDone)

	s.Start()
	waitFor(t, "intro of item 0", func() bool {
		events, _ := rec.snapshot()
		return len(events) == 1
	})
	gen0 := s.Snapshot().Generation

	s.Skip()

	waitFor(t, "intro of item 1", func() bool {
		snap := s.Snapshot()
		return snap.CurrentIndex == 1 && snap.Phase == PhaseIntro
	})

	snap := s.Snapshot()
	if snap.Generation <= gen0 {
		t.Errorf("generation did not increase: %d -> %d", gen0, snap.Generation)
	}
	speaker.mu.Lock()
	cancels := speaker.cancels
	speaker.mu.Unlock()
	if cancels == 0 {
		t.Error("skip did not cancel live speech")
	}

	// the superseded cycle's speech completion must not mutate state: give
	// it time, then confirm the observed phase still belongs to item 1
	time.Sleep(20 * time.Millisecond)
	events, _ := rec.snapshot()
	for _, e := range events[1:] {
		if e.index == 0 {
			t.Errorf("superseded cycle emitted phase event: %+v", e)
		}
	}
}

func TestScheduler_SkipPastLastItemStops(t *testing.T) {
	speaker := &recordingSpeaker{stall: true}
	s := New(speaker, testItems()[:1], fastConfig())

	s.Start()
	waitFor(t, "session active", func() bool { return s.Snapshot().Active })

	s.Skip()

	if snap := s.Snapshot(); snap.Active {
		t.Error("session still active after skipping the last item")
	}
}

func TestScheduler_StopThenSkipDoesNotResurrect(t *testing.T) {
	speaker := &recordingSpeaker{stall: true}
	s := New(speaker, testItems(), fastConfig())

	s.Start()
	waitFor(t, "session active", func() bool { return s.Snapshot().Active })

	genBeforeStop := s.Snapshot().Generation
	s.Stop()
	s.Skip()

	snap := s.Snapshot()
	if snap.Active {
		t.Error("skip resurrected a stopped session")
	}
	if snap.Generation <= genBeforeStop {
		t.Error("generation must strictly increase across stop")
	}
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	speaker := &recordingSpeaker{}
	s := New(speaker, testItems(), fastConfig())

	s.Start()
	s.Stop()
	s.Stop()

	if s.Snapshot().Active {
		t.Error("session active after Stop")
	}
}

func TestScheduler_StartWithEmptyList(t *testing.T) {
	s := New(&recordingSpeaker{}, nil, fastConfig())

	s.Start()

	if s.Snapshot().Active {
		t.Error("session active with empty vocabulary")
	}
}

func TestScheduler_RestartSupersedesOldRun(t *testing.T) {
	speaker := &recordingSpeaker{stall: true}
	rec := &phaseRecorder{}
	s := New(speaker, testItems(), fastConfig())
	s.SetCallbacks(rec.onPhase, rec.onDone)

	s.Start()
	waitFor(t, "first run intro", func() bool {
		events, _ := rec.snapshot()
		return len(events) >= 1
	})

	s.Start()

	waitFor(t, "second run intro", func() bool {
		events, _ := rec.snapshot()
		return len(events) >= 2
	})

	snap := s.Snapshot()
	if !snap.Active || snap.CurrentIndex != 0 {
		t.Errorf("restart state = %+v, want active at index 0", snap)
	}
}

func TestScheduler_EmptyTranslationSkipsTranslationSpeech(t *testing.T) {
	speaker := &recordingSpeaker{}
	rec := &phaseRecorder{}
	items := []language.VocabularyItem{{SourceWord: "Hund"}}
	s := New(speaker, items, fastConfig())
	s.SetCallbacks(rec.onPhase, rec.onDone)

	s.Start()
	waitFor(t, "session end", func() bool {
		_, done := rec.snapshot()
		return done
	})

	for _, u := range speaker.spoken() {
		if u.text == "" {
			t.Error("empty translation was spoken")
		}
	}

	// the translating phase still occurs, only its speech is skipped
	events, _ := rec.snapshot()
	if len(events) != 3 {
		t.Errorf("got %d phase events, want 3: %+v", len(events), events)
	}
}

func TestScheduler_FixationSpeechFailureCannotAffectTimer(t *testing.T) {
	// a speaker whose fixation cue never completes: the dwell must elapse
	// and the session must advance regardless
	speaker := &fixationStallSpeaker{}
	rec := &phaseRecorder{}
	s := New(speaker, testItems()[:2], fastConfig())
	s.SetCallbacks(rec.onPhase, rec.onDone)

	s.Start()

	waitFor(t, "second item reached", func() bool {
		events, _ := rec.snapshot()
		for _, e := range events {
			if e.index == 1 {
				return true
			}
		}
		return false
	})
}

// fixationStallSpeaker completes intro/translation cues instantly but never
// completes every third (fixation) cue.
type fixationStallSpeaker struct {
	mu    sync.Mutex
	count int
}

func (s *fixationStallSpeaker) Speak(text, lang string, rate float64) Cue {
	s.mu.Lock()
	s.count++
	isFixation := s.count%3 == 0
	s.mu.Unlock()

	cue := &recordedCue{done: make(chan struct{})}
	if !isFixation {
		close(cue.done)
	}
	return cue
}

func TestScheduler_SkipAtPhaseEntrySpeaksNothingStale(t *testing.T) {
	// skipping in the window between a phase transition and its utterance:
	// the superseded cycle must not speak at all, or it would cancel the
	// new generation's live cue
	speaker := &recordingSpeaker{}
	rec := &phaseRecorder{}
	s := New(speaker, testItems(), fastConfig())

	var once sync.Once
	s.SetCallbacks(func(p Phase, index int) {
		rec.onPhase(p, index)
		if p == PhaseIntro && index == 0 {
			once.Do(s.Skip)
		}
	}, rec.onDone)

	s.Start()
	waitFor(t, "session end", func() bool {
		_, done := rec.snapshot()
		return done
	})

	spoken := speaker.spoken()
	if len(spoken) == 0 {
		t.Fatal("no utterances recorded")
	}
	for _, u := range spoken {
		if u.text == "Hund" {
			t.Fatalf("superseded cycle spoke %q after skip: %+v", u.text, spoken)
		}
	}
	if spoken[0].text != "Katze" {
		t.Errorf("first utterance = %q, want Katze", spoken[0].text)
	}
}
