package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/readalong/internal/audio"
	"codeberg.org/snonux/readalong/internal/segment"
)

// State is the playback state machine
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// PlaybackState is a read-only snapshot for the UI layer
type PlaybackState struct {
	State         State
	IsPlaying     bool
	ActiveSegment int // -1 when no segment is highlighted
	Rate          float64
	Duration      float64
	Position      float64
}

// SpeechGen is the external speech-generation service: given text, return
// playable audio and its duration. Invoked once per session; the result is
// cached by the controller.
type SpeechGen interface {
	Generate(ctx context.Context, text string) (file string, duration float64, err error)
}

// default sync cadence, roughly a display refresh
const defaultTick = 33 * time.Millisecond

// Controller drives continuous audio playback of the reading text and keeps
// the active-segment highlight synchronized to the audio clock. It is the
// sole owner and writer of the audio engine and of all playback state.
type Controller struct {
	mu sync.Mutex

	engine audio.Engine
	speech SpeechGen
	tick   time.Duration

	state    State
	source   []segment.Segment // untimed segments from the language service
	stamped  []segment.Segment // timing-allocated copy, set once per generate
	active   int
	rate     float64
	duration float64
	file     string

	loopGen int // identifies the current sync loop

	onSegment func(int)
	onState   func(State)
}

// New creates a playback controller over the given engine and
// speech-generation service.
func New(engine audio.Engine, speech SpeechGen) *Controller {
	return &Controller{
		engine: engine,
		speech: speech,
		tick:   defaultTick,
		active: -1,
		rate:   1.0,
	}
}

// SetCallbacks installs the UI-facing callbacks. They are invoked without
// internal locks held.
func (c *Controller) SetCallbacks(onSegment func(int), onState func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSegment = onSegment
	c.onState = onState
}

// SetSource installs the untimed segment list for the reading text. Resets
// any previously generated audio binding.
func (c *Controller) SetSource(segs []segment.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.source = append([]segment.Segment(nil), segs...)
	c.stamped = nil
	c.file = ""
	c.duration = 0
}

// GenerateAndPlay requests audio for the source text from the external
// speech-generation service (once; subsequent calls reuse it), allocates
// segment timings from the returned duration, and starts playback. On
// failure the state stays stopped with no partial audio bound.
func (c *Controller) GenerateAndPlay(ctx context.Context, sourceText string) error {
	c.mu.Lock()
	haveAudio := c.file != ""
	c.mu.Unlock()

	if !haveAudio {
		// async boundary: no locks held across the external call
		file, duration, err := c.speech.Generate(ctx, sourceText)
		if err != nil {
			return fmt.Errorf("speech generation failed: %w", err)
		}
		if duration <= 0 {
			return fmt.Errorf("speech generation returned invalid duration %v", duration)
		}

		c.mu.Lock()
		c.file = file
		c.duration = duration
		c.stamped = segment.Allocate(duration, c.source)
		c.mu.Unlock()
	}

	return c.Play()
}

// Play starts or resumes playback at the current rate
func (c *Controller) Play() error {
	c.mu.Lock()

	if c.file == "" {
		c.mu.Unlock()
		return fmt.Errorf("no audio generated yet")
	}

	var err error
	switch c.state {
	case Playing:
		c.mu.Unlock()
		return nil
	case Paused:
		err = c.engine.Resume()
	case Stopped:
		err = c.engine.Play(c.file, 0, c.rate)
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.state = Playing
	c.loopGen++
	gen := c.loopGen
	tick := c.tick
	done := c.engine.Done()
	onState := c.onState
	c.mu.Unlock()

	go c.syncLoop(gen, tick, done)

	if onState != nil {
		onState(Playing)
	}
	return nil
}

// Pause halts playback, leaving the position intact
func (c *Controller) Pause() error {
	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return nil
	}

	if err := c.engine.Pause(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = Paused
	c.loopGen++
	onState := c.onState
	c.mu.Unlock()

	if onState != nil {
		onState(Paused)
	}
	return nil
}

// Stop resets the position to 0, clears the highlight and stops playback
func (c *Controller) Stop() {
	c.mu.Lock()
	changedSegment := c.active != -1
	c.stopLocked()
	onState := c.onState
	onSegment := c.onSegment
	c.mu.Unlock()

	if changedSegment && onSegment != nil {
		onSegment(-1)
	}
	if onState != nil {
		onState(Stopped)
	}
}

// SeekAndPlay moves the playhead to the start of the given segment, makes it
// active and plays if not already playing. The segment must have timing.
func (c *Controller) SeekAndPlay(index int) error {
	c.mu.Lock()

	if index < 0 || index >= len(c.stamped) {
		c.mu.Unlock()
		return fmt.Errorf("segment index %d out of range", index)
	}
	if !c.stamped[index].Timed {
		c.mu.Unlock()
		return fmt.Errorf("segment %d has no timing yet", index)
	}

	if err := c.engine.Play(c.file, c.stamped[index].Start, c.rate); err != nil {
		c.mu.Unlock()
		return err
	}

	wasPlaying := c.state == Playing
	c.state = Playing
	c.active = index
	c.loopGen++
	gen := c.loopGen
	tick := c.tick
	done := c.engine.Done()
	onSegment := c.onSegment
	onState := c.onState
	c.mu.Unlock()

	go c.syncLoop(gen, tick, done)

	if onSegment != nil {
		onSegment(index)
	}
	if !wasPlaying && onState != nil {
		onState(Playing)
	}
	return nil
}

// SetRate updates the playback rate live, independent of state. The active
// segment and position are untouched.
func (c *Controller) SetRate(rate float64) error {
	if err := audio.ValidateRate(rate); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.engine.SetRate(rate); err != nil {
		return err
	}
	c.rate = rate
	return nil
}

// Snapshot returns a copy of the current playback state
func (c *Controller) Snapshot() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return PlaybackState{
		State:         c.state,
		IsPlaying:     c.state == Playing,
		ActiveSegment: c.active,
		Rate:          c.rate,
		Duration:      c.duration,
		Position:      c.engine.Position(),
	}
}

// Segments returns a copy of the timing-stamped segment list
func (c *Controller) Segments() []segment.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]segment.Segment(nil), c.stamped...)
}

// stopLocked transitions to Stopped. Caller holds c.mu.
func (c *Controller) stopLocked() {
	c.engine.Stop()
	c.state = Stopped
	c.active = -1
	c.loopGen++
}

// syncLoop reconciles the audio clock against the stamped segments on every
// tick. It stops scheduling itself the instant the state leaves Playing or a
// newer loop supersedes it.
func (c *Controller) syncLoop(gen int, tick time.Duration, engineDone <-chan struct{}) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-engineDone:
			c.finishPlayback(gen)
			return
		case <-ticker.C:
			if !c.step(gen) {
				return
			}
		}
	}
}

// step performs one sync tick; it returns false when the loop must exit.
func (c *Controller) step(gen int) bool {
	c.mu.Lock()

	if c.state != Playing || gen != c.loopGen {
		c.mu.Unlock()
		return false
	}

	pos := c.engine.Position()
	if c.duration > 0 && pos >= c.duration {
		c.mu.Unlock()
		c.finishPlayback(gen)
		return false
	}

	idx := segment.ActiveIndex(c.stamped, pos)
	if idx == c.active {
		c.mu.Unlock()
		return true
	}

	c.active = idx
	onSegment := c.onSegment
	c.mu.Unlock()

	if onSegment != nil {
		onSegment(idx)
	}
	return true
}

// finishPlayback handles the natural end of the audio: transition to
// Stopped, clear the highlight.
func (c *Controller) finishPlayback(gen int) {
	c.mu.Lock()
	if gen != c.loopGen || c.state != Playing {
		c.mu.Unlock()
		return
	}

	changedSegment := c.active != -1
	c.stopLocked()
	onState := c.onState
	onSegment := c.onSegment
	c.mu.Unlock()

	if changedSegment && onSegment != nil {
		onSegment(-1)
	}
	if onState != nil {
		onState(Stopped)
	}
}

// SetTick overrides the sync cadence; used by tests
func (c *Controller) SetTick(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = d
}
