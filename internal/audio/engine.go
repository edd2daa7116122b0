package audio

import (
	"fmt"
	"sync"
	"time"
)

// Engine is the single audio element of the application. It plays one file at
// a time and exposes a continuously advancing playback position. Exactly one
// owner (the playback controller) may mutate it.
type Engine interface {
	// Play starts playback of file at the given offset (seconds) and rate.
	// Any previous playback is stopped first.
	Play(file string, offset, rate float64) error

	// Pause halts playback, keeping the position intact
	Pause() error

	// Resume continues playback from the paused position
	Resume() error

	// Stop halts playback and resets the position to 0
	Stop()

	// Position returns the current playback position in seconds
	Position() float64

	// SetRate changes the playback rate live, preserving pitch
	SetRate(rate float64) error

	// Rate returns the current playback rate
	Rate() float64

	// Playing reports whether audio is currently advancing
	Playing() bool

	// Done returns a channel closed when the current playback reaches its
	// natural end. Pause, Stop, seeks and rate changes never close it.
	Done() <-chan struct{}
}

// Clock abstracts time for the position math so tests can drive it
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// process is a handle to a running player, killable and awaitable
type process interface {
	Wait() error
	Kill() error
}

// launcher starts a platform audio player for a file at an offset and rate
type launcher interface {
	launch(file string, offset, rate float64) (process, error)
}

// ExecEngine implements Engine by running a platform audio player process and
// tracking the playback position with a rate-scaled monotonic clock. Every
// pause, seek or rate change folds the elapsed progress into base and
// restarts the player process; procGen identifies the current process so the
// waiter goroutine of a superseded process cannot report a stale natural end.
type ExecEngine struct {
	mu sync.Mutex

	clock  Clock
	launch launcher

	file    string
	proc    process
	procGen int

	playing bool
	paused  bool
	base    float64 // position at the start of the current run
	started time.Time
	rate    float64

	done chan struct{}
}

// NewExecEngine creates an engine backed by the platform audio players
func NewExecEngine() *ExecEngine {
	return newExecEngine(realClock{}, &execLauncher{})
}

func newExecEngine(clock Clock, l launcher) *ExecEngine {
	return &ExecEngine{
		clock:  clock,
		launch: l,
		rate:   1.0,
		done:   make(chan struct{}),
	}
}

// Play starts playback of file at offset with the given rate
func (e *ExecEngine) Play(file string, offset, rate float64) error {
	if err := ValidateRate(rate); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.killLocked()
	e.file = file
	e.base = offset
	e.rate = rate
	e.paused = false
	e.done = make(chan struct{})

	return e.startLocked()
}

// Pause halts playback, keeping the position intact
func (e *ExecEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		return nil
	}

	e.base = e.positionLocked()
	e.killLocked()
	e.paused = true
	return nil
}

// Resume continues playback from the paused position
func (e *ExecEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing || e.file == "" {
		return nil
	}

	e.paused = false
	return e.startLocked()
}

// Stop halts playback and resets the position to 0
func (e *ExecEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.killLocked()
	e.paused = false
	e.base = 0
}

// Position returns the current playback position in seconds
func (e *ExecEngine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

// SetRate changes the playback rate live. With ffplay the tempo filter keeps
// the pitch unchanged. Elapsed progress is folded into base first so the
// position clock stays continuous across the restart.
func (e *ExecEngine) SetRate(rate float64) error {
	if err := ValidateRate(rate); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		e.rate = rate
		return nil
	}

	e.base = e.positionLocked()
	e.killLocked()
	e.rate = rate
	return e.startLocked()
}

// Rate returns the current playback rate
func (e *ExecEngine) Rate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

// Playing reports whether audio is currently advancing
func (e *ExecEngine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Done returns the natural-end channel of the current playback
func (e *ExecEngine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

func (e *ExecEngine) positionLocked() float64 {
	if !e.playing {
		return e.base
	}
	elapsed := e.clock.Now().Sub(e.started).Seconds()
	return e.base + elapsed*e.rate
}

// startLocked launches the player at e.base with e.rate and installs the
// natural-end waiter for this process generation.
func (e *ExecEngine) startLocked() error {
	proc, err := e.launch.launch(e.file, e.base, e.rate)
	if err != nil {
		return fmt.Errorf("failed to start audio player: %w", err)
	}

	e.proc = proc
	e.procGen++
	e.playing = true
	e.started = e.clock.Now()

	myGen := e.procGen
	done := e.done
	go func() {
		proc.Wait()

		e.mu.Lock()
		defer e.mu.Unlock()
		// an intentional kill bumps procGen before Wait returns, so a
		// matching generation means the player finished on its own
		if e.procGen != myGen || !e.playing {
			return
		}
		e.playing = false
		e.paused = false
		e.proc = nil
		close(done)
	}()

	return nil
}

// killLocked terminates the current player process, if any, marking the kill
// as intentional by advancing the process generation.
func (e *ExecEngine) killLocked() {
	if e.proc != nil {
		e.procGen++
		e.proc.Kill()
		e.proc = nil
	}
	e.playing = false
}
