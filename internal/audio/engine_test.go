package audio

import (
	"math"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeProcess blocks in Wait until killed or finished
type fakeProcess struct {
	done     chan struct{}
	once     sync.Once
	killed   bool
	finished bool
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{done: make(chan struct{})}
}

func (p *fakeProcess) Wait() error {
	<-p.done
	return nil
}

func (p *fakeProcess) Kill() error {
	p.once.Do(func() {
		p.killed = true
		close(p.done)
	})
	return nil
}

func (p *fakeProcess) finish() {
	p.once.Do(func() {
		p.finished = true
		close(p.done)
	})
}

// fakeLauncher records launches and hands out fake processes
type fakeLauncher struct {
	mu       sync.Mutex
	launches []struct {
		file         string
		offset, rate float64
	}
	procs []*fakeProcess
}

func (l *fakeLauncher) launch(file string, offset, rate float64) (process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches = append(l.launches, struct {
		file         string
		offset, rate float64
	}{file, offset, rate})
	p := newFakeProcess()
	l.procs = append(l.procs, p)
	return p, nil
}

func (l *fakeLauncher) last() *fakeProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.procs[len(l.procs)-1]
}

func (l *fakeLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.procs)
}

func TestExecEngine_PositionAdvancesWithRate(t *testing.T) {
	clock := newFakeClock()
	launcher := &fakeLauncher{}
	e := newExecEngine(clock, launcher)

	if err := e.Play("test.mp3", 0, 1.25); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	clock.Advance(4 * time.Second)

	if got := e.Position(); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("Position = %v, want 5.0 (4s at rate 1.25)", got)
	}
	if !e.Playing() {
		t.Error("engine should be playing")
	}
}

func TestExecEngine_PlayAtOffset(t *testing.T) {
	clock := newFakeClock()
	launcher := &fakeLauncher{}
	e := newExecEngine(clock, launcher)

	if err := e.Play("test.mp3", 7.5, 1.0); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if got := launcher.launches[0].offset; got != 7.5 {
		t.Errorf("launch offset = %v, want 7.5", got)
	}
	if got := e.Position(); got != 7.5 {
		t.Errorf("Position = %v, want 7.5", got)
	}
}

func TestExecEngine_PauseFreezesPosition(t *testing.T) {
	clock := newFakeClock()
	launcher := &fakeLauncher{}
	e := newExecEngine(clock, launcher)

	e.Play("test.mp3", 0, 1.0)
	clock.Advance(3 * time.Second)

	if err := e.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	clock.Advance(10 * time.Second)

	if got := e.Position(); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("paused Position = %v, want 3.0", got)
	}
	if e.Playing() {
		t.Error("engine should not be playing while paused")
	}
	if !launcher.procs[0].killed {
		t.Error("pause should kill the player process")
	}

	// a pause must never look like a natural end
	select {
	case <-e.Done():
		t.Error("Done closed by pause")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestExecEngine_ResumeContinues(t *testing.T) {
	clock := newFakeClock()
	launcher := &fakeLauncher{}
	e := newExecEngine(clock, launcher)

	e.Play("test.mp3", 0, 1.0)
	clock.Advance(3 * time.Second)
	e.Pause()

	if err := e.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	clock.Advance(2 * time.Second)

	if got := e.Position(); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("Position after resume = %v, want 5.0", got)
	}
	if got := launcher.launches[1].offset; math.Abs(got-3.0) > 1e-9 {
		t.Errorf("resume launch offset = %v, want 3.0", got)
	}
}

func TestExecEngine_SetRateKeepsPositionContinuous(t *testing.T) {
	clock := newFakeClock()
	launcher := &fakeLauncher{}
	e := newExecEngine(clock, launcher)

	e.Play("test.mp3", 0, 1.0)
	clock.Advance(4 * time.Second)

	if err := e.SetRate(1.25); err != nil {
		t.Fatalf("SetRate failed: %v", err)
	}

	if got := e.Position(); math.Abs(got-4.0) > 1e-9 {
		t.Errorf("Position after rate change = %v, want 4.0", got)
	}
	if got := e.Rate(); got != 1.25 {
		t.Errorf("Rate = %v, want 1.25", got)
	}
	if got := launcher.launches[1].rate; got != 1.25 {
		t.Errorf("relaunch rate = %v, want 1.25", got)
	}
	if !e.Playing() {
		t.Error("rate change must not stop playback")
	}

	clock.Advance(2 * time.Second)
	if got := e.Position(); math.Abs(got-6.5) > 1e-9 {
		t.Errorf("Position = %v, want 6.5 (4.0 + 2s at 1.25)", got)
	}
}

func TestExecEngine_SetRateWhileStopped(t *testing.T) {
	e := newExecEngine(newFakeClock(), &fakeLauncher{})

	if err := e.SetRate(0.75); err != nil {
		t.Fatalf("SetRate failed: %v", err)
	}
	if got := e.Rate(); got != 0.75 {
		t.Errorf("Rate = %v, want 0.75", got)
	}
}

func TestExecEngine_RejectsInvalidRate(t *testing.T) {
	e := newExecEngine(newFakeClock(), &fakeLauncher{})

	if err := e.SetRate(0); err == nil {
		t.Error("expected error for rate 0")
	}
	if err := e.Play("test.mp3", 0, -1); err == nil {
		t.Error("expected error for negative rate")
	}
}

func TestExecEngine_NaturalEndClosesDone(t *testing.T) {
	clock := newFakeClock()
	launcher := &fakeLauncher{}
	e := newExecEngine(clock, launcher)

	e.Play("test.mp3", 0, 1.0)
	done := e.Done()

	launcher.last().finish()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Done not closed after natural end")
	}
	if e.Playing() {
		t.Error("engine still playing after natural end")
	}
}

func TestExecEngine_StopResetsPosition(t *testing.T) {
	clock := newFakeClock()
	launcher := &fakeLauncher{}
	e := newExecEngine(clock, launcher)

	e.Play("test.mp3", 0, 1.0)
	clock.Advance(3 * time.Second)
	e.Stop()

	if got := e.Position(); got != 0 {
		t.Errorf("Position after Stop = %v, want 0", got)
	}
	if e.Playing() {
		t.Error("engine playing after Stop")
	}

	select {
	case <-e.Done():
		t.Error("Done closed by Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestExecEngine_PlayReplacesPlayback(t *testing.T) {
	clock := newFakeClock()
	launcher := &fakeLauncher{}
	e := newExecEngine(clock, launcher)

	e.Play("a.mp3", 0, 1.0)
	firstDone := e.Done()
	e.Play("b.mp3", 0, 1.0)

	if !launcher.procs[0].killed {
		t.Error("first player not killed by second Play")
	}
	if launcher.count() != 2 {
		t.Fatalf("expected 2 launches, got %d", launcher.count())
	}

	// the superseded playback's waiter must not fire
	select {
	case <-firstDone:
		t.Error("superseded Done channel closed")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAtempoFilter(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.25, "atempo=1.2500"},
		{0.75, "atempo=0.7500"},
		{0.25, "atempo=0.5,atempo=0.5000"},
		{3.0, "atempo=2.0,atempo=1.5000"},
	}

	for _, tt := range tests {
		if got := atempoFilter(tt.rate); got != tt.want {
			t.Errorf("atempoFilter(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
