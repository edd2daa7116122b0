package speech

import (
	"context"
	"sync"
)

// Cue is one cancellable, awaitable utterance. Done is closed when speech
// finishes, errors out, or is cancelled; the caller is never left waiting.
// Callers must retain the handle for as long as they care about the cue.
type Cue struct {
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once

	mu  sync.Mutex
	err error
}

func newCue(cancel context.CancelFunc) *Cue {
	return &Cue{
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Done returns a channel closed when the cue has completed for sequencing
// purposes, whatever the outcome.
func (c *Cue) Done() <-chan struct{} {
	return c.done
}

// Cancel aborts the utterance. The cue still completes.
func (c *Cue) Cancel() {
	c.cancel()
}

// Err returns the swallowed synthesis or playback error, if any. It is
// informational only; sequencing must never depend on it.
func (c *Cue) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Cue) complete(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}
