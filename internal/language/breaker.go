package language

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/readalong/internal/segment"
)

// breakerProvider wraps a Provider in a circuit breaker so that a flapping or
// down language service fails fast instead of stalling every load with a full
// network timeout.
type breakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps p in a circuit breaker. An open breaker surfaces
// ErrServiceUnavailable.
func WithBreaker(p Provider) Provider {
	st := gobreaker.Settings{
		Name:    fmt.Sprintf("language-%s", p.Name()),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &breakerProvider{
		inner: p,
		cb:    gobreaker.NewCircuitBreaker(st),
	}
}

// Vocabulary delegates through the breaker
func (b *breakerProvider) Vocabulary(ctx context.Context, text string) ([]VocabularyItem, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Vocabulary(ctx, text)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return out.([]VocabularyItem), nil
}

// Segments delegates through the breaker
func (b *breakerProvider) Segments(ctx context.Context, text string) ([]segment.Segment, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Segments(ctx, text)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return out.([]segment.Segment), nil
}

// Name returns the wrapped provider's name
func (b *breakerProvider) Name() string {
	return b.inner.Name()
}

func (b *breakerProvider) wrap(err error) error {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return err
}
