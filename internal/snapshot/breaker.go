package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerStore guards a remote Store with a circuit breaker. ErrNotFound does
// not count as a failure. While the breaker is open every call fails fast with
// gobreaker.ErrOpenState, which callers treat like any other load failure.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]byte]
}

// NewBreakerStore trips after maxFailures consecutive failures and lets a
// trial call through after cooldown.
func NewBreakerStore(name string, next Store, maxFailures uint32, cooldown time.Duration) *BreakerStore {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}
	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]byte](st),
	}
}

func (b *BreakerStore) Load(ctx context.Context) ([]byte, error) {
	return b.cb.Execute(func() ([]byte, error) {
		return b.next.Load(ctx)
	})
}

func (b *BreakerStore) Save(ctx context.Context, blob []byte) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Save(ctx, blob)
	})
	return err
}

func (b *BreakerStore) Delete(ctx context.Context) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Delete(ctx)
	})
	return err
}

// State reports the breaker state, mainly for health output.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}
