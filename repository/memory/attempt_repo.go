package memory

import (
	"context"
	"time"

	"github.com/fastygo/careflow/repository"
)

type attemptRepository struct {
	store  *Store
	window time.Duration
}

// NewAttemptRepository keeps failed-login counters in the store. Each recorded
// failure extends the counter's lifetime by window.
func NewAttemptRepository(store *Store, window time.Duration) repository.AttemptRepository {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &attemptRepository{store: store, window: window}
}

func (r *attemptRepository) Failures(_ context.Context, key string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.attempts[key]
	if !ok || !r.store.now().Before(a.expires) {
		return 0, nil
	}
	return a.count, nil
}

func (r *attemptRepository) RecordFailure(_ context.Context, key string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	a := r.store.attempts[key]
	if !now.Before(a.expires) {
		a.count = 0
	}
	a.count++
	a.expires = now.Add(r.window)
	r.store.attempts[key] = a
	return a.count, nil
}

func (r *attemptRepository) Reset(_ context.Context, key string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.attempts, key)
	return nil
}
