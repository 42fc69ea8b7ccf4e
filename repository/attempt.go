package repository

import "context"

// AttemptRepository counts failed logins per key inside a rolling window.
type AttemptRepository interface {
	Failures(ctx context.Context, key string) (int, error)
	RecordFailure(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}
