package ports

import "context"

// LoginLimiter throttles repeated login attempts for a key.
type LoginLimiter interface {
	// Allow records an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, key string) error
}
