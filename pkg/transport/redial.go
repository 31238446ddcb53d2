package transport

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/pslog"
)

// Policy bounds reconnection after the peer goes away.
type Policy struct {
	// Attempts is the total number of dial tries; values below 1 mean 1.
	Attempts int
	// Backoff is slept between failed tries.
	Backoff time.Duration
}

// Dialer remembers where and how to connect so a lost session can be
// re-established.
type Dialer struct {
	Path    string
	Timeout time.Duration
}

// Dial makes a single connection attempt.
func (d Dialer) Dial(ctx context.Context) (*Transport, error) {
	return Dial(ctx, d.Path, d.Timeout)
}

// Redial tries to connect to d.Path according to p.
func (d Dialer) Redial(ctx context.Context, p Policy) (*Transport, error) {
	return Retry(ctx, p, d.Path, d.Dial)
}

// Retry calls dial up to p.Attempts times and returns the first success. The
// last dial error is returned when every attempt fails. target only labels
// log lines and errors.
func Retry[T any](ctx context.Context, p Policy, target string, dial func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	logger := pslog.Ctx(ctx)
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		conn, err := dial(ctx)
		if err == nil {
			logger.Info("transport connected", "socket", target, "attempt", i)
			return conn, nil
		}
		lastErr = err
		logger.Warn("transport dial failed", "socket", target, "attempt", i, "attempts", attempts, "err", err)
		if i == attempts || p.Backoff <= 0 {
			continue
		}
		timer := time.NewTimer(p.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, fmt.Errorf("reconnect %s after %d attempt(s): %w", target, attempts, lastErr)
}
