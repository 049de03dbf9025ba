package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/slotwatch/internal/domain"
	"github.com/hamed0406/slotwatch/internal/metrics"
)

var ErrRetriesExhausted = errors.New("retries exhausted")

// Sleeper blocks for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// RealSleeper waits on a timer.
var RealSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})

// Executor runs a Prober with bounded retries and exponential backoff.
type Executor struct {
	Inner       Prober
	Logger      *zap.Logger
	MaxAttempts int
	Timeout     time.Duration
	BackoffBase time.Duration
	Sleeper     Sleeper
}

func NewExecutor(logger *zap.Logger, inner Prober, maxAttempts int, timeout time.Duration) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{
		Inner:       inner,
		Logger:      logger,
		MaxAttempts: maxAttempts,
		Timeout:     timeout,
		BackoffBase: DefaultBackoffBase,
		Sleeper:     RealSleeper,
	}
}

// Execute returns the first successful response. After MaxAttempts failures
// it returns an error wrapping ErrRetriesExhausted and the last failure.
func (e *Executor) Execute(ctx context.Context, req domain.ProbeRequest) (RawResponse, error) {
	b := NewBackoff(e.BackoffBase, e.MaxAttempts)
	var lastErr error

	for b.Next() {
		start := time.Now()
		resp, err := e.attempt(ctx, req)
		metrics.ObserveProbeLatency(time.Since(start))
		if err == nil {
			metrics.ObserveAttempt(metrics.AttemptSuccess)
			return resp, nil
		}
		lastErr = err
		metrics.ObserveAttempt(metrics.AttemptFailure)

		if ctx.Err() != nil {
			return RawResponse{}, ctx.Err()
		}

		delay := b.Delay()
		e.Logger.Warn("probe_attempt_failed",
			zap.String("date", req.Date.String()),
			zap.Int("attempt", b.Attempt()),
			zap.Int("max_attempts", b.MaxAttempts),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		if b.Last() {
			break
		}
		if err := e.sleeper().Sleep(ctx, delay); err != nil {
			return RawResponse{}, err
		}
	}
	return RawResponse{}, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, b.Attempt(), lastErr)
}

func (e *Executor) attempt(ctx context.Context, req domain.ProbeRequest) (RawResponse, error) {
	actx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()
	return e.Inner.Probe(actx, req)
}

func (e *Executor) sleeper() Sleeper {
	if e.Sleeper == nil {
		return RealSleeper
	}
	return e.Sleeper
}
