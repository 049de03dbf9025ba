package probe

import "time"

// DefaultBackoffBase is the wait after the first failed attempt; each later
// wait doubles it.
const DefaultBackoffBase = 2 * time.Second

// Backoff tracks an attempt budget and the delay owed after a failure.
//
//	for b.Next() {
//		if try() == nil { break }
//		sleep(b.Delay())
//	}
type Backoff struct {
	Base        time.Duration
	MaxAttempts int

	attempt int
}

func NewBackoff(base time.Duration, maxAttempts int) *Backoff {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Backoff{Base: base, MaxAttempts: maxAttempts}
}

// Next starts another attempt. It reports false once the budget is spent.
func (b *Backoff) Next() bool {
	if b.attempt >= b.MaxAttempts {
		return false
	}
	b.attempt++
	return true
}

// Attempt is the 1-based number of the current attempt (0 before Next).
func (b *Backoff) Attempt() int { return b.attempt }

// Last reports whether the current attempt is the final one.
func (b *Backoff) Last() bool { return b.attempt >= b.MaxAttempts }

// Delay is base * 2^(attempt-1) after a failed attempt, zero after the last.
func (b *Backoff) Delay() time.Duration {
	if b.attempt < 1 || b.Last() {
		return 0
	}
	return b.Base << (b.attempt - 1)
}
