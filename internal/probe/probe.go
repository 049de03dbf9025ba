package probe

import (
	"context"
	"fmt"

	"github.com/hamed0406/slotwatch/internal/domain"
)

// RawResponse is the body and status of one successful upstream exchange.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Prober performs a single upstream exchange for one date.
type Prober interface {
	Probe(ctx context.Context, req domain.ProbeRequest) (RawResponse, error)
}

// StatusError reports a non-2xx upstream answer.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}
