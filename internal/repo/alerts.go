package repo

import (
	"context"
	"time"

	"github.com/hamed0406/slotwatch/internal/domain"
)

// AlertRecord is a date that already produced an alert in this run.
type AlertRecord struct {
	Date    domain.TargetDate `json:"date"`
	Message string            `json:"message"`
	SentAt  time.Time         `json:"sent_at"`
}

// AlertStore holds the set of alerted dates. Implementations only need to
// live as long as the process.
type AlertStore interface {
	// MarkAlerted inserts the date and reports true, or reports false if it
	// was already present.
	MarkAlerted(ctx context.Context, rec AlertRecord) (bool, error)
	IsAlerted(ctx context.Context, d domain.TargetDate) (bool, error)
	// List returns records ordered by date.
	List(ctx context.Context) ([]AlertRecord, error)
	// Forget removes a date so it can alert again; reports whether it existed.
	Forget(ctx context.Context, d domain.TargetDate) (bool, error)
}
