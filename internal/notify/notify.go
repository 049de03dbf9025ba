package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Notifier delivers one alert.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans an alert out to every configured channel and reports all failures.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, title, text))
	}
	return err
}

// Nop drops every alert.
type Nop struct{}

func (Nop) Send(context.Context, string, string) error { return nil }
