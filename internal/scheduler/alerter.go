package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/slotwatch/internal/domain"
	"github.com/hamed0406/slotwatch/internal/metrics"
	"github.com/hamed0406/slotwatch/internal/notify"
	"github.com/hamed0406/slotwatch/internal/repo"
)

type AlerterConfig struct {
	Unit    string
	Service string
	SiteURL string
}

// Alerter sends at most one alert per available date per run.
type Alerter struct {
	logger   *zap.Logger
	alerts   repo.AlertStore
	notifier notify.Notifier
	cfg      AlerterConfig
	now      func() time.Time
}

func NewAlerter(logger *zap.Logger, alerts repo.AlertStore, notifier notify.Notifier, cfg AlerterConfig) *Alerter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Alerter{
		logger:   logger,
		alerts:   alerts,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ConsiderAlert reports whether a new alert was dispatched for date.
// Delivery failures are logged and still count as alerted.
func (a *Alerter) ConsiderAlert(ctx context.Context, date domain.TargetDate, out domain.Outcome) bool {
	if !out.Available() {
		return false
	}

	inserted, err := a.alerts.MarkAlerted(ctx, repo.AlertRecord{
		Date:    date,
		Message: out.Message,
		SentAt:  a.now(),
	})
	if err != nil {
		a.logger.Error("alert_store_error", zap.String("date", date.String()), zap.Error(err))
		return false
	}
	if !inserted {
		metrics.ObserveAlert(metrics.AlertDuplicate)
		a.logger.Info("alert_already_sent", zap.String("date", date.String()))
		return false
	}

	a.logger.Info("slot_available",
		zap.String("date", date.String()),
		zap.String("message", out.Message),
	)
	title, text := a.format(date, out)
	if err := a.notifier.Send(ctx, title, text); err != nil {
		metrics.ObserveAlert(metrics.AlertFailed)
		a.logger.Error("alert_send_error", zap.String("date", date.String()), zap.Error(err))
		return true
	}
	metrics.ObserveAlert(metrics.AlertSent)
	a.logger.Info("alert_sent", zap.String("date", date.String()))
	return true
}

func (a *Alerter) format(date domain.TargetDate, out domain.Outcome) (string, string) {
	title := "🚨 SLOT AVAILABLE!"
	text := fmt.Sprintf(
		"📅 Date: %s (%s)\n📍 Unit: %s\n🧾 Service: %s\n💬 %s\n🔗 %s",
		date, date.WeekdayCode(), a.cfg.Unit, a.cfg.Service, out.Message, a.cfg.SiteURL,
	)
	return title, text
}
