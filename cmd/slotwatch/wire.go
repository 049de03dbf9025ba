package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/slotwatch/internal/config"
	"github.com/hamed0406/slotwatch/internal/dates"
	"github.com/hamed0406/slotwatch/internal/notify"
	"github.com/hamed0406/slotwatch/internal/probe"
)

type loader func() (config.Config, error)

func loadValid(load loader) (config.Config, error) {
	cfg, err := load()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newSelector(cfg config.Config) (*dates.Selector, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	excluded, err := cfg.Excluded()
	if err != nil {
		return nil, err
	}
	return dates.NewSelector(loc, cfg.WindowDays, excluded), nil
}

func newExecutor(logger *zap.Logger, cfg config.Config) *probe.Executor {
	prober := probe.NewHTTPProber(cfg.UpstreamURL, cfg.SiteURL, cfg.RequestTimeout)
	return probe.NewExecutor(logger.Named("probe"), prober, cfg.MaxRetries, cfg.RequestTimeout)
}

// newNotifier fans out to every configured channel.
func newNotifier(cfg config.Config) notify.Notifier {
	var m notify.Multi
	if tg := notify.NewTelegram(cfg.TelegramAPIBase, cfg.TelegramToken, cfg.ChatID); tg != nil {
		m = append(m, tg)
	}
	if sl := notify.NewSlack(cfg.SlackWebhook); sl != nil {
		m = append(m, sl)
	}
	if len(m) == 0 {
		return notify.Nop{}
	}
	return m
}
