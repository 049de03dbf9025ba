package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/slotwatch/internal/httpapi"
	apimw "github.com/hamed0406/slotwatch/internal/httpapi/middleware"
	"github.com/hamed0406/slotwatch/internal/logging"
	"github.com/hamed0406/slotwatch/internal/metrics"
	"github.com/hamed0406/slotwatch/internal/repo/memory"
	"github.com/hamed0406/slotwatch/internal/scheduler"
)

func newRunCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll the candidate dates until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadValid(load)
			if err != nil {
				return err
			}

			logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			sel, err := newSelector(cfg)
			if err != nil {
				return err
			}

			store := memory.New()
			alerter := scheduler.NewAlerter(logger.Named("alert"), store, newNotifier(cfg), scheduler.AlerterConfig{
				Unit:    cfg.Unit,
				Service: cfg.Service,
				SiteURL: cfg.SiteURL,
			})
			poller := scheduler.NewPoller(logger, sel, newExecutor(logger, cfg), alerter, scheduler.PollerConfig{
				Unit:             cfg.Unit,
				Service:          cfg.Service,
				ExplicitDates:    cfg.Dates,
				DateInterval:     cfg.DateInterval,
				RoundInterval:    cfg.RoundInterval,
				CooldownInterval: cfg.CooldownInterval,
			})

			if cfg.Addr != "" {
				api := httpapi.NewServer(logger.Named("api"), poller, store, prometheus.DefaultGatherer)
				keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
				srv := &http.Server{
					Addr:              cfg.Addr,
					Handler:           api.Router(keys, nil, cfg.PublicRPM, cfg.PublicBurst),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					logger.Info("api_listen", zap.String("addr", cfg.Addr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("api_listen_error", zap.Error(err))
					}
				}()
				defer func() {
					shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
					defer done()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
