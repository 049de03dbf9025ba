package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/slotwatch/internal/dates"
	"github.com/hamed0406/slotwatch/internal/domain"
	"github.com/hamed0406/slotwatch/internal/metrics"
	"github.com/hamed0406/slotwatch/internal/probe"
)

// Executor issues one probe with whatever retry policy it carries.
type Executor interface {
	Execute(ctx context.Context, req domain.ProbeRequest) (probe.RawResponse, error)
}

type PollerConfig struct {
	Unit          string
	Service       string
	ExplicitDates []string

	DateInterval     time.Duration // between probed dates
	RoundInterval    time.Duration // after a round without slots
	CooldownInterval time.Duration // after a round that found a slot
}

// Status is a point-in-time view of the loop for the status API.
type Status struct {
	StartedAt   time.Time           `json:"started_at"`
	Rounds      int                 `json:"rounds"`
	InRound     bool                `json:"in_round"`
	LastRound   *domain.RoundResult `json:"last_round,omitempty"`
	NextRoundAt time.Time           `json:"next_round_at"`
}

// Poller drives rounds forever. All probing happens on the goroutine that
// calls Run; only the status snapshot is shared.
type Poller struct {
	Logger   *zap.Logger
	Selector *dates.Selector
	Executor Executor
	Alerter  *Alerter
	Sleeper  probe.Sleeper
	Now      func() time.Time
	NewID    func() string
	cfg      PollerConfig

	mu     sync.RWMutex
	status Status
}

func NewPoller(
	logger *zap.Logger,
	sel *dates.Selector,
	exec Executor,
	alerter *Alerter,
	cfg PollerConfig,
) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		Logger:   logger,
		Selector: sel,
		Executor: exec,
		Alerter:  alerter,
		Sleeper:  probe.RealSleeper,
		Now:      time.Now,
		NewID:    uuid.NewString,
		cfg:      cfg,
	}
}

// Run alternates rounds and sleeps until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.mu.Lock()
	p.status.StartedAt = p.Now()
	p.mu.Unlock()

	p.Logger.Info("poller_started",
		zap.String("unit", p.cfg.Unit),
		zap.String("service", p.cfg.Service),
	)
	for {
		res := p.RunRound(ctx)
		if ctx.Err() != nil {
			p.Logger.Info("poller_stopped")
			return ctx.Err()
		}

		wait := p.NextInterval(res.Found)
		p.mu.Lock()
		p.status.NextRoundAt = p.Now().Add(wait)
		p.mu.Unlock()

		if res.Found {
			p.Logger.Info("cooldown_after_alert", zap.Duration("sleep", wait))
		} else {
			p.Logger.Info("waiting_next_round", zap.Duration("sleep", wait))
		}
		if err := p.Sleeper.Sleep(ctx, wait); err != nil {
			p.Logger.Info("poller_stopped")
			return err
		}
	}
}

// NextInterval picks the cool-down after a hit, the round interval otherwise.
func (p *Poller) NextInterval(found bool) time.Duration {
	if found {
		return p.cfg.CooldownInterval
	}
	return p.cfg.RoundInterval
}

// RunRound probes the selected dates in order and stops at the first
// available one, whether or not it produced a new alert.
func (p *Poller) RunRound(ctx context.Context) (res domain.RoundResult) {
	res = domain.RoundResult{ID: p.NewID(), StartedAt: p.Now()}
	p.setInRound(true)
	defer func() {
		res.FinishedAt = p.Now()
		if ctx.Err() == nil {
			metrics.ObserveRound(res.Found)
		}
		p.finishRound(res)
	}()

	log := p.Logger.With(zap.String("round_id", res.ID))

	targets, err := p.Selector.Select(p.cfg.ExplicitDates)
	if err != nil {
		log.Error("date_selection_error", zap.Error(err))
		return res
	}
	log.Info("round_started", zap.Int("dates", len(targets)))

	for _, d := range targets {
		if ctx.Err() != nil {
			return res
		}
		dr := domain.DateResult{Date: d}

		raw, err := p.Executor.Execute(ctx, domain.ProbeRequest{Unit: p.cfg.Unit, Service: p.cfg.Service, Date: d})
		if err != nil {
			if ctx.Err() != nil {
				return res
			}
			metrics.ObserveProbe(metrics.ProbeExhausted)
			dr.Error = err.Error()
			res.Dates = append(res.Dates, dr)
			if errors.Is(err, probe.ErrRetriesExhausted) {
				log.Error("probe_failed", zap.String("date", d.String()), zap.Error(err))
			} else {
				log.Error("probe_unexpected_error", zap.String("date", d.String()), zap.Error(err))
			}
			if !p.pace(ctx) {
				return res
			}
			continue
		}

		out := probe.Interpret(raw.Body)
		metrics.ObserveProbe(out.Verdict.String())
		dr.Outcome = &out

		if out.Available() {
			dr.Alerted = p.Alerter.ConsiderAlert(ctx, d, out)
			res.Dates = append(res.Dates, dr)
			res.Found = true
			log.Info("round_done", zap.Bool("found", true), zap.String("date", d.String()), zap.Bool("alerted", dr.Alerted))
			return res
		}

		res.Dates = append(res.Dates, dr)
		log.Info("probe_result",
			zap.String("date", d.String()),
			zap.Stringer("verdict", out.Verdict),
			zap.String("message", out.Message),
		)
		if !p.pace(ctx) {
			return res
		}
	}
	log.Info("round_done", zap.Bool("found", false))
	return res
}

func (p *Poller) pace(ctx context.Context) bool {
	return p.Sleeper.Sleep(ctx, p.cfg.DateInterval) == nil
}

func (p *Poller) setInRound(v bool) {
	p.mu.Lock()
	p.status.InRound = v
	p.mu.Unlock()
}

func (p *Poller) finishRound(res domain.RoundResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.InRound = false
	p.status.Rounds++
	p.status.LastRound = &res
}

// Status returns a copy safe to hand to another goroutine.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.status
	if s.LastRound != nil {
		lr := *s.LastRound
		lr.Dates = append([]domain.DateResult(nil), lr.Dates...)
		s.LastRound = &lr
	}
	return s
}
