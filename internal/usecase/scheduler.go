package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"tradebot/internal/domain"
	"tradebot/internal/metrics"
)

const snapshotQueueSize = 5

// Scheduler drives the trader on a fixed interval. Ticks never overlap: the
// next one starts only after the previous one returns. Snapshots flow to the
// chart feed through a bounded queue; when the consumer falls behind, the
// newest snapshot is dropped rather than stalling the trading loop.
type Scheduler struct {
	trader   *Trader
	interval time.Duration
	log      *logrus.Logger

	paused    atomic.Bool
	snapshots chan *domain.ChartSnapshot
}

func NewScheduler(trader *Trader, interval time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		trader:    trader,
		interval:  interval,
		log:       log,
		snapshots: make(chan *domain.ChartSnapshot, snapshotQueueSize),
	}
}

// Snapshots is the chart feed. It is closed when Run returns.
func (s *Scheduler) Snapshots() <-chan *domain.ChartSnapshot {
	return s.snapshots
}

// TogglePause flips the pause flag and returns the new state. A paused
// scheduler keeps ticking the clock but skips the decision cycle, so resuming
// takes effect on the next tick without restarting anything.
func (s *Scheduler) TogglePause() bool {
	next := !s.paused.Load()
	s.paused.Store(next)
	metrics.SetPaused(next)
	s.log.WithField("paused", next).Info("pause toggled")
	return next
}

// Paused reports the current pause state.
func (s *Scheduler) Paused() bool {
	return s.paused.Load()
}

// Run ticks immediately, then on every interval until the context is
// canceled. The snapshot channel is closed on return so the feed consumer
// can drain and exit.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.snapshots)

	s.runTick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

func (s *Scheduler) runTick(ctx context.Context) {
	if s.paused.Load() {
		metrics.IncTick("skipped")
		return
	}

	snapshot, err := s.trader.Tick(ctx)
	if err != nil {
		metrics.IncTick("error")

		var venueErr *domain.VenueError
		var persistErr *domain.PersistenceError
		switch {
		case errors.As(err, &venueErr):
			s.log.WithError(err).Warn("tick aborted on venue error, retrying next interval")
		case errors.As(err, &persistErr):
			s.log.WithError(err).Error("tick aborted on ledger error, retrying next interval")
		default:
			s.log.WithError(err).Error("tick aborted")
		}
		return
	}

	metrics.IncTick("ok")

	select {
	case s.snapshots <- snapshot:
	default:
		metrics.IncSnapshotsDropped()
		s.log.Debug("snapshot queue full, dropping frame")
	}
}
