// Package scheduler periodically completes reservations whose end date has passed.
package scheduler

import (
	"context"
	"rental/config"
	"rental/infras/otel"
	"rental/internal/domains/reservation/service"
	"rental/shared/constant"
	"rental/shared/timezone"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultInterval = time.Hour

type Scheduler interface {
	Start(ctx context.Context)
	Stop()
}

type schedulerImpl struct {
	reservation service.Reservation
	interval    time.Duration
	enabled     bool
	today       func() time.Time
	otel        otel.Otel

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(reservation service.Reservation, cfg *config.Config, ot otel.Otel) Scheduler {
	interval := time.Duration(cfg.Scheduler.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}

	return newScheduler(reservation, ot, interval, cfg.Scheduler.Enable, timezone.Today)
}

func newScheduler(reservation service.Reservation, ot otel.Otel, interval time.Duration, enabled bool, today func() time.Time) *schedulerImpl {
	return &schedulerImpl{
		reservation: reservation,
		interval:    interval,
		enabled:     enabled,
		today:       today,
		otel:        ot,
	}
}

// Start runs one pass immediately and then one per interval until Stop or ctx ends.
func (s *schedulerImpl) Start(ctx context.Context) {
	if !s.enabled {
		log.Info().Msg("reservation scheduler disabled")

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)

	log.Info().Dur("interval", s.interval).Msg("reservation scheduler started")
}

func (s *schedulerImpl) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	log.Info().Msg("reservation scheduler stopped")
}

func (s *schedulerImpl) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *schedulerImpl) tick(ctx context.Context) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+".CompleteElapsed")
	defer scope.End()

	completed, err := s.reservation.CompleteElapsed(ctx, s.today())
	scope.SetAttribute("reservation.completed", completed)

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("completed", completed).Msg("failed to complete elapsed reservations")

		return
	}

	log.Debug().Int("completed", completed).Msg("scheduler tick")
}
