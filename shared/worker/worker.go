// Package worker runs fire-and-forget side effects on a fixed set of goroutines.
//
// Submit never blocks: when the queue is full the task is dropped and logged, so delivery is
// at-most-once. Each task gets a context detached from the caller's cancellation plus its own
// timeout.
package worker

import (
	"context"
	"errors"
	"fmt"
	"rental/config"
	"rental/infras/otel"
	"rental/shared/constant"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrPoolClosed = errors.New("worker pool closed")

type Task func(ctx context.Context) error

type Pool interface {
	Submit(ctx context.Context, name string, task Task) bool
	Start(ctx context.Context)
	Shutdown(ctx context.Context) error
}

type job struct {
	ctx  context.Context
	name string
	task Task
}

type pool struct {
	size    int
	timeout time.Duration
	queue   chan job
	otel    otel.Otel

	mu      sync.RWMutex
	closed  bool
	started bool
	group   *errgroup.Group
}

func New(cfg *config.Config, ot otel.Otel) Pool {
	size := max(cfg.Worker.Size, 1)
	queueSize := max(cfg.Worker.QueueSize, 1)

	timeout := time.Duration(cfg.Worker.TaskTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &pool{
		size:    size,
		timeout: timeout,
		queue:   make(chan job, queueSize),
		otel:    ot,
	}
}

func (p *pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.closed {
		return
	}

	group, gctx := errgroup.WithContext(ctx)

	for id := range p.size {
		group.Go(func() error {
			return p.loop(gctx, id)
		})
	}

	p.group = group
	p.started = true

	log.Info().Int("workers", p.size).Int("queue", cap(p.queue)).Msg("Worker pool started")
}

func (p *pool) Submit(ctx context.Context, name string, task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		log.Warn().Str("task", name).Err(ErrPoolClosed).Msg("dropping task")

		return false
	}

	select {
	case p.queue <- job{ctx: context.WithoutCancel(ctx), name: name, task: task}:
		return true
	default:
		log.Error().Str("task", name).Int("queue", cap(p.queue)).Msg("worker queue full, dropping task")

		return false
	}
}

// Shutdown stops accepting tasks, drains what is queued and waits for the workers or ctx.
func (p *pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()

		return nil
	}

	p.closed = true
	close(p.queue)
	group := p.group
	p.mu.Unlock()

	if group == nil {
		return nil
	}

	done := make(chan error, 1)

	go func() {
		done <- group.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("waiting for workers: %w", ctx.Err())
	}
}

func (p *pool) loop(ctx context.Context, id int) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j, ok := <-p.queue:
			if !ok {
				return nil
			}

			p.run(id, j)
		}
	}
}

func (p *pool) run(id int, j job) {
	ctx, cancel := context.WithTimeout(j.ctx, p.timeout)
	defer cancel()

	ctx, scope := p.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+"."+j.name)
	defer scope.End()

	scope.SetAttribute("worker.id", id)

	defer func() {
		if r := recover(); r != nil {
			scope.TraceError(fmt.Errorf("task %s panicked: %v", j.name, r))
			log.Error().Int("worker", id).Str("task", j.name).Interface("panic", r).Msg("task panicked")
		}
	}()

	if err := j.task(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("worker", id).Str("task", j.name).Msg("task failed")

		return
	}

	log.Debug().Int("worker", id).Str("task", j.name).Msg("task done")
}
