package mocks

import (
	"context"
	"rental/shared/worker"
	"sync"
)

// Pool runs every submitted task synchronously on the caller's goroutine and records its name.
type Pool struct {
	mu    sync.Mutex
	Names []string
	Errs  []error
}

// Submit implements worker.Pool.
func (p *Pool) Submit(ctx context.Context, name string, task worker.Task) bool {
	err := task(context.WithoutCancel(ctx))

	p.mu.Lock()
	defer p.mu.Unlock()

	p.Names = append(p.Names, name)
	p.Errs = append(p.Errs, err)

	return true
}

// Start implements worker.Pool.
func (p *Pool) Start(_ context.Context) {
}

// Shutdown implements worker.Pool.
func (p *Pool) Shutdown(_ context.Context) error {
	return nil
}

// Submitted returns a copy of the recorded task names.
func (p *Pool) Submitted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.Names...)
}

func NewPool() *Pool {
	return &Pool{}
}
