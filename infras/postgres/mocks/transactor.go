package mocks

import (
	"context"
	"rental/infras/postgres"
	"sync"

	"github.com/jmoiron/sqlx"
)

// transactorImpl runs every transaction under one mutex, the in-process equivalent of the
// row lock taken by the real implementation. fn receives a nil *sqlx.Tx.
type transactorImpl struct {
	mu    sync.Mutex
	begin error
}

// WithTransaction implements postgres.Transactor.
func (t *transactorImpl) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if t.begin != nil {
		return t.begin
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return fn(nil)
}

func NewTransactor() postgres.Transactor {
	return &transactorImpl{}
}

// NewFailingTransactor returns a transactor whose BEGIN always fails with err.
func NewFailingTransactor(err error) postgres.Transactor {
	return &transactorImpl{begin: err}
}
