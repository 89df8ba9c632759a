package postgres

//nolint:revive
import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"rental/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection splits traffic between a read replica and the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Transactor runs fn inside a single write transaction. The transaction is committed when fn
// returns nil and rolled back on any error or panic, so row locks taken inside fn never outlive it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  Connect("read", cfg, cfg.DB.Postgres.Read),
		Write: Connect("write", cfg, cfg.DB.Postgres.Write),
	}
}

func NewTransactor(conn *Connection) Transactor {
	return conn
}

func (c *Connection) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transaction panicked: %v", r)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Connect dials node, retrying up to MaxRetry times, and applies the pool limits.
// It returns nil when every attempt fails; callers treat that as fatal at startup.
func Connect(role string, cfg *config.Config, node config.PostgresNode) *sqlx.DB {
	settings := cfg.DB.Postgres
	dsn := node.URL(settings.Prefix).String()
	attempts := max(settings.MaxRetry, 1)

	logger := log.With().
		Str("role", role).
		Str("host", node.Host).
		Str("port", node.Port).
		Str("database", settings.Prefix+node.Name).
		Logger()

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxOpenConns(settings.MaxOpenConns)
			db.SetMaxIdleConns(settings.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(settings.ConnMaxLifetimeMinute) * time.Minute)

			logger.Info().Msg("connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Int("of", attempts).Msg("failed connecting to database")

		if attempt < attempts {
			time.Sleep(time.Duration(settings.RetryWaitTime) * time.Second)
		}
	}

	return nil
}
