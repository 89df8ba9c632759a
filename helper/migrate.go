// Package helper drives schema migrations for the write database.
package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"rental/config"
	"slices"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

var ErrUnknownAction = errors.New("unknown migration action")

type action struct {
	run  func(mig *migrate.Migrate) error
	done string
}

var actions = map[string]action{
	"up":      {run: (*migrate.Migrate).Up, done: "migrations applied"},
	"step-up": {run: func(mig *migrate.Migrate) error { return mig.Steps(1) }, done: "one migration applied"},
	"down":    {run: func(mig *migrate.Migrate) error { return mig.Steps(-1) }, done: "one migration rolled back"},
	"drop":    {run: (*migrate.Migrate).Down, done: "all migrations rolled back"},
	"version": {run: logVersion},
}

// Actions lists the accepted action names, sorted.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func databaseURL(cfg *config.Config) string {
	settings := cfg.DB.Postgres
	dsn := settings.Write.URL(settings.Prefix)

	if settings.MigrationTable != "" {
		query := dsn.Query()
		query.Set("x-migrations-table", settings.MigrationTable)
		dsn.RawQuery = query.Encode()
	}

	return dsn.String()
}

// Run applies one named action against the write database. Nothing to do is not an error.
func Run(cfg *config.Config, name string) error {
	act, ok := actions[name]
	if !ok {
		return fmt.Errorf("%w %q, expected one of %s", ErrUnknownAction, name, strings.Join(Actions(), ", "))
	}

	mig, err := migrate.New(migrationsSource, databaseURL(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrator")
		}
	}()

	if err = act.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", name, err)
	}

	if act.done != "" {
		log.Info().Str("action", name).Msg(act.done)
	}

	return nil
}

func Up(cfg *config.Config) error {
	return Run(cfg, "up")
}

func logVersion(mig *migrate.Migrate) error {
	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Msg("no migrations applied yet")

		return nil
	}

	if err != nil {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")

	return nil
}
