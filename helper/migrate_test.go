package helper

import (
	"net/url"
	"rental/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "staging_"
	cfg.DB.Postgres.MigrationTable = "rental_migrations"
	cfg.DB.Postgres.Write = config.PostgresNode{
		Host:     "db.internal",
		Port:     "5433",
		Username: "rental",
		Password: "p@ss:word/1",
		Name:     "rental",
		SSLMode:  "require",
	}

	parsed, err := url.Parse(databaseURL(cfg))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5433", parsed.Host)
	assert.Equal(t, "/staging_rental", parsed.Path)
	assert.Equal(t, "p@ss:word/1", password)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
	assert.Equal(t, "rental_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestRunRejectsUnknownAction(t *testing.T) {
	err := Run(&config.Config{}, "sideways")

	require.ErrorIs(t, err, ErrUnknownAction)
	assert.Contains(t, err.Error(), "down, drop, step-up, up, version")
}

func TestActions(t *testing.T) {
	assert.Equal(t, []string{"down", "drop", "step-up", "up", "version"}, Actions())
}
