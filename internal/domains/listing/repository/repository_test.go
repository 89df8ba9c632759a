package repository_test

import (
	"context"
	"regexp"
	"rental/infras/otel/mocks"
	"rental/infras/postgres"
	"rental/internal/domains/listing/model"
	"rental/internal/domains/listing/repository"
	"rental/shared"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingRepository_GetForUpdateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	conn := sqlx.NewDb(db, "postgres")
	repo := repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel())

	query := `SELECT listings.id, listings.owner_id, listings.title, listings.day_rate, listings.status, listings.available, ` +
		`listings.created_at, listings.modified_at, listings.created_by, listings.modified_by ` +
		`FROM listings WHERE (listings.id = $1) FOR UPDATE OF listings`

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(query)).
		ExpectQuery().
		WithArgs("listing-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "day_rate", "status", "available"}).
			AddRow("listing-1", "Camera", "25.00", model.StatusActive, true))
	mock.ExpectCommit()

	sqltx, err := conn.Beginx()
	require.NoError(t, err)

	listing, err := repo.GetForUpdateTx(context.Background(), sqltx, shared.FilterByID("listing-1", model.FieldID, model.TableName))
	require.NoError(t, err)
	require.NoError(t, sqltx.Commit())

	assert.Equal(t, "listing-1", listing.ID)
	assert.True(t, listing.DayRate.Equal(decimal.NewFromInt(25)))
	assert.True(t, listing.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_GetDoesNotLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	conn := sqlx.NewDb(db, "postgres")
	repo := repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel())

	mock.ExpectPrepare(`^SELECT listings\.id FROM listings WHERE \(listings\.id = \$1\)$`).
		ExpectQuery().
		WithArgs("listing-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("listing-1"))

	listing, err := repo.Get(context.Background(), shared.FilterByID("listing-1", model.FieldID, model.TableName), model.FieldID)
	require.NoError(t, err)

	assert.Equal(t, "listing-1", listing.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
