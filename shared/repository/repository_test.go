package repository

import (
	"context"
	"regexp"
	"rental/infras/otel/mocks"
	"rental/infras/postgres"
	"rental/shared/dto"
	"rental/shared/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gadget struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	OwnerID   string  `db:"owner_id"`
	OwnerName *string `column:"full_name" db:"owner_name" table:"users"`
	model.Metadata
}

func (gadget) GetJoinQuery() string {
	return "LEFT JOIN users ON users.id = gadgets.owner_id"
}

func newGadgets(t *testing.T) (Repository[gadget], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	conn := sqlx.NewDb(db, "postgres")

	return NewRepository[gadget]("gadget", "gadgets", "id", &postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func byName(name string) dto.FilterGroup {
	return dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "name", Operator: dto.FilterOperatorEq, Value: name, Table: "gadgets"},
	}}
}

func TestColumnsFromTags(t *testing.T) {
	repo, _ := newGadgets(t)

	assert.Equal(t, []string{"id", "name", "owner_id", "created_at", "modified_at", "created_by", "modified_by"}, repo.InsertColumns)
	assert.Equal(t, "gadgets.id, gadgets.name, users.full_name AS owner_name", repo.selectList("id", "name", "owner_name"))
	assert.Equal(t, "INSERT INTO gadgets (id, name, owner_id, created_at, modified_at, created_by, modified_by) VALUES (:id, :name, :owner_id, :created_at, :modified_at, :created_by, :modified_by)", repo.insertQuery())
}

func TestSortColumn(t *testing.T) {
	repo, _ := newGadgets(t)

	assert.Equal(t, "gadgets.name", repo.sortColumn("name"))
	assert.Equal(t, "users.full_name", repo.sortColumn("owner_name"))
	assert.Empty(t, repo.sortColumn("full_name"))
	assert.Empty(t, repo.sortColumn("name; DROP TABLE gadgets"))
}

func TestGetAll(t *testing.T) {
	repo, mock := newGadgets(t)

	query := `SELECT gadgets.id, gadgets.name, users.full_name AS owner_name FROM gadgets LEFT JOIN users ON users.id = gadgets.owner_id ` +
		`WHERE (gadgets.name = $1) ORDER BY gadgets.name DESC, gadgets.id DESC LIMIT $2 OFFSET $3`

	mock.ExpectPrepare(regexp.QuoteMeta(query)).
		ExpectQuery().
		WithArgs("lamp", 5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_name"}).AddRow("g-1", "lamp", "Ana"))

	got, err := repo.GetAll(context.Background(), dto.QueryParams{Page: 3, Limit: 5, SortBy: "name", SortDir: "desc"}, byName("lamp"), "id", "name", "owner_name")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "g-1", got[0].ID)
	require.NotNil(t, got[0].OwnerName)
	assert.Equal(t, "Ana", *got[0].OwnerName)
}

func TestGetMissingRowIsZero(t *testing.T) {
	repo, mock := newGadgets(t)

	mock.ExpectPrepare(regexp.QuoteMeta("FROM gadgets LEFT JOIN users ON users.id = gadgets.owner_id WHERE (gadgets.name = $1)")).
		ExpectQuery().
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.Get(context.Background(), byName("ghost"), "id")

	require.NoError(t, err)
	assert.Equal(t, gadget{}, got)
}

func TestGetForUpdateLocksBaseTable(t *testing.T) {
	repo, mock := newGadgets(t)

	query := `SELECT gadgets.id, users.full_name AS owner_name FROM gadgets LEFT JOIN users ON users.id = gadgets.owner_id ` +
		`WHERE (gadgets.name = $1) FOR UPDATE OF gadgets`

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(query)).
		ExpectQuery().
		WithArgs("lamp").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_name"}).AddRow("g-1", "Ana"))
	mock.ExpectRollback()

	sqltx, err := repo.db.Write.Beginx()
	require.NoError(t, err)

	got, err := repo.GetForUpdateTx(context.Background(), sqltx, byName("lamp"), "id", "owner_name")
	require.NoError(t, err)
	require.NoError(t, sqltx.Rollback())

	assert.Equal(t, "g-1", got.ID)
	require.NotNil(t, got.OwnerName)
	assert.Equal(t, "Ana", *got.OwnerName)
}

func TestUpdate(t *testing.T) {
	repo, mock := newGadgets(t)

	at := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE gadgets SET modified_at = $1, name = $2 WHERE (gadgets.name = $3)")).
		WithArgs(at, "desk lamp", "lamp").
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.update(context.Background(), repo.db.Write, map[string]any{"name": "desk lamp", "modified_at": at}, byName("lamp"))

	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestWritesRequireFilter(t *testing.T) {
	repo, _ := newGadgets(t)

	_, err := repo.Remove(context.Background(), dto.FilterGroup{})
	require.ErrorIs(t, err, errRequiredFilter)

	err = repo.Update(context.Background(), map[string]any{"name": "x"}, dto.FilterGroup{})
	require.ErrorIs(t, err, errRequiredFilter)

	_, err = repo.Exist(context.Background(), dto.FilterGroup{})
	require.ErrorIs(t, err, errRequiredFilter)
}
