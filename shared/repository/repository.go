// Package repository is a generic sqlx table gateway. Columns come from the model's db tags;
// fields tagged table:"x" column:"y" are read from a joined table and aliased to their db tag.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/shared/constant"
	"rental/shared/dto"
	"rental/shared/logger"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("refusing to touch every row: filter required")

// Joiner is implemented by models that read columns from other tables.
type Joiner interface {
	GetJoinQuery() string
}

type column struct {
	name  string
	table string
	alias string
}

func (c column) selectExpr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return c.table + "." + c.name
	}
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if joiner, ok := any(zero).(Joiner); ok {
		join = joiner.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

// prepared traces query under op, prepares it on q and hands the statement to run.
func (repo *Repository[T]) prepared(ctx context.Context, q queryer, op, query string, run func(ctx context.Context, stmt *sqlx.NamedStmt) error) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := q.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to prepare %s (%s): %w", op, repo.entity, err)
	}
	defer stmt.Close()

	if err = run(ctx, stmt); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to %s (%s): %w", op, repo.entity, err)
	}

	return nil
}

// exec runs a write and reports the affected row count.
func (repo *Repository[T]) exec(ctx context.Context, q queryer, op, query string, arg any) (affected int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := q.NamedExecContext(ctx, query, arg)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to %s (%s): %w", op, repo.entity, err)
	}

	if affected, err = result.RowsAffected(); err != nil {
		return 0, fmt.Errorf("failed to read affected rows (%s): %w", repo.entity, err)
	}

	scope.SetAttribute("db.rows_affected", affected)

	return affected, nil
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	_, err := repo.exec(ctx, repo.db.Write, "insert", repo.insertQuery(), model)

	return err
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	_, err := repo.exec(ctx, sqltx, "insert", repo.insertQuery(), model)

	return err
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	exist := false
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)

	err := repo.prepared(ctx, repo.db.Read, "exist", query, func(ctx context.Context, stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args)
	})

	return exist, err
}

// get returns the zero model when no row matches. lock adds FOR UPDATE on the base table.
func (repo *Repository[T]) get(ctx context.Context, q queryer, filter dto.FilterGroup, lock bool, columns ...string) (T, error) {
	var model T

	where, args := repo.BuildWhereClause(filter)
	query := strings.Join(nonEmpty("SELECT", repo.selectList(columns...), "FROM", repo.table, repo.join, where), " ")

	if lock {
		query += " FOR UPDATE OF " + repo.table
	}

	err := repo.prepared(ctx, q, "get", query, func(ctx context.Context, stmt *sqlx.NamedStmt) error {
		if err := stmt.GetContext(ctx, &model, args); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err //nolint:wrapcheck
		}

		return nil
	})

	return model, err
}

func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, false, columns...)
}

func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, filter, false, columns...)
}

// GetForUpdateTx reads the row with SELECT ... FOR UPDATE, holding its lock until sqltx ends.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, filter, true, columns...)
}

func (repo *Repository[T]) getAll(ctx context.Context, q queryer, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := repo.BuildWhereClause(filter)

	var ordering, pagination string

	if sortColumn := repo.sortColumn(params.SortBy); sortColumn != "" {
		dir := dto.SortDirAsc
		if strings.EqualFold(params.SortDir, dto.SortDirDesc) {
			dir = dto.SortDirDesc
		}

		// primary key as tiebreaker keeps pages stable
		ordering = fmt.Sprintf("ORDER BY %s %s, %s.%s %s", sortColumn, dir, repo.table, repo.primaryColumn, dir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"

		if offset := params.Offset(); offset > 0 {
			args["offset"] = offset
			pagination += " OFFSET :offset"
		}
	}

	query := strings.Join(nonEmpty("SELECT", repo.selectList(columns...), "FROM", repo.table, repo.join, where, ordering, pagination), " ")

	var models []T

	err := repo.prepared(ctx, q, "list", query, func(ctx context.Context, stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})

	return models, err
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, repo.db.Read, params, filter, columns...)
}

func (repo *Repository[T]) GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, sqltx, params, filter, columns...)
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := repo.BuildWhereClause(filter)
	query := strings.Join(nonEmpty(fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s", repo.table, repo.primaryColumn, repo.table), repo.join, where), " ")

	var count int

	err := repo.prepared(ctx, repo.db.Read, "count", query, func(ctx context.Context, stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})

	return count, err
}

func (repo *Repository[T]) remove(ctx context.Context, q queryer, filter dto.FilterGroup) (int64, error) {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	return repo.exec(ctx, q, "delete", fmt.Sprintf("DELETE FROM %s %s", repo.table, where), args)
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	_, err := repo.remove(ctx, repo.db.Write, filter)

	return err
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	_, err := repo.remove(ctx, sqltx, filter)

	return err
}

// Remove deletes matching rows and returns the number removed.
func (repo *Repository[T]) Remove(ctx context.Context, filter dto.FilterGroup) (int64, error) {
	return repo.remove(ctx, repo.db.Write, filter)
}

func (repo *Repository[T]) update(ctx context.Context, q queryer, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	assignments := make([]string, 0, len(mod))

	// SET values get their own prefix so a column can be both filtered and assigned.
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, fmt.Sprintf("%s = :set_%s", col, col))
		args["set_"+col] = mod[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)

	return repo.exec(ctx, q, "update", query, args)
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	_, err := repo.update(ctx, repo.db.Write, mod, filter)

	return err
}

// UpdateTx returns the number of rows changed so callers can detect a lost row.
func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	return repo.update(ctx, sqltx, mod, filter)
}

// selectList renders the column list, optionally narrowed to the given db names.
func (repo *Repository[T]) selectList(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) && !slices.Contains(only, col.alias) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

// sortColumn resolves a requested sort key against the known columns so free text never reaches ORDER BY.
func (repo *Repository[T]) sortColumn(sortBy string) string {
	if sortBy == "" {
		return ""
	}

	for _, col := range repo.columns {
		if (col.table == repo.table && col.name == sortBy) || (col.alias != "" && col.alias == sortBy) {
			return col.table + "." + col.name
		}
	}

	return ""
}

// BuildWhereClause renders filter as "WHERE ...", or "" with empty args when it has no predicates.
func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func nonEmpty(parts ...string) []string {
	return slices.DeleteFunc(parts, func(part string) bool { return part == "" })
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" {
			source = table
		}

		if source == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			columns = append(columns, column{name: name, table: source, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: source})
		}
	}

	return columns, insertColumns
}
