package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/internal/domains/reservation/model"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	gRepo "rental/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

var activeOrder = gDto.QueryParams{SortBy: model.FieldStartDate, SortDir: gDto.SortDirAsc}

type Reservation interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	// GetActive returns the listing's active reservations that end after from.
	GetActive(ctx context.Context, listingID string, from time.Time) ([]model.Reservation, error)
	GetActiveTx(ctx context.Context, sqltx *sqlx.Tx, listingID string, from time.Time) ([]model.Reservation, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	otel otel.Otel
}

func New(db *postgres.Connection, ot otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, ot),
		otel:       ot,
	}
}

func (r *repositoryImpl) GetActive(ctx context.Context, listingID string, from time.Time) (res []model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetActive")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.GetAll(ctx, activeOrder, ActiveFilter(listingID, from))
	if err != nil {
		return nil, fmt.Errorf("failed to get active reservations: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) GetActiveTx(ctx context.Context, sqltx *sqlx.Tx, listingID string, from time.Time) (res []model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetActiveTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.GetAllTx(ctx, sqltx, activeOrder, ActiveFilter(listingID, from))
	if err != nil {
		return nil, fmt.Errorf("failed to get active reservations: %w", err)
	}

	return res, nil
}

// ActiveFilter matches reservations of listingID that still hold dates ending after from.
func ActiveFilter(listingID string, from time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldListingID,
				Operator: gDto.FilterOperatorEq,
				Value:    listingID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    string(model.StatusCancelled),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDeletedAt,
				Operator: gDto.FilterIsNull,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndDate,
				Operator: gDto.FilterOperatorGreater,
				Value:    from.Format(constant.DateOnlyFormat),
				Table:    model.TableName,
			},
		},
	}
}
