package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/internal/domains/listing/model"
	gDto "rental/shared/dto"
	gRepo "rental/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Listing interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Listing, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Listing, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Listing]
}

func New(db *postgres.Connection, ot otel.Otel) Listing {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Listing](model.EntityName, model.TableName, model.FieldID, db, ot),
	}
}
