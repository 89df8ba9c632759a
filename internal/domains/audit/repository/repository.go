package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/internal/domains/audit/model"
	gDto "rental/shared/dto"
	gRepo "rental/shared/repository"
)

type Audit interface {
	Insert(ctx context.Context, model model.AuditEntry) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AuditEntry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AuditEntry, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Remove(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.AuditEntry]
}

func New(db *postgres.Connection, ot otel.Otel) Audit {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AuditEntry](model.EntityName, model.TableName, model.FieldID, db, ot),
	}
}
