package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rental/infras/otel"
	"rental/infras/postgres"
	"rental/internal/domains/user/model"
	gDto "rental/shared/dto"
	gRepo "rental/shared/repository"
)

// User only reads accounts; writes belong to the identity service.
type User interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, ot otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, ot),
	}
}
