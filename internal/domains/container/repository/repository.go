package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"rolloff/infras/otel"
	"rolloff/infras/postgres"
	"rolloff/internal/domains/container/model"
	"rolloff/shared/constant"
	gDto "rolloff/shared/dto"
	gRepo "rolloff/shared/repository"
)

type ContainerType interface {
	Insert(ctx context.Context, model model.ContainerType) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.ContainerType, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ContainerType, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ListContainerTypes(ctx context.Context, visibleOnly bool) ([]model.ContainerType, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.ContainerType]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) ContainerType {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.ContainerType](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ListContainerTypes returns the whole catalog ordered by label, optionally restricted to visible types.
func (r *repositoryImpl) ListContainerTypes(ctx context.Context, visibleOnly bool) ([]model.ContainerType, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".container_type.ListContainerTypes")
	defer scope.End()

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if visibleOnly {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldVisible,
			Value:    true,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	params := gDto.QueryParams{SortBy: model.FieldLabel, SortDir: gDto.SortDirAsc}

	types, err := r.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list container types: %w", err)
	}

	return types, nil
}
