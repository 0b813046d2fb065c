package repository

import (
	"context"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/history/model"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"
)

// History is intentionally append-only: no Update or Delete surface.
type History interface {
	Insert(ctx context.Context, model model.AuditEntry) error
	InsertBulk(ctx context.Context, models []model.AuditEntry) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AuditEntry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AuditEntry, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.AuditEntry]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) History {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AuditEntry](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
