package repository

import (
	"context"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/note/model"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"
)

type Note interface {
	Insert(ctx context.Context, model model.RoomNote) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomNote, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomNote, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type noteImpl struct {
	gRepo.Repository[model.RoomNote]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Note {
	return &noteImpl{
		Repository: gRepo.NewRepository[model.RoomNote](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
