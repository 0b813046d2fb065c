package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/membership/model"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"
)

type JoinRequest interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.JoinRequest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.JoinRequest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.JoinRequest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type joinRequestImpl struct {
	gRepo.Repository[model.JoinRequest]
	db   *postgres.Connection
	otel otel.Otel
}

func NewJoinRequest(db *postgres.Connection, otel otel.Otel) JoinRequest {
	return &joinRequestImpl{
		Repository: gRepo.NewRepository[model.JoinRequest](model.JoinRequestEntityName, model.JoinRequestTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type Membership interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Membership) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Membership, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Membership, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type membershipImpl struct {
	gRepo.Repository[model.Membership]
	db   *postgres.Connection
	otel otel.Otel
}

func NewMembership(db *postgres.Connection, otel otel.Otel) Membership {
	return &membershipImpl{
		Repository: gRepo.NewRepository[model.Membership](model.MembershipEntityName, model.MembershipTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
