package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/history/model"
	"innkeep/internal/domains/history/model/dto"
	"innkeep/internal/domains/history/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
)

const (
	cacheGetAllHistory = "history:gets"
	cacheCountHistory  = "history:count"
)

// History records room state changes and serves the activity feed.
// Entries pass through unmodified once written: there is no update or
// delete path here.
type History interface {
	Record(ctx context.Context, entry model.AuditEntry) error
	RecordMany(ctx context.Context, entries []model.AuditEntry) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAuditEntriesResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo  repository.History
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.History, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) History {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, entry model.AuditEntry) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()
	defer scope.TraceIfError(err)

	prepared, err := prepare(entry)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, prepared); err != nil {
		log.Error().Err(err).Str("roomID", entry.RoomID).Msg("failed to record audit entry")

		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// RecordMany validates every entry before inserting any: one bad change
// type aborts the whole batch.
func (s *serviceImpl) RecordMany(ctx context.Context, entries []model.AuditEntry) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordMany")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(entries) == 0 {
		return nil
	}

	prepared := make([]model.AuditEntry, len(entries))

	for i, entry := range entries {
		prepared[i], err = prepare(entry)
		if err != nil {
			return err
		}
	}

	if err = s.repo.InsertBulk(ctx, prepared); err != nil {
		log.Error().Err(err).Int("entries", len(entries)).Msg("failed to record audit entries")

		return fmt.Errorf("failed to record audit entries: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAuditEntriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllHistory, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for audit entries")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit entries")

		return res, fmt.Errorf("failed to count audit entries: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit entries")

		return res, fmt.Errorf("failed to get audit entries: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save audit entries to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit entries")

		return res, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return res, nil
}

func prepare(entry model.AuditEntry) (model.AuditEntry, error) {
	if !entry.ChangeType.Valid() {
		return entry, failure.BadRequestFromString(fmt.Sprintf("unknown audit event type: %s", entry.ChangeType)) // nolint:wrapcheck
	}

	if entry.ID == constant.Empty {
		entry.ID = uuid.NewString()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = timezone.Now()
	}

	return entry, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllHistory)
		shared.InvalidateCaches(c, s.cache, cacheCountHistory)
	}()
}
