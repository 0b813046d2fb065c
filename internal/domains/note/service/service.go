package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"innkeep/config"
	"innkeep/infras/otel"
	historyModel "innkeep/internal/domains/history/model"
	historyService "innkeep/internal/domains/history/service"
	"innkeep/internal/domains/note/model"
	"innkeep/internal/domains/note/model/dto"
	"innkeep/internal/domains/note/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
)

const (
	cacheGetNotesByRoom = "note:room"
)

type Note interface {
	Add(ctx context.Context, req dto.AddNoteRequest) (dto.NoteResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateNoteRequest) (dto.NoteResponse, error)
	Delete(ctx context.Context, id string) error
	GetByRoom(ctx context.Context, roomID string) (dto.GetNotesResponse, error)
	CountByRooms(ctx context.Context, roomIDs []string) (map[string]int, error)
}

type serviceImpl struct {
	repo    repository.Note
	history historyService.History
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Note, history historyService.History, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Note {
	return &serviceImpl{
		repo:    repo,
		history: history,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Add(ctx context.Context, req dto.AddNoteRequest) (res dto.NoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddNote")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	if strings.TrimSpace(req.Body) == constant.Empty {
		return res, failure.BadRequestFromString("note body cannot be blank") // nolint:wrapcheck
	}

	note := req.ToModel(actor)

	if err = s.repo.Insert(ctx, note); err != nil {
		log.Error().Err(err).Str("roomID", note.RoomID).Msg("failed to add room note")

		return res, fmt.Errorf("failed to add room note: %w", err)
	}

	entry := historyModel.AuditEntry{
		RoomID:     note.RoomID,
		HotelID:    note.HotelID,
		ActorID:    &actor,
		ChangeType: historyModel.ChangeNotes,
		NewValue:   &note.Body,
	}

	if err = s.history.Record(ctx, entry); err != nil {
		log.Error().Err(err).Str("noteID", note.ID).Msg("note added but audit entry failed")

		return res, err
	}

	s.invalidate(ctx, note.RoomID)

	res.FromModel(note)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateNoteRequest) (res dto.NoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateNote")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	if strings.TrimSpace(req.Body) == constant.Empty {
		return res, failure.BadRequestFromString("note body cannot be blank") // nolint:wrapcheck
	}

	note, err := s.loadNote(ctx, id)
	if err != nil {
		return res, err
	}

	old := note.Body

	fields := map[string]any{
		model.FieldBody:          req.Body,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("noteID", id).Msg("failed to update room note")

		return res, fmt.Errorf("failed to update room note: %w", err)
	}

	entry := historyModel.AuditEntry{
		RoomID:     note.RoomID,
		HotelID:    note.HotelID,
		ActorID:    &actor,
		ChangeType: historyModel.ChangeNotes,
		OldValue:   &old,
		NewValue:   &req.Body,
	}

	if err = s.history.Record(ctx, entry); err != nil {
		log.Error().Err(err).Str("noteID", id).Msg("note updated but audit entry failed")

		return res, err
	}

	s.invalidate(ctx, note.RoomID)

	note.Body = req.Body
	note.ModifiedBy = actor
	res.FromModel(note)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteNote")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	note, err := s.loadNote(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("noteID", id).Msg("failed to delete room note")

		return fmt.Errorf("failed to delete room note: %w", err)
	}

	entry := historyModel.AuditEntry{
		RoomID:     note.RoomID,
		HotelID:    note.HotelID,
		ActorID:    &actor,
		ChangeType: historyModel.ChangeNotes,
		OldValue:   &note.Body,
	}

	if err = s.history.Record(ctx, entry); err != nil {
		log.Error().Err(err).Str("noteID", id).Msg("note deleted but audit entry failed")

		return err
	}

	s.invalidate(ctx, note.RoomID)

	return nil
}

func (s *serviceImpl) GetByRoom(ctx context.Context, roomID string) (res dto.GetNotesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetNotesByRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetNotesByRoom, roomID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room notes")

		return res, nil
	}

	params := gDto.QueryParams{
		SortBy:  constant.FieldCreatedAt,
		SortDir: "ASC",
	}

	notes, err := s.repo.GetAll(ctx, params, shared.FilterByID(roomID, model.FieldRoomID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("failed to get room notes")

		return res, fmt.Errorf("failed to get room notes: %w", err)
	}

	res.FromModels(notes)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room notes to cache")
		}
	}()

	return res, nil
}

// CountByRooms fans out one count per room. A failing room is logged
// and left out of the map; the other rooms still resolve.
func (s *serviceImpl) CountByRooms(ctx context.Context, roomIDs []string) (map[string]int, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountNotesByRooms")
	defer scope.End()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		counts = make(map[string]int, len(roomIDs))
	)

	for _, roomID := range roomIDs {
		wg.Add(1)

		go func(roomID string) {
			defer wg.Done()

			count, err := s.repo.Count(ctx, shared.FilterByID(roomID, model.FieldRoomID, model.TableName))
			if err != nil {
				log.Error().Err(err).Str("roomID", roomID).Msg("failed to count room notes")

				return
			}

			mu.Lock()
			counts[roomID] = count
			mu.Unlock()
		}(roomID)
	}

	wg.Wait()

	return counts, nil
}

func (s *serviceImpl) loadNote(ctx context.Context, id string) (model.RoomNote, error) {
	note, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("noteID", id).Msg("failed to get room note")

		return note, fmt.Errorf("failed to get room note: %w", err)
	}

	if note.ID == constant.Empty {
		return note, failure.NotFound("room note not found") // nolint:wrapcheck
	}

	return note, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, roomID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetNotesByRoom, roomID)); err != nil {
			log.Error().Err(err).Msg("failed to delete room notes cache")
		}
	}()
}

func actorFrom(ctx context.Context) (string, error) {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		return constant.Empty, failure.NotAuthenticated // nolint:wrapcheck
	}

	return actor, nil
}
