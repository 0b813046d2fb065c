package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"innkeep/config"
	"innkeep/infras/otel"
	historyModel "innkeep/internal/domains/history/model"
	historyService "innkeep/internal/domains/history/service"
	hotelService "innkeep/internal/domains/hotel/service"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
	"innkeep/shared/undo"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

const (
	auditFlagAdded   = "added: "
	auditFlagRemoved = "removed: "
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	CreateBatch(ctx context.Context, req dto.BatchCreateRoomsRequest) (int, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	SetOccupancy(ctx context.Context, id string, req dto.SetOccupancyRequest) (dto.RoomResponse, error)
	SetCleaning(ctx context.Context, id string, req dto.SetCleaningRequest) (dto.RoomResponse, error)
	CycleOccupancy(ctx context.Context, id string) (dto.RoomResponse, error)
	CycleCleaning(ctx context.Context, id string) (dto.RoomResponse, error)
	ToggleFlag(ctx context.Context, id string, req dto.ToggleFlagRequest) (dto.RoomResponse, error)
	MarkReady(ctx context.Context, id string) (dto.RoomResponse, error)
	UndoMarkReady(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Room
	hotels  hotelService.Hotel
	history historyService.History
	undo    *undo.Coordinator[model.CleaningStatus]
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(
	repo repository.Room,
	hotels hotelService.Hotel,
	history historyService.History,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:    repo,
		hotels:  hotels,
		history: history,
		undo:    undo.NewCoordinator[model.CleaningStatus](time.Duration(cfg.Workflow.UndoWindowSeconds) * time.Second),
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	room := req.ToModel(actor)

	if err = s.repo.Insert(ctx, room); err != nil {
		if isUniqueViolation(err) {
			return res, failure.Conflict(fmt.Sprintf("room %d already exists in this hotel", req.RoomNumber)) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	if err = s.history.Record(ctx, createdEntry(room, actor)); err != nil {
		log.Error().Err(err).Str("roomID", room.ID).Msg("room created but audit entry failed")

		return res, err
	}

	s.invalidateLists(ctx)

	res.FromModel(room)

	return res, nil
}

// CreateBatch generates one room per number covered by the ranges. The
// whole batch is validated first and inserted in a single statement, so
// a failure creates nothing.
func (s *serviceImpl) CreateBatch(ctx context.Context, req dto.BatchCreateRoomsRequest) (created int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBatch")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return 0, err
	}

	if err = model.ValidateRanges(req.Ranges); err != nil {
		return 0, failure.BadRequest(err) // nolint:wrapcheck
	}

	if _, err = s.hotels.Get(ctx, req.HotelID); err != nil {
		return 0, err
	}

	numbers := model.ExpandRanges(req.Ranges)
	rooms := make([]model.Room, len(numbers))
	entries := make([]historyModel.AuditEntry, len(numbers))

	for i, number := range numbers {
		create := dto.CreateRoomRequest{HotelID: req.HotelID, RoomNumber: number}
		rooms[i] = create.ToModel(actor)
		entries[i] = createdEntry(rooms[i], actor)
	}

	if err = s.repo.InsertBulk(ctx, rooms); err != nil {
		if isUniqueViolation(err) {
			return 0, failure.Conflict("one or more room numbers already exist in this hotel") // nolint:wrapcheck
		}

		log.Error().Err(err).Int("rooms", len(rooms)).Msg("failed to create room batch")

		return 0, fmt.Errorf("failed to create room batch: %w", err)
	}

	if err = s.history.RecordMany(ctx, entries); err != nil {
		log.Error().Err(err).Msg("room batch created but audit entries failed")

		return len(rooms), err
	}

	s.invalidateLists(ctx)

	return len(rooms), nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")
		s.decorateAll(&res)

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	s.decorateAll(&res)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)
	s.decorate(&res)

	return res, nil
}

// SetOccupancy applies any occupancy value; there is no transition
// graph. Setting the current value is a no-op: no audit entry and no
// write.
func (s *serviceImpl) SetOccupancy(ctx context.Context, id string, req dto.SetOccupancyRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetOccupancy")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	if !req.Status.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown occupancy status: %s", req.Status)) // nolint:wrapcheck
	}

	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return res, err
	}

	if room.OccupancyStatus == req.Status {
		res.FromModel(room)
		s.decorate(&res)

		return res, nil
	}

	if err = s.persistOccupancy(ctx, &room, req.Status, req.Note, actor); err != nil {
		return res, err
	}

	res.FromModel(room)
	s.decorate(&res)

	return res, nil
}

func (s *serviceImpl) SetCleaning(ctx context.Context, id string, req dto.SetCleaningRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetCleaning")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	if !req.Status.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown cleaning status: %s", req.Status)) // nolint:wrapcheck
	}

	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return res, err
	}

	if room.CleaningStatus == req.Status {
		res.FromModel(room)
		s.decorate(&res)

		return res, nil
	}

	if err = s.checkDNDPolicy(ctx, room); err != nil {
		return res, err
	}

	if err = s.persistCleaning(ctx, &room, req.Status, req.Note, actor); err != nil {
		return res, err
	}

	res.FromModel(room)
	s.decorate(&res)

	return res, nil
}

// CycleOccupancy advances the one-tap cycle: vacant, assigned, occupied
// and back to vacant. Stayover and checked-out rooms fold to vacant.
func (s *serviceImpl) CycleOccupancy(ctx context.Context, id string) (dto.RoomResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CycleOccupancy")
	defer scope.End()

	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return dto.RoomResponse{}, err
	}

	return s.SetOccupancy(ctx, id, dto.SetOccupancyRequest{Status: room.OccupancyStatus.Next()})
}

func (s *serviceImpl) CycleCleaning(ctx context.Context, id string) (dto.RoomResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CycleCleaning")
	defer scope.End()

	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return dto.RoomResponse{}, err
	}

	return s.SetCleaning(ctx, id, dto.SetCleaningRequest{Status: room.CleaningStatus.Next()})
}

func (s *serviceImpl) ToggleFlag(ctx context.Context, id string, req dto.ToggleFlagRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleFlag")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	if !req.Flag.Valid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown room flag: %s", req.Flag)) // nolint:wrapcheck
	}

	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return res, err
	}

	flags, added := model.ToggleFlag(room.Flags, req.Flag)

	fields := map[string]any{
		model.FieldFlags:        flags,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("roomID", id).Msg("failed to toggle room flag")

		return res, fmt.Errorf("failed to toggle room flag: %w", err)
	}

	// The activity feed parses the direction from which side carries a
	// value: additions populate new_value only, removals old_value only.
	entry := historyModel.AuditEntry{
		RoomID:     room.ID,
		HotelID:    room.HotelID,
		ActorID:    &actor,
		ChangeType: historyModel.ChangeFlags,
		Note:       req.Note,
	}

	if added {
		entry.NewValue = strPtr(auditFlagAdded + string(req.Flag))
	} else {
		entry.OldValue = strPtr(auditFlagRemoved + string(req.Flag))
	}

	if err = s.history.Record(ctx, entry); err != nil {
		log.Error().Err(err).Str("roomID", id).Msg("flag toggled but audit entry failed")

		return res, err
	}

	s.invalidate(ctx, room.ID)

	room.Flags = flags
	room.ModifiedBy = actor
	res.FromModel(room)
	s.decorate(&res)

	return res, nil
}

// MarkReady finishes cleaning and opens an undo window. Until the
// window expires, UndoMarkReady restores and persists the previous
// cleaning status.
func (s *serviceImpl) MarkReady(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkReady")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return res, err
	}

	if !room.CanMarkReady() {
		return res, failure.Conflict("room is not being cleaned") // nolint:wrapcheck
	}

	if err = s.checkDNDPolicy(ctx, room); err != nil {
		return res, err
	}

	settings, err := s.hotels.GetSettings(ctx, room.HotelID)
	if err != nil {
		return res, err
	}

	previous := room.CleaningStatus

	if err = s.persistCleaning(ctx, &room, model.CleaningReady, constant.Empty, actor); err != nil {
		return res, err
	}

	window := time.Duration(settings.UndoWindowSeconds) * time.Second

	s.undo.OpenFor(room.ID, previous, window, func(undoCtx context.Context, snapshot model.CleaningStatus) error {
		current, loadErr := s.loadRoom(undoCtx, room.ID)
		if loadErr != nil {
			return loadErr
		}

		undoActor, actorErr := actorFrom(undoCtx)
		if actorErr != nil {
			return actorErr
		}

		return s.persistCleaning(undoCtx, &current, snapshot, "undo mark ready", undoActor)
	})

	res.FromModel(room)
	s.decorate(&res)

	return res, nil
}

func (s *serviceImpl) UndoMarkReady(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UndoMarkReady")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = actorFrom(ctx); err != nil {
		return res, err
	}

	if err = s.undo.Undo(ctx, id); err != nil {
		return res, err
	}

	room, err := s.loadRoom(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)
	s.decorate(&res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateRoomRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	if _, err = s.loadRoom(ctx, id); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, actor)
	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete is administrative; rooms are not removed in the normal flow.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = actorFrom(ctx); err != nil {
		return err
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.undo.Cancel(id)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) loadRoom(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("roomID", id).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

// checkDNDPolicy blocks cleaning-status changes on do-not-disturb rooms
// when the owning hotel enables prevent_cleaning_with_dnd.
func (s *serviceImpl) checkDNDPolicy(ctx context.Context, room model.Room) error {
	if !room.HasFlag(model.FlagDND) {
		return nil
	}

	settings, err := s.hotels.GetSettings(ctx, room.HotelID)
	if err != nil {
		return err
	}

	if settings.PreventCleaningWithDND {
		return failure.Conflict("cleaning status changes are blocked while do-not-disturb is set") // nolint:wrapcheck
	}

	return nil
}

// persistCleaning writes the cleaning status and then the audit entry,
// in that order: a failed write must leave no audit trace.
func (s *serviceImpl) persistCleaning(ctx context.Context, room *model.Room, status model.CleaningStatus, note, actor string) error {
	old := string(room.CleaningStatus)

	fields := map[string]any{
		model.FieldCleaningStatus: status,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  actor,
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(room.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("roomID", room.ID).Msg("failed to update cleaning status")

		return fmt.Errorf("failed to update cleaning status: %w", err)
	}

	entry := historyModel.AuditEntry{
		RoomID:     room.ID,
		HotelID:    room.HotelID,
		ActorID:    &actor,
		ChangeType: historyModel.ChangeCleaningStatus,
		OldValue:   strPtr(old),
		NewValue:   strPtr(string(status)),
		Note:       note,
	}

	if err := s.history.Record(ctx, entry); err != nil {
		log.Error().Err(err).Str("roomID", room.ID).Msg("cleaning status updated but audit entry failed")

		return err
	}

	s.invalidate(ctx, room.ID)

	room.CleaningStatus = status
	room.ModifiedBy = actor

	return nil
}

func (s *serviceImpl) persistOccupancy(ctx context.Context, room *model.Room, status model.OccupancyStatus, note, actor string) error {
	old := string(room.OccupancyStatus)

	fields := map[string]any{
		model.FieldOccupancyStatus: status,
		constant.FieldModifiedAt:   timezone.Now(),
		constant.FieldModifiedBy:   actor,
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(room.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("roomID", room.ID).Msg("failed to update occupancy status")

		return fmt.Errorf("failed to update occupancy status: %w", err)
	}

	entry := historyModel.AuditEntry{
		RoomID:     room.ID,
		HotelID:    room.HotelID,
		ActorID:    &actor,
		ChangeType: historyModel.ChangeOccupancyStatus,
		OldValue:   strPtr(old),
		NewValue:   strPtr(string(status)),
		Note:       note,
	}

	if err := s.history.Record(ctx, entry); err != nil {
		log.Error().Err(err).Str("roomID", room.ID).Msg("occupancy status updated but audit entry failed")

		return err
	}

	s.invalidate(ctx, room.ID)

	room.OccupancyStatus = status
	room.ModifiedBy = actor

	return nil
}

func (s *serviceImpl) decorate(res *dto.RoomResponse) {
	if expires, ok := s.undo.ExpiresAt(res.ID); ok {
		res.PendingUndo = true
		res.UndoExpiresAt = timezone.Format(expires, constant.DateFormat)
	}
}

func (s *serviceImpl) decorateAll(res *dto.GetRoomsResponse) {
	for i := range res.Rooms {
		s.decorate(&res.Rooms[i])
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}

func createdEntry(room model.Room, actor string) historyModel.AuditEntry {
	return historyModel.AuditEntry{
		RoomID:     room.ID,
		HotelID:    room.HotelID,
		ActorID:    &actor,
		ChangeType: historyModel.ChangeCreated,
		NewValue:   strPtr(fmt.Sprintf("%d", room.RoomNumber)),
	}
}

func actorFrom(ctx context.Context) (string, error) {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		return constant.Empty, failure.NotAuthenticated // nolint:wrapcheck
	}

	return actor, nil
}

func strPtr(s string) *string {
	return &s
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}
