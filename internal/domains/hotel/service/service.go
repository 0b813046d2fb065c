package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/hotel/model"
	"innkeep/internal/domains/hotel/model/dto"
	"innkeep/internal/domains/hotel/repository"
	"innkeep/shared"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
)

type Hotel interface {
	Create(ctx context.Context, req dto.CreateHotelRequest) (dto.HotelResponse, error)
	Get(ctx context.Context, id string) (dto.HotelResponse, error)
	GetSettings(ctx context.Context, hotelID string) (model.Settings, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, hotelID string) error
}

type serviceImpl struct {
	repo         repository.Hotel
	settingsRepo repository.Settings
	cfg          *config.Config
	otel         otel.Otel
}

func New(repo repository.Hotel, settingsRepo repository.Settings, cfg *config.Config, otel otel.Otel) Hotel {
	return &serviceImpl{
		repo:         repo,
		settingsRepo: settingsRepo,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHotelRequest) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.NotAuthenticated // nolint:wrapcheck
	}

	hotel := req.ToModel(user)

	if err = s.repo.Insert(ctx, hotel); err != nil {
		log.Error().Err(err).Msg("failed to create hotel")

		return res, fmt.Errorf("failed to create hotel: %w", err)
	}

	settings := model.Settings{
		HotelID:                hotel.ID,
		PreventCleaningWithDND: s.cfg.Workflow.PreventCleaningWithDND,
		UndoWindowSeconds:      s.cfg.Workflow.UndoWindowSeconds,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if err = s.settingsRepo.Insert(ctx, settings); err != nil {
		log.Error().Err(err).Str("hotelID", hotel.ID).Msg("failed to create hotel settings")

		return res, fmt.Errorf("failed to create hotel settings: %w", err)
	}

	res.FromModel(hotel)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	hotel, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return res, fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == constant.Empty {
		return res, failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	res.FromModel(hotel)

	return res, nil
}

// GetSettings resolves the workflow settings for a hotel, falling back
// to the application defaults when the hotel has no settings row.
func (s *serviceImpl) GetSettings(ctx context.Context, hotelID string) (res model.Settings, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSettings")
	defer scope.End()
	defer scope.TraceIfError(err)

	settings, err := s.settingsRepo.Get(ctx, shared.FilterByID(hotelID, model.FieldHotelID, model.SettingsTableName))
	if err != nil {
		log.Error().Err(err).Str("hotelID", hotelID).Msg("failed to get hotel settings")

		return res, fmt.Errorf("failed to get hotel settings: %w", err)
	}

	if settings.HotelID == constant.Empty {
		return model.Settings{
			HotelID:                hotelID,
			PreventCleaningWithDND: s.cfg.Workflow.PreventCleaningWithDND,
			UndoWindowSeconds:      s.cfg.Workflow.UndoWindowSeconds,
		}, nil
	}

	return settings, nil
}

func (s *serviceImpl) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, hotelID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateSettings")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateSettingsRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return failure.NotAuthenticated // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(hotelID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if hotel exists")

		return fmt.Errorf("failed to check if hotel exists: %w", err)
	}

	if !exist {
		return failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	filter := shared.FilterByID(hotelID, model.FieldHotelID, model.SettingsTableName)
	if err = s.settingsRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update hotel settings")

		return fmt.Errorf("failed to update hotel settings: %w", err)
	}

	return nil
}
