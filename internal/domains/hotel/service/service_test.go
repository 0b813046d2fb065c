package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	hotelMocks "innkeep/internal/domains/hotel/mocks"
	"innkeep/internal/domains/hotel/model"
	"innkeep/internal/domains/hotel/model/dto"
	"innkeep/internal/domains/hotel/service"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
)

const testHotelID = "b5d2e7f1-1234-4abc-9def-0123456789ab"

func newHotelService(t *testing.T) (service.Hotel, *hotelMocks.MockHotel, *hotelMocks.MockSettings) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := hotelMocks.NewMockHotel(ctrl)
	mockSettings := hotelMocks.NewMockSettings(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Workflow.PreventCleaningWithDND = false
	cfg.Workflow.UndoWindowSeconds = 5

	svc := service.New(mockRepo, mockSettings, cfg, mockOtel)

	return svc, mockRepo, mockSettings
}

func authedCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
}

func TestHotelService_Create(t *testing.T) {
	t.Run("missing actor", func(t *testing.T) {
		svc, _, _ := newHotelService(t)

		_, err := svc.Create(context.Background(), dto.CreateHotelRequest{Name: "Seaside Inn"})

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("creation seeds default settings", func(t *testing.T) {
		svc, mockRepo, mockSettings := newHotelService(t)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		mockSettings.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, settings model.Settings) error {
				assert.False(t, settings.PreventCleaningWithDND)
				assert.Equal(t, 5, settings.UndoWindowSeconds)

				return nil
			})

		res, err := svc.Create(authedCtx(), dto.CreateHotelRequest{Name: "Seaside Inn"})

		assert.NoError(t, err)
		assert.Equal(t, "Seaside Inn", res.Name)
		assert.NotEmpty(t, res.ID)
	})
}

func TestHotelService_GetSettings(t *testing.T) {
	t.Run("stored settings win", func(t *testing.T) {
		svc, _, mockSettings := newHotelService(t)

		mockSettings.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Settings{
				HotelID:                testHotelID,
				PreventCleaningWithDND: true,
				UndoWindowSeconds:      30,
			}, nil)

		settings, err := svc.GetSettings(authedCtx(), testHotelID)

		assert.NoError(t, err)
		assert.True(t, settings.PreventCleaningWithDND)
		assert.Equal(t, 30, settings.UndoWindowSeconds)
	})

	t.Run("missing row falls back to application defaults", func(t *testing.T) {
		svc, _, mockSettings := newHotelService(t)

		mockSettings.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Settings{}, nil)

		settings, err := svc.GetSettings(authedCtx(), testHotelID)

		assert.NoError(t, err)
		assert.Equal(t, testHotelID, settings.HotelID)
		assert.False(t, settings.PreventCleaningWithDND)
		assert.Equal(t, 5, settings.UndoWindowSeconds)
	})
}

func TestHotelService_UpdateSettings(t *testing.T) {
	prevent := true

	t.Run("empty request", func(t *testing.T) {
		svc, _, _ := newHotelService(t)

		err := svc.UpdateSettings(authedCtx(), dto.UpdateSettingsRequest{}, testHotelID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("hotel not found", func(t *testing.T) {
		svc, mockRepo, _ := newHotelService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.UpdateSettings(authedCtx(), dto.UpdateSettingsRequest{PreventCleaningWithDND: &prevent}, testHotelID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("successful update", func(t *testing.T) {
		svc, mockRepo, mockSettings := newHotelService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockSettings.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Contains(t, fields, model.FieldPreventCleaningWithDND)

				return nil
			})

		err := svc.UpdateSettings(authedCtx(), dto.UpdateSettingsRequest{PreventCleaningWithDND: &prevent}, testHotelID)

		assert.NoError(t, err)
	})
}
