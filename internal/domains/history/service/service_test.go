package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	historyMocks "innkeep/internal/domains/history/mocks"
	"innkeep/internal/domains/history/model"
	"innkeep/internal/domains/history/service"
	"innkeep/shared/cache"
	cacheMocks "innkeep/shared/cache/mocks"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
)

func newHistoryService(t *testing.T) (service.History, *historyMocks.MockHistory, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := historyMocks.NewMockHistory(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	return svc, mockRepo, mockCache
}

func strPtr(s string) *string {
	return &s
}

func TestHistoryService_Record(t *testing.T) {
	actor := "test-user-id"

	tests := []struct {
		name      string
		entry     model.AuditEntry
		setupMock func(repo *historyMocks.MockHistory)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "unknown change type",
			entry: model.AuditEntry{
				RoomID:     "room-id",
				HotelID:    "hotel-id",
				ChangeType: "repainted",
			},
			setupMock: func(repo *historyMocks.MockHistory) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "defaults id and created at before insert",
			entry: model.AuditEntry{
				RoomID:     "room-id",
				HotelID:    "hotel-id",
				ActorID:    &actor,
				ChangeType: model.ChangeCleaningStatus,
				OldValue:   strPtr("dirty"),
				NewValue:   strPtr("cleaning_in_progress"),
			},
			setupMock: func(repo *historyMocks.MockHistory) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry model.AuditEntry) error {
						assert.NotEmpty(t, entry.ID)
						assert.False(t, entry.CreatedAt.IsZero())

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "repository error",
			entry: model.AuditEntry{
				RoomID:     "room-id",
				HotelID:    "hotel-id",
				ChangeType: model.ChangeNotes,
			},
			setupMock: func(repo *historyMocks.MockHistory) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newHistoryService(t)

			tt.setupMock(mockRepo)

			err := svc.Record(context.Background(), tt.entry)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHistoryService_RecordMany(t *testing.T) {
	t.Run("empty batch is a no-op", func(t *testing.T) {
		svc, _, _ := newHistoryService(t)

		err := svc.RecordMany(context.Background(), nil)

		assert.NoError(t, err)
	})

	t.Run("one bad entry aborts the whole batch before any insert", func(t *testing.T) {
		svc, _, _ := newHistoryService(t)

		entries := []model.AuditEntry{
			{RoomID: "room-1", HotelID: "hotel-id", ChangeType: model.ChangeCreated},
			{RoomID: "room-2", HotelID: "hotel-id", ChangeType: "repainted"},
		}

		err := svc.RecordMany(context.Background(), entries)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("valid batch inserts in bulk", func(t *testing.T) {
		svc, mockRepo, _ := newHistoryService(t)

		mockRepo.EXPECT().
			InsertBulk(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entries []model.AuditEntry) error {
				assert.Len(t, entries, 2)

				for _, entry := range entries {
					assert.NotEmpty(t, entry.ID)
				}

				return nil
			})

		entries := []model.AuditEntry{
			{RoomID: "room-1", HotelID: "hotel-id", ChangeType: model.ChangeCreated},
			{RoomID: "room-2", HotelID: "hotel-id", ChangeType: model.ChangeCreated},
		}

		err := svc.RecordMany(context.Background(), entries)

		assert.NoError(t, err)
	})
}

func TestHistoryService_GetAll(t *testing.T) {
	svc, mockRepo, mockCache := newHistoryService(t)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(cache.Nil)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.AuditEntry{
			{ID: "entry-id", RoomID: "room-id", HotelID: "hotel-id", ChangeType: model.ChangeFlags},
		}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Entries, 1)
}
