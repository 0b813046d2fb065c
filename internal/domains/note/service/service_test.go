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
	historyModel "innkeep/internal/domains/history/model"
	historyMocks "innkeep/internal/domains/history/service/mocks"
	noteMocks "innkeep/internal/domains/note/mocks"
	"innkeep/internal/domains/note/model"
	"innkeep/internal/domains/note/model/dto"
	"innkeep/internal/domains/note/service"
	"innkeep/shared/cache"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
)

const (
	testNoteID  = "note-id"
	testRoomID  = "room-id"
	testHotelID = "hotel-id"
	testUserID  = "test-user-id"
)

func newNoteService(t *testing.T) (service.Note, *noteMocks.MockNote, *historyMocks.MockHistory, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := noteMocks.NewMockNote(ctrl)
	mockHistory := historyMocks.NewMockHistory(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockHistory, cfg, mockCache, mockOtel)

	return svc, mockRepo, mockHistory, mockCache
}

func authedCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, testUserID)
}

func testNote(body string) model.RoomNote {
	return model.RoomNote{
		ID:      testNoteID,
		RoomID:  testRoomID,
		HotelID: testHotelID,
		Body:    body,
	}
}

func TestNoteService_Add(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(repo *noteMocks.MockNote, history *historyMocks.MockHistory)
		wantErr   bool
		wantCode  int
	}{
		{
			name:      "blank body",
			body:      "   \n\t ",
			setupMock: func(repo *noteMocks.MockNote, history *historyMocks.MockHistory) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "successful add records new value only",
			body: "guest asked for extra towels",
			setupMock: func(repo *noteMocks.MockNote, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				history.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry historyModel.AuditEntry) error {
						assert.Equal(t, historyModel.ChangeNotes, entry.ChangeType)
						assert.Nil(t, entry.OldValue)
						assert.Equal(t, "guest asked for extra towels", *entry.NewValue)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "insert failure leaves no audit trace",
			body: "guest asked for extra towels",
			setupMock: func(repo *noteMocks.MockNote, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockHistory, _ := newNoteService(t)

			tt.setupMock(mockRepo, mockHistory)

			_, err := svc.Add(authedCtx(), dto.AddNoteRequest{
				RoomID:  testRoomID,
				HotelID: testHotelID,
				Body:    tt.body,
			})

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

func TestNoteService_Update(t *testing.T) {
	svc, mockRepo, mockHistory, _ := newNoteService(t)

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testNote("old body"), nil)

	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	mockHistory.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry historyModel.AuditEntry) error {
			assert.Equal(t, "old body", *entry.OldValue)
			assert.Equal(t, "new body", *entry.NewValue)

			return nil
		})

	res, err := svc.Update(authedCtx(), testNoteID, dto.UpdateNoteRequest{Body: "new body"})

	assert.NoError(t, err)
	assert.Equal(t, "new body", res.Body)
}

func TestNoteService_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, _, _ := newNoteService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.RoomNote{}, nil)

		err := svc.Delete(authedCtx(), testNoteID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("successful delete records old value only", func(t *testing.T) {
		svc, mockRepo, mockHistory, _ := newNoteService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testNote("stale note"), nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		mockHistory.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry historyModel.AuditEntry) error {
				assert.Nil(t, entry.NewValue)
				assert.Equal(t, "stale note", *entry.OldValue)

				return nil
			})

		err := svc.Delete(authedCtx(), testNoteID)

		assert.NoError(t, err)
	})
}

func TestNoteService_GetByRoom(t *testing.T) {
	svc, mockRepo, _, mockCache := newNoteService(t)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(cache.Nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.RoomNote{testNote("first"), testNote("second")}, nil)

	res, err := svc.GetByRoom(authedCtx(), testRoomID)

	assert.NoError(t, err)
	assert.Len(t, res.Notes, 2)
}

func TestNoteService_CountByRooms(t *testing.T) {
	svc, mockRepo, _, _ := newNoteService(t)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			roomID := filter.Filters[0].(gDto.Filter).Value

			if roomID == "broken-room" {
				return 0, errors.New("database error")
			}

			return 2, nil
		}).
		Times(2)

	counts, err := svc.CountByRooms(authedCtx(), []string{testRoomID, "broken-room"})

	// A failing room is dropped from the map without failing the batch.
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{testRoomID: 2}, counts)
}
