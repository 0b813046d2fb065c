package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	historyModel "innkeep/internal/domains/history/model"
	historyMocks "innkeep/internal/domains/history/service/mocks"
	hotelModel "innkeep/internal/domains/hotel/model"
	hotelDto "innkeep/internal/domains/hotel/model/dto"
	hotelMocks "innkeep/internal/domains/hotel/service/mocks"
	roomMocks "innkeep/internal/domains/room/mocks"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/service"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
)

const (
	testRoomID  = "3f6f2c4e-9f07-4c8e-b9c5-0f1a2d3e4b5c"
	testHotelID = "7a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
	testUserID  = "test-user-id"
)

func testRoom(occupancy model.OccupancyStatus, cleaning model.CleaningStatus, flags ...model.RoomFlag) model.Room {
	room := model.Room{
		ID:              testRoomID,
		HotelID:         testHotelID,
		RoomNumber:      205,
		FloorNumber:     2,
		OccupancyStatus: occupancy,
		CleaningStatus:  cleaning,
		Flags:           pq.StringArray{},
	}

	for _, flag := range flags {
		room.Flags = append(room.Flags, string(flag))
	}

	return room
}

func newRoomService(t *testing.T) (service.Room, *roomMocks.MockRoom, *hotelMocks.MockHotel, *historyMocks.MockHistory, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockHotels := hotelMocks.NewMockHotel(ctrl)
	mockHistory := historyMocks.NewMockHistory(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Workflow.UndoWindowSeconds = 5

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockHotels, mockHistory, cfg, mockCache, mockOtel)

	return svc, mockRepo, mockHotels, mockHistory, mockCache
}

func authedCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, testUserID)
}

func hotelDtoResponse() hotelDto.HotelResponse {
	return hotelDto.HotelResponse{ID: testHotelID, Name: "Seaside Inn"}
}

func TestRoomService_SetOccupancy(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.SetOccupancyRequest
		setupMock func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory)
		wantErr   bool
		wantCode  int
	}{
		{
			name:      "missing actor makes no changes",
			ctx:       context.Background(),
			req:       dto.SetOccupancyRequest{Status: model.OccupancyAssigned},
			setupMock: func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory) {},
			wantErr:   true,
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "unknown status",
			ctx:       authedCtx(),
			req:       dto.SetOccupancyRequest{Status: "lounging"},
			setupMock: func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "same status is a no-op with no write and no audit",
			ctx:  authedCtx(),
			req:  dto.SetOccupancyRequest{Status: model.OccupancyOccupied},
			setupMock: func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(model.OccupancyOccupied, model.CleaningDirty), nil)
			},
			wantErr: false,
		},
		{
			name: "successful transition persists then audits",
			ctx:  authedCtx(),
			req:  dto.SetOccupancyRequest{Status: model.OccupancyAssigned, Note: "walk-in"},
			setupMock: func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(model.OccupancyVacant, model.CleaningDirty), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.OccupancyAssigned, fields[model.FieldOccupancyStatus])

						return nil
					})

				history.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry historyModel.AuditEntry) error {
						assert.Equal(t, historyModel.ChangeOccupancyStatus, entry.ChangeType)
						assert.Equal(t, "vacant", *entry.OldValue)
						assert.Equal(t, "assigned", *entry.NewValue)
						assert.Equal(t, "walk-in", entry.Note)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "failed write leaves no audit trace",
			ctx:  authedCtx(),
			req:  dto.SetOccupancyRequest{Status: model.OccupancyAssigned},
			setupMock: func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(model.OccupancyVacant, model.CleaningDirty), nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, mockHistory, _ := newRoomService(t)

			tt.setupMock(mockRepo, mockHistory)

			res, err := svc.SetOccupancy(tt.ctx, testRoomID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, string(tt.req.Status), res.OccupancyStatus)
		})
	}
}

func TestRoomService_SetCleaning(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.SetCleaningRequest
		setupMock func(repo *roomMocks.MockRoom, hotels *hotelMocks.MockHotel, history *historyMocks.MockHistory)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "dnd blocks cleaning when the hotel prevents it",
			req:  dto.SetCleaningRequest{Status: model.CleaningInProgress},
			setupMock: func(repo *roomMocks.MockRoom, hotels *hotelMocks.MockHotel, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(model.OccupancyOccupied, model.CleaningDirty, model.FlagDND), nil)

				hotels.EXPECT().
					GetSettings(gomock.Any(), testHotelID).
					Return(hotelModel.Settings{PreventCleaningWithDND: true, UndoWindowSeconds: 5}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "dnd allowed when the hotel permits it",
			req:  dto.SetCleaningRequest{Status: model.CleaningInProgress},
			setupMock: func(repo *roomMocks.MockRoom, hotels *hotelMocks.MockHotel, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(model.OccupancyOccupied, model.CleaningDirty, model.FlagDND), nil)

				hotels.EXPECT().
					GetSettings(gomock.Any(), testHotelID).
					Return(hotelModel.Settings{PreventCleaningWithDND: false, UndoWindowSeconds: 5}, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				history.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "same status skips the policy check entirely",
			req:  dto.SetCleaningRequest{Status: model.CleaningDirty},
			setupMock: func(repo *roomMocks.MockRoom, hotels *hotelMocks.MockHotel, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(model.OccupancyOccupied, model.CleaningDirty, model.FlagDND), nil)
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockHotels, mockHistory, _ := newRoomService(t)

			tt.setupMock(mockRepo, mockHotels, mockHistory)

			_, err := svc.SetCleaning(authedCtx(), testRoomID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_ToggleFlag(t *testing.T) {
	tests := []struct {
		name       string
		room       model.Room
		flag       model.RoomFlag
		checkEntry func(t *testing.T, entry historyModel.AuditEntry)
		wantFlags  []string
	}{
		{
			name: "adding a flag records new value only",
			room: testRoom(model.OccupancyVacant, model.CleaningDirty),
			flag: model.FlagDND,
			checkEntry: func(t *testing.T, entry historyModel.AuditEntry) {
				t.Helper()
				assert.Nil(t, entry.OldValue)
				assert.Equal(t, "added: dnd", *entry.NewValue)
			},
			wantFlags: []string{"dnd"},
		},
		{
			name: "removing a flag records old value only",
			room: testRoom(model.OccupancyVacant, model.CleaningDirty, model.FlagDND),
			flag: model.FlagDND,
			checkEntry: func(t *testing.T, entry historyModel.AuditEntry) {
				t.Helper()
				assert.Nil(t, entry.NewValue)
				assert.Equal(t, "removed: dnd", *entry.OldValue)
			},
			wantFlags: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, mockHistory, _ := newRoomService(t)

			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.room, nil)

			mockRepo.EXPECT().
				Update(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil)

			mockHistory.EXPECT().
				Record(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, entry historyModel.AuditEntry) error {
					assert.Equal(t, historyModel.ChangeFlags, entry.ChangeType)
					tt.checkEntry(t, entry)

					return nil
				})

			res, err := svc.ToggleFlag(authedCtx(), testRoomID, dto.ToggleFlagRequest{Flag: tt.flag})

			assert.NoError(t, err)
			assert.Equal(t, tt.wantFlags, res.Flags)
		})
	}
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			setupMock: func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, model.OccupancyVacant, room.OccupancyStatus)
						assert.Equal(t, model.CleaningDirty, room.CleaningStatus)
						assert.Equal(t, 2, room.FloorNumber)

						return nil
					})

				history.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "duplicate room number in hotel",
			setupMock: func(repo *roomMocks.MockRoom, history *historyMocks.MockHistory) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, mockHistory, _ := newRoomService(t)

			tt.setupMock(mockRepo, mockHistory)

			_, err := svc.Create(authedCtx(), dto.CreateRoomRequest{HotelID: testHotelID, RoomNumber: 205})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_CreateBatch(t *testing.T) {
	tests := []struct {
		name      string
		ranges    []model.RoomRange
		setupMock func(repo *roomMocks.MockRoom, hotels *hotelMocks.MockHotel, history *historyMocks.MockHistory)
		wantCount int
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "overlapping ranges create nothing",
			ranges: []model.RoomRange{{Start: 101, End: 110}, {Start: 105, End: 120}},
			setupMock: func(repo *roomMocks.MockRoom, hotels *hotelMocks.MockHotel, history *historyMocks.MockHistory) {
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "duplicate number fails the whole batch",
			ranges: []model.RoomRange{{Start: 101, End: 105}},
			setupMock: func(repo *roomMocks.MockRoom, hotels *hotelMocks.MockHotel, history *historyMocks.MockHistory) {
				hotels.EXPECT().
					Get(gomock.Any(), testHotelID).
					Return(hotelDtoResponse(), nil)

				repo.EXPECT().
					InsertBulk(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name:   "whole batch inserted with one audit entry per room",
			ranges: []model.RoomRange{{Start: 101, End: 103}, {Start: 201, End: 202}},
			setupMock: func(repo *roomMocks.MockRoom, hotels *hotelMocks.MockHotel, history *historyMocks.MockHistory) {
				hotels.EXPECT().
					Get(gomock.Any(), testHotelID).
					Return(hotelDtoResponse(), nil)

				repo.EXPECT().
					InsertBulk(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rooms []model.Room) error {
						assert.Len(t, rooms, 5)

						return nil
					})

				history.EXPECT().
					RecordMany(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entries []historyModel.AuditEntry) error {
						assert.Len(t, entries, 5)

						return nil
					})
			},
			wantCount: 5,
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockHotels, mockHistory, _ := newRoomService(t)

			tt.setupMock(mockRepo, mockHotels, mockHistory)

			created, err := svc.CreateBatch(authedCtx(), dto.BatchCreateRoomsRequest{HotelID: testHotelID, Ranges: tt.ranges})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantCount, created)
		})
	}
}

func TestRoomService_MarkReady(t *testing.T) {
	t.Run("rejects rooms that are not being cleaned", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newRoomService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(model.OccupancyVacant, model.CleaningDirty), nil)

		_, err := svc.MarkReady(authedCtx(), testRoomID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("marks ready and opens an undo window", func(t *testing.T) {
		svc, mockRepo, mockHotels, mockHistory, _ := newRoomService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(model.OccupancyVacant, model.CleaningInProgress), nil)

		mockHotels.EXPECT().
			GetSettings(gomock.Any(), testHotelID).
			Return(hotelModel.Settings{UndoWindowSeconds: 5}, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		mockHistory.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry historyModel.AuditEntry) error {
				assert.Equal(t, "cleaning_in_progress", *entry.OldValue)
				assert.Equal(t, "ready", *entry.NewValue)

				return nil
			})

		res, err := svc.MarkReady(authedCtx(), testRoomID)

		assert.NoError(t, err)
		assert.Equal(t, "ready", res.CleaningStatus)
		assert.True(t, res.PendingUndo)
		assert.NotEmpty(t, res.UndoExpiresAt)
	})
}

func TestRoomService_UndoMarkReady(t *testing.T) {
	t.Run("fails when no undo window is open", func(t *testing.T) {
		svc, _, _, _, _ := newRoomService(t)

		_, err := svc.UndoMarkReady(authedCtx(), testRoomID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("restores the prior cleaning status within the window", func(t *testing.T) {
		svc, mockRepo, mockHotels, mockHistory, _ := newRoomService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(model.OccupancyVacant, model.CleaningInProgress), nil)

		mockHotels.EXPECT().
			GetSettings(gomock.Any(), testHotelID).
			Return(hotelModel.Settings{UndoWindowSeconds: 30}, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		mockHistory.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.MarkReady(authedCtx(), testRoomID)
		assert.NoError(t, err)

		// The undo path reloads the room, reverts the write, records a
		// second audit entry, then reloads once more for the response.
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(model.OccupancyVacant, model.CleaningReady), nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.CleaningInProgress, fields[model.FieldCleaningStatus])

				return nil
			})

		mockHistory.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry historyModel.AuditEntry) error {
				assert.Equal(t, "ready", *entry.OldValue)
				assert.Equal(t, "cleaning_in_progress", *entry.NewValue)
				assert.Equal(t, "undo mark ready", entry.Note)

				return nil
			})

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(model.OccupancyVacant, model.CleaningInProgress), nil)

		res, err := svc.UndoMarkReady(authedCtx(), testRoomID)

		assert.NoError(t, err)
		assert.Equal(t, "cleaning_in_progress", res.CleaningStatus)
		assert.False(t, res.PendingUndo)
	})

	t.Run("second undo finds the window already closed", func(t *testing.T) {
		svc, mockRepo, mockHotels, mockHistory, _ := newRoomService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(model.OccupancyVacant, model.CleaningInProgress), nil)

		mockHotels.EXPECT().
			GetSettings(gomock.Any(), testHotelID).
			Return(hotelModel.Settings{UndoWindowSeconds: 30}, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		mockHistory.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(model.OccupancyVacant, model.CleaningReady), nil)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(model.OccupancyVacant, model.CleaningInProgress), nil)

		_, err := svc.MarkReady(authedCtx(), testRoomID)
		assert.NoError(t, err)

		_, err = svc.UndoMarkReady(authedCtx(), testRoomID)
		assert.NoError(t, err)

		_, err = svc.UndoMarkReady(authedCtx(), testRoomID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestRoomService_CycleOccupancy(t *testing.T) {
	svc, mockRepo, _, mockHistory, _ := newRoomService(t)

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testRoom(model.OccupancyOccupied, model.CleaningDirty), nil).
		Times(2)

	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	mockHistory.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry historyModel.AuditEntry) error {
			assert.Equal(t, "occupied", *entry.OldValue)
			assert.Equal(t, "vacant", *entry.NewValue)

			return nil
		})

	res, err := svc.CycleOccupancy(authedCtx(), testRoomID)

	assert.NoError(t, err)
	assert.Equal(t, "vacant", res.OccupancyStatus)
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newRoomService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(authedCtx(), testRoomID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("successful deletion", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newRoomService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(authedCtx(), testRoomID)

		assert.NoError(t, err)
	})
}
