package dto

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"innkeep/internal/domains/room/model"
	"innkeep/shared"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
)

type CreateRoomRequest struct {
	HotelID     string `json:"hotel_id" validate:"required,uuid"`
	RoomNumber  int    `json:"room_number" validate:"required,gt=0"`
	FloorNumber *int   `json:"floor_number" validate:"omitempty,gte=0"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	floor := model.FloorFromNumber(c.RoomNumber)
	if c.FloorNumber != nil {
		floor = *c.FloorNumber
	}

	return model.Room{
		ID:              uuid.NewString(),
		HotelID:         c.HotelID,
		RoomNumber:      c.RoomNumber,
		FloorNumber:     floor,
		OccupancyStatus: model.OccupancyVacant,
		CleaningStatus:  model.CleaningDirty,
		Flags:           pq.StringArray{},
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type BatchCreateRoomsRequest struct {
	HotelID string            `json:"hotel_id" validate:"required,uuid"`
	Ranges  []model.RoomRange `json:"ranges" validate:"required,min=1,dive"`
}

type SetOccupancyRequest struct {
	Status model.OccupancyStatus `json:"status" validate:"required"`
	Note   string                `json:"note" validate:"omitempty,max=500"`
}

type SetCleaningRequest struct {
	Status model.CleaningStatus `json:"status" validate:"required"`
	Note   string               `json:"note" validate:"omitempty,max=500"`
}

type ToggleFlagRequest struct {
	Flag model.RoomFlag `json:"flag" validate:"required"`
	Note string         `json:"note" validate:"omitempty,max=500"`
}

type UpdateRoomRequest struct {
	FloorNumber *int `db:"floor_number" json:"floor_number" validate:"omitempty,gte=0"`
	RoomNumber  *int `db:"room_number" json:"room_number" validate:"omitempty,gt=0"`
}

type RoomResponse struct {
	ID               string   `json:"id"`
	HotelID          string   `json:"hotel_id"`
	RoomNumber       int      `json:"room_number"`
	FloorNumber      int      `json:"floor_number"`
	OccupancyStatus  string   `json:"occupancy_status"`
	CleaningStatus   string   `json:"cleaning_status"`
	Flags            []string `json:"flags"`
	NeedsAttention   bool     `json:"needs_attention"`
	CanStartCleaning bool     `json:"can_start_cleaning"`
	CanMarkReady     bool     `json:"can_mark_ready"`
	PendingUndo      bool     `json:"pending_undo"`
	UndoExpiresAt    string   `json:"undo_expires_at,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.RoomNumber = model.RoomNumber
	r.FloorNumber = model.FloorNumber
	r.OccupancyStatus = string(model.OccupancyStatus)
	r.CleaningStatus = string(model.CleaningStatus)
	r.Flags = append([]string{}, model.Flags...)
	r.NeedsAttention = model.NeedsAttention()
	r.CanStartCleaning = model.CanStartCleaning()
	r.CanMarkReady = model.CanMarkReady()
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
