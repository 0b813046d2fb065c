package dto

import (
	"github.com/google/uuid"

	"innkeep/internal/domains/hotel/model"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
)

type CreateHotelRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (c *CreateHotelRequest) ToModel(user string) model.Hotel {
	return model.Hotel{
		ID:   uuid.NewString(),
		Name: c.Name,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateSettingsRequest struct {
	PreventCleaningWithDND *bool `db:"prevent_cleaning_with_dnd" json:"prevent_cleaning_with_dnd" validate:"omitempty"`
	UndoWindowSeconds      *int  `db:"undo_window_seconds" json:"undo_window_seconds" validate:"omitempty,gt=0,lte=300"`
}

type HotelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	gDto.Metadata
}

func (r *HotelResponse) FromModel(model model.Hotel) {
	r.ID = model.ID
	r.Name = model.Name
	r.Metadata.FromModel(model.Metadata)
}

type SettingsResponse struct {
	HotelID                string `json:"hotel_id"`
	PreventCleaningWithDND bool   `json:"prevent_cleaning_with_dnd"`
	UndoWindowSeconds      int    `json:"undo_window_seconds"`
}

func (r *SettingsResponse) FromModel(model model.Settings) {
	r.HotelID = model.HotelID
	r.PreventCleaningWithDND = model.PreventCleaningWithDND
	r.UndoWindowSeconds = model.UndoWindowSeconds
}
