package dto

import (
	"innkeep/internal/domains/note/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
)

type AddNoteRequest struct {
	RoomID  string `json:"room_id" validate:"required,uuid"`
	HotelID string `json:"hotel_id" validate:"required,uuid"`
	Body    string `json:"body" validate:"required,max=2000"`
}

func (a *AddNoteRequest) ToModel(user string) model.RoomNote {
	note := model.RoomNote{
		ID:      uuid.NewString(),
		RoomID:  a.RoomID,
		HotelID: a.HotelID,
		Body:    a.Body,
	}

	note.CreatedAt = timezone.Now()
	note.CreatedBy = user
	note.ModifiedAt = timezone.Now()
	note.ModifiedBy = user

	return note
}

type UpdateNoteRequest struct {
	Body string `json:"body" validate:"required,max=2000" db:"body"`
}

type NoteResponse struct {
	ID         string `json:"id"`
	RoomID     string `json:"room_id"`
	HotelID    string `json:"hotel_id"`
	Body       string `json:"body"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
}

func (n *NoteResponse) FromModel(mod model.RoomNote) {
	n.ID = mod.ID
	n.RoomID = mod.RoomID
	n.HotelID = mod.HotelID
	n.Body = mod.Body
	n.CreatedBy = mod.CreatedBy
	n.CreatedAt = timezone.Format(mod.CreatedAt, "2006-01-02 15:04:05")
	n.ModifiedAt = timezone.Format(mod.ModifiedAt, "2006-01-02 15:04:05")
}

type GetNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int            `json:"total"`
}

func (g *GetNotesResponse) FromModels(models []model.RoomNote) {
	g.Total = len(models)
	g.Notes = make([]NoteResponse, len(models))

	for i, mod := range models {
		g.Notes[i].FromModel(mod)
	}
}
