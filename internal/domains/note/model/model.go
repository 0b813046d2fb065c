package model

import "innkeep/shared/model"

const (
	TableName  = "room_notes"
	EntityName = "room_note"
)

const (
	FieldID     = "id"
	FieldRoomID = "room_id"
	FieldBody   = "body"
)

// RoomNote is a free-form annotation attached to a room. Rooms carry a
// collection of notes rather than a single scalar field, so staff can
// keep shift-handover remarks side by side.
type RoomNote struct {
	ID      string `db:"id" json:"id"`
	RoomID  string `db:"room_id" json:"room_id"`
	HotelID string `db:"hotel_id" json:"hotel_id"`
	Body    string `db:"body" json:"body"`
	model.Metadata
}
