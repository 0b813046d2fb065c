package model

import "time"

const (
	TableName  = "room_history"
	EntityName = "audit entry"

	FieldID         = "id"
	FieldRoomID     = "room_id"
	FieldHotelID    = "hotel_id"
	FieldActorID    = "actor_id"
	FieldChangeType = "change_type"
	FieldOldValue   = "old_value"
	FieldNewValue   = "new_value"
	FieldNote       = "note"
	FieldCreatedAt  = "created_at"
)

type ChangeType string

const (
	ChangeOccupancyStatus ChangeType = "occupancy_status"
	ChangeCleaningStatus  ChangeType = "cleaning_status"
	ChangeFlags           ChangeType = "flags"
	ChangeNotes           ChangeType = "notes"
	ChangeCreated         ChangeType = "created"
)

func (c ChangeType) Valid() bool {
	switch c {
	case ChangeOccupancyStatus, ChangeCleaningStatus, ChangeFlags, ChangeNotes, ChangeCreated:
		return true
	}

	return false
}

// AuditEntry is one field-level room change. Entries are append-only:
// nothing in this domain updates or deletes them. ActorID is a weak
// reference; a deleted profile leaves it dangling and the entry intact.
type AuditEntry struct {
	ID         string     `db:"id"`
	RoomID     string     `db:"room_id"`
	HotelID    string     `db:"hotel_id"`
	ActorID    *string    `db:"actor_id"`
	ChangeType ChangeType `db:"change_type"`
	OldValue   *string    `db:"old_value"`
	NewValue   *string    `db:"new_value"`
	Note       string     `db:"note"`
	CreatedAt  time.Time  `db:"created_at"`
}
