package model

import (
	"github.com/lib/pq"

	"innkeep/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID              = "id"
	FieldHotelID         = "hotel_id"
	FieldRoomNumber      = "room_number"
	FieldFloorNumber     = "floor_number"
	FieldOccupancyStatus = "occupancy_status"
	FieldCleaningStatus  = "cleaning_status"
	FieldFlags           = "flags"
)

type Room struct {
	ID              string          `db:"id"`
	HotelID         string          `db:"hotel_id"`
	RoomNumber      int             `db:"room_number"`
	FloorNumber     int             `db:"floor_number"`
	OccupancyStatus OccupancyStatus `db:"occupancy_status"`
	CleaningStatus  CleaningStatus  `db:"cleaning_status"`
	Flags           pq.StringArray  `db:"flags"`
	model.Metadata
}

// FloorFromNumber derives the conventional floor for a room number.
// Room 205 sits on floor 2, room 99 on floor 0. The stored floor may be
// overridden manually after creation and is never re-derived.
func FloorFromNumber(roomNumber int) int {
	return roomNumber / 100
}

func (r Room) HasFlag(flag RoomFlag) bool {
	for _, f := range r.Flags {
		if f == string(flag) {
			return true
		}
	}

	return false
}

// ToggleFlag returns the flag set with the given flag flipped and
// whether it was added (true) or removed (false).
func ToggleFlag(flags pq.StringArray, flag RoomFlag) (pq.StringArray, bool) {
	result := make(pq.StringArray, 0, len(flags)+1)
	removed := false

	for _, f := range flags {
		if f == string(flag) {
			removed = true

			continue
		}

		result = append(result, f)
	}

	if removed {
		return result, false
	}

	return append(result, string(flag)), true
}

// NeedsAttention reports whether the room requires staff action. The dnd
// flag alone does not qualify: a do-not-disturb room that is otherwise
// ready needs nothing from staff.
func (r Room) NeedsAttention() bool {
	if r.CleaningStatus == CleaningDirty {
		return true
	}

	return r.HasFlag(FlagMaintenanceRequired) || r.HasFlag(FlagOutOfOrder) || r.HasFlag(FlagOutOfService)
}

// CanStartCleaning is true for dirty rooms, and for checked-out rooms
// regardless of recorded cleaning status since checkout implies cleaning.
func (r Room) CanStartCleaning() bool {
	return r.CleaningStatus == CleaningDirty || r.OccupancyStatus == OccupancyCheckedOut
}

func (r Room) CanMarkReady() bool {
	return r.CleaningStatus == CleaningInProgress
}
