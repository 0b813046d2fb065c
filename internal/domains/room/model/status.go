package model

type OccupancyStatus string

const (
	OccupancyVacant     OccupancyStatus = "vacant"
	OccupancyAssigned   OccupancyStatus = "assigned"
	OccupancyOccupied   OccupancyStatus = "occupied"
	OccupancyStayover   OccupancyStatus = "stayover"
	OccupancyCheckedOut OccupancyStatus = "checked_out"
)

func (s OccupancyStatus) Valid() bool {
	switch s {
	case OccupancyVacant, OccupancyAssigned, OccupancyOccupied, OccupancyStayover, OccupancyCheckedOut:
		return true
	}

	return false
}

// Next returns the one-tap cycle successor. Stayover and checked-out
// rooms fold back to vacant. Direct jumps between any two statuses stay
// legal through the setter; the cycle is a UI convenience only.
func (s OccupancyStatus) Next() OccupancyStatus {
	switch s {
	case OccupancyVacant:
		return OccupancyAssigned
	case OccupancyAssigned:
		return OccupancyOccupied
	case OccupancyOccupied, OccupancyStayover, OccupancyCheckedOut:
		return OccupancyVacant
	}

	return OccupancyVacant
}

type CleaningStatus string

const (
	CleaningDirty      CleaningStatus = "dirty"
	CleaningInProgress CleaningStatus = "cleaning_in_progress"
	CleaningReady      CleaningStatus = "ready"
)

func (s CleaningStatus) Valid() bool {
	switch s {
	case CleaningDirty, CleaningInProgress, CleaningReady:
		return true
	}

	return false
}

func (s CleaningStatus) Next() CleaningStatus {
	switch s {
	case CleaningDirty:
		return CleaningInProgress
	case CleaningInProgress:
		return CleaningReady
	case CleaningReady:
		return CleaningDirty
	}

	return CleaningDirty
}

type RoomFlag string

const (
	FlagMaintenanceRequired RoomFlag = "maintenance_required"
	FlagOutOfOrder          RoomFlag = "out_of_order"
	FlagOutOfService        RoomFlag = "out_of_service"
	FlagDND                 RoomFlag = "dnd"
)

func (f RoomFlag) Valid() bool {
	switch f {
	case FlagMaintenanceRequired, FlagOutOfOrder, FlagOutOfService, FlagDND:
		return true
	}

	return false
}
