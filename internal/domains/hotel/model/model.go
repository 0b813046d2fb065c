package model

import (
	"innkeep/shared/model"
)

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID   = "id"
	FieldName = "name"
)

const (
	SettingsTableName  = "hotel_settings"
	SettingsEntityName = "hotel settings"

	FieldHotelID                = "hotel_id"
	FieldPreventCleaningWithDND = "prevent_cleaning_with_dnd"
	FieldUndoWindowSeconds      = "undo_window_seconds"
)

type Hotel struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	model.Metadata
}

// Settings carries the per-hotel workflow knobs. Absent rows fall back
// to the application defaults in config.
type Settings struct {
	HotelID                string `db:"hotel_id"`
	PreventCleaningWithDND bool   `db:"prevent_cleaning_with_dnd"`
	UndoWindowSeconds      int    `db:"undo_window_seconds"`
	model.Metadata
}
