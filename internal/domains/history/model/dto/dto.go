package dto

import (
	"innkeep/internal/domains/history/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	"innkeep/shared/timezone"
)

const unknownActor = "unknown"

type AuditEntryResponse struct {
	ID         string `json:"id"`
	RoomID     string `json:"room_id"`
	HotelID    string `json:"hotel_id"`
	ActorID    string `json:"actor_id"`
	ChangeType string `json:"change_type"`
	OldValue   string `json:"old_value,omitempty"`
	NewValue   string `json:"new_value,omitempty"`
	Note       string `json:"note,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func (r *AuditEntryResponse) FromModel(entry model.AuditEntry) {
	r.ID = entry.ID
	r.RoomID = entry.RoomID
	r.HotelID = entry.HotelID
	r.ChangeType = string(entry.ChangeType)
	r.Note = entry.Note
	r.CreatedAt = timezone.Format(entry.CreatedAt, constant.DateFormat)

	r.ActorID = unknownActor
	if entry.ActorID != nil && *entry.ActorID != constant.Empty {
		r.ActorID = *entry.ActorID
	}

	if entry.OldValue != nil {
		r.OldValue = *entry.OldValue
	}

	if entry.NewValue != nil {
		r.NewValue = *entry.NewValue
	}
}

type GetAuditEntriesResponse struct {
	Entries   []AuditEntryResponse `json:"entries"`
	TotalPage int                  `json:"total_page"`
	TotalData int                  `json:"total_data"`
}

func (r *GetAuditEntriesResponse) FromModels(models []model.AuditEntry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Entries = make([]AuditEntryResponse, len(models))
	for i, mod := range models {
		r.Entries[i].FromModel(mod)
	}
}
