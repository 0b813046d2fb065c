package dto

import (
	"innkeep/internal/domains/membership/model"
	"innkeep/shared/constant"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
)

type CreateJoinRequestRequest struct {
	HotelID string `json:"hotel_id" validate:"required,uuid"`
	UserID  string `json:"user_id" validate:"required,uuid"`
}

// ToModels builds the request and its paired pending membership. Both
// rows share the create metadata so the pairing survives audits. The
// membership role defaults to housekeeping until approval assigns one.
func (c *CreateJoinRequestRequest) ToModels(user string) (model.JoinRequest, model.Membership) {
	now := timezone.Now()

	request := model.JoinRequest{
		ID:      uuid.NewString(),
		HotelID: c.HotelID,
		UserID:  c.UserID,
		Status:  model.JoinRequestPending,
	}
	request.CreatedAt = now
	request.CreatedBy = user
	request.ModifiedAt = now
	request.ModifiedBy = user

	membership := model.Membership{
		ID:      uuid.NewString(),
		HotelID: c.HotelID,
		UserID:  c.UserID,
		Role:    model.RoleHousekeeping,
		Status:  model.MembershipPending,
	}
	membership.CreatedAt = now
	membership.CreatedBy = user
	membership.ModifiedAt = now
	membership.ModifiedBy = user

	return request, membership
}

type ApproveJoinRequestRequest struct {
	Role model.MembershipRole `json:"role" validate:"required,oneof=admin manager front_desk housekeeping maintenance"`
}

type JoinRequestResponse struct {
	ID        string `json:"id"`
	HotelID   string `json:"hotel_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	DecidedBy string `json:"decided_by,omitempty"`
	DecidedAt string `json:"decided_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (j *JoinRequestResponse) FromModel(mod model.JoinRequest) {
	j.ID = mod.ID
	j.HotelID = mod.HotelID
	j.UserID = mod.UserID
	j.Status = string(mod.Status)
	j.CreatedAt = timezone.Format(mod.CreatedAt, constant.DateFormat)

	if mod.DecidedBy != nil {
		j.DecidedBy = *mod.DecidedBy
	}

	if mod.DecidedAt != nil {
		j.DecidedAt = timezone.Format(*mod.DecidedAt, constant.DateFormat)
	}
}

type GetJoinRequestsResponse struct {
	Requests []JoinRequestResponse `json:"requests"`
	Total    int                   `json:"total"`
}

func (g *GetJoinRequestsResponse) FromModels(models []model.JoinRequest, total int) {
	g.Total = total
	g.Requests = make([]JoinRequestResponse, len(models))

	for i, mod := range models {
		g.Requests[i].FromModel(mod)
	}
}

type MembershipResponse struct {
	ID        string `json:"id"`
	HotelID   string `json:"hotel_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (m *MembershipResponse) FromModel(mod model.Membership) {
	m.ID = mod.ID
	m.HotelID = mod.HotelID
	m.UserID = mod.UserID
	m.Role = string(mod.Role)
	m.Status = string(mod.Status)
	m.CreatedAt = timezone.Format(mod.CreatedAt, constant.DateFormat)
}

type GetMembershipsResponse struct {
	Memberships []MembershipResponse `json:"memberships"`
	Total       int                  `json:"total"`
}

func (g *GetMembershipsResponse) FromModels(models []model.Membership, total int) {
	g.Total = total
	g.Memberships = make([]MembershipResponse, len(models))

	for i, mod := range models {
		g.Memberships[i].FromModel(mod)
	}
}
