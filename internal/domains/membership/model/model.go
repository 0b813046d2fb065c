package model

import (
	"time"

	"innkeep/shared/model"
)

const (
	MembershipTableName  = "hotel_memberships"
	MembershipEntityName = "hotel_membership"

	JoinRequestTableName  = "join_requests"
	JoinRequestEntityName = "join_request"
)

const (
	FieldID        = "id"
	FieldHotelID   = "hotel_id"
	FieldUserID    = "user_id"
	FieldRole      = "role"
	FieldStatus    = "status"
	FieldDecidedBy = "decided_by"
	FieldDecidedAt = "decided_at"
)

type MembershipRole string

const (
	RoleAdmin        MembershipRole = "admin"
	RoleManager      MembershipRole = "manager"
	RoleFrontDesk    MembershipRole = "front_desk"
	RoleHousekeeping MembershipRole = "housekeeping"
	RoleMaintenance  MembershipRole = "maintenance"
)

func (r MembershipRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleFrontDesk, RoleHousekeeping, RoleMaintenance:
		return true
	default:
		return false
	}
}

type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipApproved MembershipStatus = "approved"
	MembershipRejected MembershipStatus = "rejected"
)

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestAccepted JoinRequestStatus = "accepted"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// IsTerminal reports whether the request has been decided. Decided
// requests never change again.
func (s JoinRequestStatus) IsTerminal() bool {
	return s == JoinRequestAccepted || s == JoinRequestRejected
}

// MembershipStatusFor translates a join-request decision into the
// paired membership status. The vocabularies differ on the positive
// case: an accepted request yields an approved membership.
func MembershipStatusFor(s JoinRequestStatus) MembershipStatus {
	switch s {
	case JoinRequestAccepted:
		return MembershipApproved
	case JoinRequestRejected:
		return MembershipRejected
	default:
		return MembershipPending
	}
}

// Membership records a worker's standing at a hotel. It is created in
// lock step with a join request and only moves when the request is
// decided.
type Membership struct {
	ID      string           `db:"id" json:"id"`
	HotelID string           `db:"hotel_id" json:"hotel_id"`
	UserID  string           `db:"user_id" json:"user_id"`
	Role    MembershipRole   `db:"role" json:"role"`
	Status  MembershipStatus `db:"status" json:"status"`
	model.Metadata
}

type JoinRequest struct {
	ID        string            `db:"id" json:"id"`
	HotelID   string            `db:"hotel_id" json:"hotel_id"`
	UserID    string            `db:"user_id" json:"user_id"`
	Status    JoinRequestStatus `db:"status" json:"status"`
	DecidedBy *string           `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt *time.Time        `db:"decided_at" json:"decided_at,omitempty"`
	model.Metadata
}
