package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/internal/domains/membership/model"
)

func TestMembershipStatusFor(t *testing.T) {
	// Join requests and memberships name the positive outcome
	// differently: an accepted request yields an approved membership.
	assert.Equal(t, model.MembershipApproved, model.MembershipStatusFor(model.JoinRequestAccepted))
	assert.Equal(t, model.MembershipRejected, model.MembershipStatusFor(model.JoinRequestRejected))
	assert.Equal(t, model.MembershipPending, model.MembershipStatusFor(model.JoinRequestPending))
}

func TestJoinRequestStatus_IsTerminal(t *testing.T) {
	assert.False(t, model.JoinRequestPending.IsTerminal())
	assert.True(t, model.JoinRequestAccepted.IsTerminal())
	assert.True(t, model.JoinRequestRejected.IsTerminal())
}

func TestMembershipRole_Valid(t *testing.T) {
	for _, role := range []model.MembershipRole{
		model.RoleAdmin,
		model.RoleManager,
		model.RoleFrontDesk,
		model.RoleHousekeeping,
		model.RoleMaintenance,
	} {
		assert.True(t, role.Valid(), string(role))
	}

	assert.False(t, model.MembershipRole("butler").Valid())
}
