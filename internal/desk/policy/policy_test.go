package policy

import (
	"testing"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/stretchr/testify/assert"
)

func TestAllowedTable(t *testing.T) {
	cases := []struct {
		role   entity.Role
		action Action
		want   bool
	}{
		{entity.RoleATS, ComplaintForwardComponents, true},
		{entity.RoleManager, ComplaintForwardComponents, false},
		{entity.RoleAdmin, ComplaintForwardComponents, false},
		{entity.RoleAssistantManager, ComplaintForwardManager, true},
		{entity.RoleManager, ComplaintForwardManager, false},
		{entity.RoleManager, ComplaintReject, true},
		{entity.RoleAssistantManager, ComplaintReject, true},
		{entity.RoleAdmin, ComplaintReject, true},
		{entity.RoleATS, ComplaintReject, false},
		{entity.RoleEmployee, ComplaintReject, false},
		{entity.RoleATS, ComplaintResolve, true},
		{entity.RoleManager, ComplaintResolve, false},
		{entity.RoleManager, QuoteCreate, true},
		{entity.RoleAdmin, QuoteCreate, true},
		{entity.RoleATS, QuoteCreate, false},
		{entity.RoleATS, QuoteCreateFromComplaint, true},
		{entity.RoleEmployee, QuoteCreateFromComplaint, false},
		{entity.RoleVendor, QuoteSubmitResponse, true},
		{entity.RoleManager, QuoteSubmitResponse, true},
		{entity.RoleATS, QuoteSubmitResponse, false},
		{entity.RoleManager, QuoteReview, true},
		{entity.RoleVendor, QuoteReview, false},
		{entity.RoleAssistantManager, QuoteReview, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Allowed(tc.role, tc.action), "%s %s", tc.role, tc.action)
	}
}

func TestUnknownActionDenied(t *testing.T) {
	assert.False(t, Allowed(entity.RoleAdmin, Action("complaint.delete_everything")))
	assert.Empty(t, Roles(Action("nope")))
}

func TestAllowedOrOwner(t *testing.T) {
	assert.True(t, AllowedOrOwner(entity.RoleManager, QuoteUpdate, "u1", "u2"))
	assert.True(t, AllowedOrOwner(entity.RoleATS, QuoteUpdate, "u1", "u1"))
	assert.False(t, AllowedOrOwner(entity.RoleATS, QuoteUpdate, "u1", "u2"))
	assert.False(t, AllowedOrOwner(entity.RoleATS, QuoteUpdate, "", ""))

	assert.False(t, AllowedOrOwner(entity.RoleAdmin, NotificationManage, "u1", "u2"))
	assert.True(t, AllowedOrOwner(entity.RoleEmployee, NotificationManage, "u1", "u1"))
}

func TestRolesReturnsCopy(t *testing.T) {
	r := Roles(QuoteCreate)
	r[0] = entity.RoleVendor
	assert.False(t, Allowed(entity.RoleVendor, QuoteCreate))
}
