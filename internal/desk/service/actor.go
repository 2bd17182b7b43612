package service

import (
	"strings"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/policy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Actor authenticated caller, threaded explicitly through every operation.
type Actor struct {
	ID    string
	Email string
	Role  entity.Role
}

func authorize(actor Actor, action policy.Action) error {
	if !policy.Allowed(actor.Role, action) {
		return &AuthorizationError{Action: action, Role: actor.Role}
	}
	return nil
}

// authorizeOwner passes when the role is granted the action or the actor
// owns the record.
func authorizeOwner(actor Actor, action policy.Action, ownerID string) error {
	if !policy.AllowedOrOwner(actor.Role, action, actor.ID, ownerID) {
		return &AuthorizationError{Action: action, Role: actor.Role, Reason: "not the owner"}
	}
	return nil
}

// RoleTitle renders a role for humans: assistant_manager -> Assistant Manager.
func RoleTitle(role entity.Role) string {
	// Casers carry state; one per call.
	return cases.Title(language.English).String(strings.ReplaceAll(string(role), "_", " "))
}
