// Package policy holds the role table guarding every workflow operation.
package policy

import "github.com/bitfantasy/assetdesk/internal/desk/entity"

// Action guarded workflow operation
type Action string

const (
	ComplaintForwardComponents Action = "complaint.forward_components"
	ComplaintForwardManager    Action = "complaint.forward_manager"
	ComplaintReject            Action = "complaint.reject"
	ComplaintResolve           Action = "complaint.resolve"
	ComplaintViewATS           Action = "complaint.view_ats"
	ComplaintViewAssistant     Action = "complaint.view_assistant_manager"
	ComplaintViewManager       Action = "complaint.view_manager"
	ComplaintViewComponents    Action = "complaint.view_components"
	ComplaintUploadImage       Action = "complaint.upload_image"
	QuoteCreate                Action = "quote.create"
	QuoteCreateFromComplaint   Action = "quote.create_from_complaint"
	QuoteUpdate                Action = "quote.update"
	QuoteAddVendor             Action = "quote.add_vendor"
	QuoteRemoveVendor          Action = "quote.remove_vendor"
	QuoteDelete                Action = "quote.delete"
	QuoteSubmitResponse        Action = "quote.submit_response"
	QuoteReview                Action = "quote.review"
	QuoteExport                Action = "quote.export"
	QuoteView                  Action = "quote.view"
	QuoteViewVendor            Action = "quote.view_vendor"

	// granted to no role; only the recipient passes
	NotificationManage Action = "notification.manage"
)

var (
	ats       = entity.RoleATS
	assistant = entity.RoleAssistantManager
	manager   = entity.RoleManager
	admin     = entity.RoleAdmin
	vendor    = entity.RoleVendor
	employee  = entity.RoleEmployee
)

// table: action -> roles allowed without any ownership check.
var table = map[Action][]entity.Role{
	ComplaintForwardComponents: {ats},
	ComplaintForwardManager:    {assistant},
	ComplaintReject:            {manager, assistant, admin},
	ComplaintResolve:           {ats},
	ComplaintViewATS:           {ats, admin},
	ComplaintViewAssistant:     {assistant, admin},
	ComplaintViewManager:       {manager, admin},
	ComplaintViewComponents:    {ats, assistant, manager, admin},
	ComplaintUploadImage:       {employee, ats, assistant, manager, admin},
	QuoteCreate:                {manager, admin},
	QuoteCreateFromComplaint:   {admin, manager, assistant, ats},
	QuoteUpdate:                {manager, admin},
	QuoteAddVendor:             {manager, admin},
	QuoteRemoveVendor:          {manager, admin},
	QuoteDelete:                {manager, admin},
	QuoteSubmitResponse:        {vendor, manager, admin},
	QuoteReview:                {manager, admin},
	QuoteExport:                {manager, admin},
	QuoteView:                  {manager, admin, assistant, ats},
	QuoteViewVendor:            {vendor},
}

// Allowed reports whether role may perform action. Unknown actions are denied.
func Allowed(role entity.Role, action Action) bool {
	for _, r := range table[action] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedOrOwner is Allowed, widened to the owner of the target record.
func AllowedOrOwner(role entity.Role, action Action, actorID, ownerID string) bool {
	if Allowed(role, action) {
		return true
	}
	return actorID != "" && actorID == ownerID
}

// Roles lists the roles granted action.
func Roles(action Action) []entity.Role {
	out := make([]entity.Role, len(table[action]))
	copy(out, table[action])
	return out
}
