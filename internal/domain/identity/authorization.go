package identity

import (
	"fmt"

	"github.com/wms/backend/internal/domain/shared"
)

// Actor is the authenticated subject of a request
type Actor struct {
	UserID int64
	Role   Role
}

// Action is an operation on a resource
type Action string

const (
	ActionRead       Action = "read"
	ActionWrite      Action = "write"
	ActionDelete     Action = "delete"
	ActionChangeRole Action = "change_role"
)

// ResourceKind names a protected area of the system
type ResourceKind string

const (
	ResourceCatalog   ResourceKind = "catalog"
	ResourcePartner   ResourceKind = "partner"
	ResourceTrade     ResourceKind = "trade"
	ResourceInventory ResourceKind = "inventory"
	ResourceReport    ResourceKind = "report"
	ResourceUser      ResourceKind = "user"
)

// Resource is the target of an action. OwnerID is the user the resource
// belongs to and is only meaningful for user resources; 0 means the
// collection rather than a single user.
type Resource struct {
	Kind    ResourceKind
	OwnerID int64
}

// UserResource targets a single user account
func UserResource(userID int64) Resource {
	return Resource{Kind: ResourceUser, OwnerID: userID}
}

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  string
}

// Err converts a denial into a FORBIDDEN domain error
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return shared.Forbiddenf("%s", d.Reason)
}

func allow() Decision { return Decision{Allowed: true} }

func deny(format string, args ...any) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

// Authorize is the single policy decision point for the API.
//
//   - catalog, partner, trade, inventory and report: any valid role
//   - user collection reads: manager or admin
//   - single user read and write: the user themselves or an admin
//   - role changes and user deletion: admin only
func Authorize(actor Actor, action Action, resource Resource) Decision {
	if actor.UserID <= 0 || !actor.Role.IsValid() {
		return deny("A valid user role is required")
	}

	switch resource.Kind {
	case ResourceCatalog, ResourcePartner, ResourceTrade, ResourceInventory, ResourceReport:
		if actor.Role.AtLeast(RoleStaff) {
			return allow()
		}
		return deny("Staff access required")

	case ResourceUser:
		return authorizeUser(actor, action, resource)
	}

	return deny("Unknown resource %q", resource.Kind)
}

func authorizeUser(actor Actor, action Action, resource Resource) Decision {
	isAdmin := actor.Role == RoleAdmin
	isSelf := resource.OwnerID != 0 && resource.OwnerID == actor.UserID

	switch action {
	case ActionRead:
		if resource.OwnerID == 0 {
			if actor.Role.AtLeast(RoleManager) {
				return allow()
			}
			return deny("Manager or Admin access required")
		}
		if isSelf || isAdmin {
			return allow()
		}
		return deny("You are not allowed to view other users")
	case ActionWrite:
		if isSelf || isAdmin {
			return allow()
		}
		return deny("You are not allowed to update other users")
	case ActionChangeRole:
		if isAdmin {
			return allow()
		}
		return deny("Only admin can change user roles")
	case ActionDelete:
		if isAdmin {
			return allow()
		}
		return deny("Only admin can delete users")
	}
	return deny("Unknown action %q", action)
}
