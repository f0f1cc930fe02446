// Package rbac is the permission oracle: a total function from
// (resource, role, action, optional instance) to allow/deny. Combinations not
// present in the grant table are denied.
package rbac

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

var allActions = []domain.Action{
	domain.ActionCreate,
	domain.ActionRetrieve,
	domain.ActionUpdate,
	domain.ActionDelete,
	domain.ActionList,
}

// grants maps role -> resource -> allowed actions. An empty resource key ""
// grants the actions on every resource.
var grants = map[domain.Role]map[string][]domain.Action{
	domain.RoleSuperadmin: {"": allActions},
	domain.RoleAdmin:      {"": allActions},
	domain.RoleWorker: {
		"order": {domain.ActionRetrieve, domain.ActionUpdate, domain.ActionList},
	},
	// client: the admin API is staff-only, no grants.
}

// Allowed reports whether role may perform action on the given resource.
// Instance-level checks receive the concrete document; create and list pass
// nil. For workers, retrieve/update of an order additionally require the
// instance to be ticketed.
func Allowed(resource string, role domain.Role, action domain.Action, instance bson.M) bool {
	byResource, ok := grants[role]
	if !ok {
		return false
	}
	actions, ok := byResource[resource]
	if !ok {
		actions, ok = byResource[""]
		if !ok {
			return false
		}
	}
	if !containsAction(actions, action) {
		return false
	}
	if role == domain.RoleWorker && instance != nil && !domain.IsTicketedDoc(instance) {
		return false
	}
	return true
}

func containsAction(actions []domain.Action, action domain.Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
