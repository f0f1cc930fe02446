package rbac

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

func TestAllowed_AdminRolesFullAccess(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSuperadmin} {
		for _, res := range domain.Registry() {
			for _, action := range domain.Actions {
				if !Allowed(res.Name, role, action, nil) {
					t.Errorf("expected %s to be allowed %s on %s", role, action, res.Name)
				}
			}
		}
	}
}

func TestAllowed_UndefinedCombinationsDeny(t *testing.T) {
	for _, res := range domain.Registry() {
		for _, action := range domain.Actions {
			if Allowed(res.Name, domain.RoleClient, action, nil) {
				t.Errorf("client must not be allowed %s on %s", action, res.Name)
			}
			if Allowed(res.Name, domain.Role("ghost"), action, nil) {
				t.Errorf("unknown role must not be allowed %s on %s", action, res.Name)
			}
		}
	}
}

func TestAllowed_WorkerOrderOnly(t *testing.T) {
	for _, res := range domain.Registry() {
		for _, action := range domain.Actions {
			got := Allowed(res.Name, domain.RoleWorker, action, nil)
			want := res.Name == "order" &&
				(action == domain.ActionRetrieve || action == domain.ActionUpdate || action == domain.ActionList)
			if got != want {
				t.Errorf("worker %s on %s: got %v, want %v", action, res.Name, got, want)
			}
		}
	}
}

func TestAllowed_WorkerTicketedInstanceScope(t *testing.T) {
	ticketed := bson.M{"service_id": "t_manual_vpn"}
	automated := bson.M{"service_id": "api_likes"}

	if !Allowed("order", domain.RoleWorker, domain.ActionRetrieve, ticketed) {
		t.Fatalf("worker must retrieve ticketed orders")
	}
	if Allowed("order", domain.RoleWorker, domain.ActionRetrieve, automated) {
		t.Fatalf("worker must not retrieve automated orders")
	}
	if Allowed("order", domain.RoleWorker, domain.ActionUpdate, automated) {
		t.Fatalf("worker must not update automated orders")
	}
	// Admin is not instance-scoped.
	if !Allowed("order", domain.RoleAdmin, domain.ActionUpdate, automated) {
		t.Fatalf("admin must update any order")
	}
}
