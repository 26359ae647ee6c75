// Package access maps employee roles to the actions they may perform.
// The ledger itself is role-agnostic; callers consult this table at the boundary.
package access

import "github.com/brewops/brewops/internal/models"

// Capability is a permission to perform a class of actions.
type Capability string

const (
	MutateInventory Capability = "mutate_inventory"
	DeleteInventory Capability = "delete_inventory"
	ManageRecipes   Capability = "manage_recipes"
	ExecuteBrew     Capability = "execute_brew"
	ManageSchedule  Capability = "manage_schedule"
	ManageTasks     Capability = "manage_tasks"
	ManageEmployees Capability = "manage_employees"
)

// Capabilities is the set of actions granted to a role.
type Capabilities map[Capability]bool

var table = map[models.Role]Capabilities{
	models.RoleAdmin: {
		MutateInventory: true,
		DeleteInventory: true,
		ManageRecipes:   true,
		ExecuteBrew:     true,
		ManageSchedule:  true,
		ManageTasks:     true,
		ManageEmployees: true,
	},
	models.RoleBrewer: {
		MutateInventory: true,
		DeleteInventory: true,
		ManageRecipes:   true,
		ExecuteBrew:     true,
		ManageSchedule:  true,
		ManageTasks:     true,
	},
	models.RoleAssistant: {
		MutateInventory: true,
		ExecuteBrew:     true,
	},
	models.RoleTester: {},
}

// For returns the capabilities of role. Unknown roles get none.
func For(role models.Role) Capabilities {
	if caps, ok := table[role]; ok {
		return caps
	}
	return Capabilities{}
}

// Can reports whether the set grants c.
func (c Capabilities) Can(capability Capability) bool {
	return c[capability]
}

// Allowed reports whether role may use capability.
func Allowed(role models.Role, capability Capability) bool {
	return For(role).Can(capability)
}

// Denied is the message shown when a role lacks a capability.
const Denied = "Недостаточно прав для этого действия."
