package permissions

import (
	"errors"
	"fmt"
)

// Module is a business-domain permission bucket. The set is closed:
// adding a module is a code change, never runtime configuration.
type Module string

const (
	ModuleOrders    Module = "orders"
	ModuleCustomers Module = "customers"
	ModuleBranches  Module = "branches"
	ModuleServices  Module = "services"
	ModuleFinancial Module = "financial"
	ModuleReports   Module = "reports"
	ModuleUsers     Module = "users"
	ModuleSettings  Module = "settings"
)

// Action is an operation name within a module.
type Action string

const (
	// Common actions, supported by every module
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	// Advanced actions, per module
	ActionAssign         Action = "assign"
	ActionCancel         Action = "cancel"
	ActionRefund         Action = "refund"
	ActionApprove        Action = "approve"
	ActionExport         Action = "export"
	ActionAssignRole     Action = "assignRole"
	ActionApproveChanges Action = "approveChanges"
)

// ErrInvalidModuleOrAction signals a (module, action) pair outside the taxonomy.
// It is an input-validation error; runtime permission checks never return it.
var ErrInvalidModuleOrAction = errors.New("invalid module or action")

var moduleOrder = []Module{
	ModuleOrders,
	ModuleCustomers,
	ModuleBranches,
	ModuleServices,
	ModuleFinancial,
	ModuleReports,
	ModuleUsers,
	ModuleSettings,
}

var commonActions = []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete}

var advancedActions = map[Module][]Action{
	ModuleOrders:    {ActionAssign, ActionCancel, ActionRefund},
	ModuleFinancial: {ActionApprove, ActionExport},
	ModuleReports:   {ActionExport},
	ModuleUsers:     {ActionAssignRole},
	ModuleServices:  {ActionApproveChanges},
}

// Modules returns all modules in declaration order.
func Modules() []Module {
	out := make([]Module, len(moduleOrder))
	copy(out, moduleOrder)
	return out
}

// ActionsFor returns the valid actions for a module: the common actions
// followed by the module's advanced actions, in declaration order.
// Returns nil for a module outside the taxonomy.
func ActionsFor(m Module) []Action {
	if !validModule(m) {
		return nil
	}
	out := make([]Action, 0, len(commonActions)+len(advancedActions[m]))
	out = append(out, commonActions...)
	out = append(out, advancedActions[m]...)
	return out
}

// IsValid reports whether (module, action) is part of the taxonomy.
func IsValid(m Module, a Action) bool {
	for _, valid := range ActionsFor(m) {
		if valid == a {
			return true
		}
	}
	return false
}

// Validate returns ErrInvalidModuleOrAction (wrapped with the offending pair)
// when (module, action) is not part of the taxonomy. Use it to validate
// caller input; use Read for runtime checks, which are total and default-deny.
func Validate(m Module, a Action) error {
	if !IsValid(m, a) {
		return fmt.Errorf("%w: %s", ErrInvalidModuleOrAction, Key(m, a))
	}
	return nil
}

// Key renders a (module, action) pair in the canonical "module.action" form
// used in violation lists and deny diagnostics.
func Key(m Module, a Action) string {
	return string(m) + "." + string(a)
}

func validModule(m Module) bool {
	for _, mod := range moduleOrder {
		if mod == m {
			return true
		}
	}
	return false
}
