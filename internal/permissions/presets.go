package permissions

// PresetKey identifies a preset role template.
type PresetKey string

const (
	PresetViewer        PresetKey = "viewer"
	PresetManager       PresetKey = "manager"
	PresetFinanceAdmin  PresetKey = "financeAdmin"
	PresetBranchManager PresetKey = "branchManager"
)

// PresetRole is a named, fixed permission template usable as a creation
// shortcut in account-provisioning UIs.
type PresetRole struct {
	Key         PresetKey `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions Set       `json:"permissions"`
}

// PresetSummary is the list view of a preset, permissions omitted.
type PresetSummary struct {
	Key         PresetKey `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// The registry is built once at package init and never mutated afterwards,
// so concurrent reads need no coordination. GetPreset hands out deep copies
// to keep the templates bit-identical across calls.
var presetOrder = []PresetKey{PresetViewer, PresetManager, PresetFinanceAdmin, PresetBranchManager}

var presets = map[PresetKey]PresetRole{
	PresetViewer: {
		Key:         PresetViewer,
		Name:        "Viewer",
		Description: "Read-only access to every module",
		Permissions: buildViewer(),
	},
	PresetManager: {
		Key:         PresetManager,
		Name:        "Manager",
		Description: "Day-to-day operations on orders and customers",
		Permissions: buildManager(),
	},
	PresetFinanceAdmin: {
		Key:         PresetFinanceAdmin,
		Name:        "Finance Admin",
		Description: "Financial records, approvals, exports and refunds",
		Permissions: buildFinanceAdmin(),
	},
	PresetBranchManager: {
		Key:         PresetBranchManager,
		Name:        "Branch Manager",
		Description: "Broad access across all modules except financial approvals",
		Permissions: buildBranchManager(),
	},
}

// GetPreset returns a deep copy of the preset for key, or ok=false when the
// key is unknown. Repeated calls always yield bit-identical permissions.
func GetPreset(key PresetKey) (PresetRole, bool) {
	p, ok := presets[key]
	if !ok {
		return PresetRole{}, false
	}
	p.Permissions = p.Permissions.Clone()
	return p, true
}

// ListPresets returns summaries of every preset in registry order.
func ListPresets() []PresetSummary {
	out := make([]PresetSummary, 0, len(presetOrder))
	for _, key := range presetOrder {
		p := presets[key]
		out = append(out, PresetSummary{Key: p.Key, Name: p.Name, Description: p.Description})
	}
	return out
}

func buildViewer() Set {
	s := EmptySet()
	for _, m := range Modules() {
		s[m][ActionView] = true
	}
	return s
}

func buildManager() Set {
	s := EmptySet()
	grant(s, ModuleOrders, ActionView, ActionCreate, ActionUpdate, ActionAssign, ActionCancel)
	grant(s, ModuleCustomers, ActionView, ActionCreate, ActionUpdate)
	grant(s, ModuleBranches, ActionView)
	grant(s, ModuleServices, ActionView)
	grant(s, ModuleReports, ActionView, ActionExport)
	grant(s, ModuleUsers, ActionView, ActionCreate)
	return s
}

func buildFinanceAdmin() Set {
	s := EmptySet()
	grant(s, ModuleFinancial, ActionView, ActionCreate, ActionUpdate, ActionApprove, ActionExport)
	grant(s, ModuleReports, ActionView, ActionExport)
	grant(s, ModuleOrders, ActionView, ActionRefund)
	return s
}

func buildBranchManager() Set {
	s := FullSet()
	s[ModuleFinancial][ActionApprove] = false
	return s
}

func grant(s Set, m Module, actions ...Action) {
	for _, a := range actions {
		if err := s.Grant(m, a, true); err != nil {
			panic(err)
		}
	}
}
