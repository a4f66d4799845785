package permissions

// SubsetResult is the outcome of a dominance check between two permission
// sets. Violations lists every "module.action" the candidate grants beyond
// the parent, in taxonomy order.
type SubsetResult struct {
	Valid      bool     `json:"isValid"`
	Violations []string `json:"violations"`
}

// IsSubset reports whether candidate is a subset-or-equal of parent,
// module by module, action by action. A pair absent from the candidate
// reads as false and is never a violation; only candidate-exceeds-parent
// is. The check is pure and order-independent: the same inputs always
// produce the same violation list.
func IsSubset(parent, candidate Set) SubsetResult {
	var violations []string
	for _, m := range Modules() {
		for _, a := range ActionsFor(m) {
			if candidate.Read(m, a) && !parent.Read(m, a) {
				violations = append(violations, Key(m, a))
			}
		}
	}
	return SubsetResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}
