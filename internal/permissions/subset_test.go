package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSubsetReflexive(t *testing.T) {
	for _, s := range []Set{EmptySet(), FullSet(), buildManager(), buildFinanceAdmin()} {
		result := IsSubset(s, s)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Violations)
	}
}

func TestIsSubsetEmptyCandidate(t *testing.T) {
	assert.True(t, IsSubset(EmptySet(), EmptySet()).Valid)
	assert.True(t, IsSubset(EmptySet(), make(Set)).Valid)
	var nilCandidate Set
	assert.True(t, IsSubset(EmptySet(), nilCandidate).Valid)
}

func TestIsSubsetParentExtrasAreFine(t *testing.T) {
	candidate := EmptySet()
	require.NoError(t, candidate.Grant(ModuleOrders, ActionView, true))

	result := IsSubset(FullSet(), candidate)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
}

func TestIsSubsetSingleExcessFlip(t *testing.T) {
	parent := buildManager()
	candidate := parent.Clone()
	require.NoError(t, candidate.Grant(ModuleFinancial, ActionView, true))

	result := IsSubset(parent, candidate)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"financial.view"}, result.Violations)
}

func TestIsSubsetReportsAllViolations(t *testing.T) {
	parent := EmptySet()
	require.NoError(t, parent.Grant(ModuleOrders, ActionView, true))
	require.NoError(t, parent.Grant(ModuleOrders, ActionCreate, true))

	candidate := EmptySet()
	require.NoError(t, candidate.Grant(ModuleOrders, ActionView, true))
	require.NoError(t, candidate.Grant(ModuleOrders, ActionRefund, true))
	require.NoError(t, candidate.Grant(ModuleFinancial, ActionView, true))
	require.NoError(t, candidate.Grant(ModuleUsers, ActionAssignRole, true))

	result := IsSubset(parent, candidate)
	assert.False(t, result.Valid)
	// Violations follow taxonomy order and list every excess pair, not just the first.
	assert.Equal(t, []string{"orders.refund", "financial.view", "users.assignRole"}, result.Violations)
}

func TestIsSubsetDeterministic(t *testing.T) {
	parent := buildViewer()
	candidate := buildBranchManager()

	first := IsSubset(parent, candidate)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, IsSubset(parent, candidate))
	}
}

func TestIsSubsetSparseCandidateAbsenceIsNotViolation(t *testing.T) {
	parent := EmptySet()
	require.NoError(t, parent.Grant(ModuleOrders, ActionView, true))

	// Candidate omits entire modules; absence reads as false and never violates.
	candidate := Set{ModuleOrders: {ActionView: true}}
	assert.True(t, IsSubset(parent, candidate).Valid)

	// An explicit false is likewise not a violation.
	candidate[ModuleFinancial] = map[Action]bool{ActionApprove: false}
	assert.True(t, IsSubset(parent, candidate).Valid)
}
