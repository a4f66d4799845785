package permissions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionsForOrdering(t *testing.T) {
	assert.Equal(t,
		[]Action{ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionAssign, ActionCancel, ActionRefund},
		ActionsFor(ModuleOrders))
	assert.Equal(t,
		[]Action{ActionView, ActionCreate, ActionUpdate, ActionDelete},
		ActionsFor(ModuleBranches))
	assert.Nil(t, ActionsFor(Module("inventory")))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(ModuleOrders, ActionRefund))
	assert.NoError(t, Validate(ModuleUsers, ActionAssignRole))

	err := Validate(ModuleBranches, ActionRefund)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidModuleOrAction)
	assert.Contains(t, err.Error(), "branches.refund")

	assert.Error(t, Validate(Module("inventory"), ActionView))
}

func TestReadDefaultDeny(t *testing.T) {
	// A nil set, an empty set, and a set missing the module or action all
	// read false for every well-formed pair, never panicking.
	var nilSet Set
	empty := make(Set)
	partial := Set{ModuleOrders: {ActionView: true}}

	for _, m := range Modules() {
		for _, a := range ActionsFor(m) {
			assert.False(t, nilSet.Read(m, a))
			assert.False(t, empty.Read(m, a))
		}
	}

	assert.True(t, partial.Read(ModuleOrders, ActionView))
	assert.False(t, partial.Read(ModuleOrders, ActionCreate))
	assert.False(t, partial.Read(ModuleFinancial, ActionView))
	// Pairs outside the taxonomy read false rather than erroring.
	assert.False(t, partial.Read(ModuleOrders, Action("publish")))
}

func TestEmptyAndFullSets(t *testing.T) {
	empty := EmptySet()
	full := FullSet()

	assert.True(t, empty.IsEmpty())
	assert.False(t, full.IsEmpty())

	for _, m := range Modules() {
		assert.Len(t, empty[m], len(ActionsFor(m)))
		for _, a := range ActionsFor(m) {
			assert.False(t, empty.Read(m, a))
			assert.True(t, full.Read(m, a))
		}
	}
}

func TestGrantRejectsUnknownPair(t *testing.T) {
	s := EmptySet()
	assert.NoError(t, s.Grant(ModuleFinancial, ActionApprove, true))
	assert.ErrorIs(t, s.Grant(ModuleSettings, ActionApprove, true), ErrInvalidModuleOrAction)
}

func TestCloneIsIndependent(t *testing.T) {
	original := FullSet()
	clone := original.Clone()
	clone[ModuleOrders][ActionView] = false

	assert.True(t, original.Read(ModuleOrders, ActionView))
	assert.False(t, clone.Read(ModuleOrders, ActionView))
}

func TestNormalizeFillsAndDrops(t *testing.T) {
	sparse := Set{
		ModuleOrders: {ActionView: true, Action("publish"): true},
	}
	normalized := sparse.Normalize()

	assert.True(t, normalized.Read(ModuleOrders, ActionView))
	for _, m := range Modules() {
		assert.Len(t, normalized[m], len(ActionsFor(m)))
	}
	_, hasStray := normalized[ModuleOrders][Action("publish")]
	assert.False(t, hasStray)
}

func TestJSONBRoundTrip(t *testing.T) {
	original := buildManager()

	value, err := original.Value()
	require.NoError(t, err)

	var restored Set
	require.NoError(t, restored.Scan(value.([]byte)))

	// Bit-for-bit: every boolean survives, no coercion to other types.
	assert.Equal(t, original, restored)

	var restoredJSON, originalJSON []byte
	restoredJSON, err = json.Marshal(restored)
	require.NoError(t, err)
	originalJSON, err = json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, originalJSON, restoredJSON)
}

func TestScanNil(t *testing.T) {
	var s Set
	require.NoError(t, s.Scan(nil))
	assert.NotNil(t, s)
	assert.True(t, s.IsEmpty())
}
