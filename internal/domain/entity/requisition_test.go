package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// El workflow solo admite las transiciones enumeradas; todo lo demás es
// inválido desde cualquier estado alcanzable.
func TestRequisitionStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.RequisitionStatus
		ok       bool
	}{
		{entity.RequisitionDraft, entity.RequisitionPending, true},
		{entity.RequisitionDraft, entity.RequisitionCancelled, true},
		{entity.RequisitionDraft, entity.RequisitionApproved, false},
		{entity.RequisitionDraft, entity.RequisitionFulfilled, false},
		{entity.RequisitionPending, entity.RequisitionApproved, true},
		{entity.RequisitionPending, entity.RequisitionRejected, true},
		{entity.RequisitionPending, entity.RequisitionCancelled, true},
		{entity.RequisitionPending, entity.RequisitionFulfilled, false},
		{entity.RequisitionPending, entity.RequisitionDraft, false},
		{entity.RequisitionApproved, entity.RequisitionFulfilled, true},
		{entity.RequisitionApproved, entity.RequisitionCancelled, true},
		{entity.RequisitionApproved, entity.RequisitionRejected, false},
		{entity.RequisitionFulfilled, entity.RequisitionCancelled, false},
		{entity.RequisitionRejected, entity.RequisitionPending, false},
		{entity.RequisitionCancelled, entity.RequisitionDraft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestRequisitionStatus_Terminales(t *testing.T) {
	assert.True(t, entity.RequisitionFulfilled.Terminal())
	assert.True(t, entity.RequisitionRejected.Terminal())
	assert.True(t, entity.RequisitionCancelled.Terminal())
	assert.False(t, entity.RequisitionDraft.Terminal())
	assert.False(t, entity.RequisitionPending.Terminal())
	assert.False(t, entity.RequisitionApproved.Terminal())
}

func TestAdjustmentType_Valid(t *testing.T) {
	assert.True(t, entity.AdjustmentAdd.Valid())
	assert.True(t, entity.AdjustmentRemove.Valid())
	assert.True(t, entity.AdjustmentSet.Valid())
	assert.False(t, entity.AdjustmentType("destroy").Valid())
	assert.False(t, entity.AdjustmentType("").Valid())
}
