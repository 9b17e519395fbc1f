package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingStaffingChanges_Toggle(t *testing.T) {
	p := NewPendingStaffingChanges()
	assert.True(t, p.Empty())

	p.Toggle(1, RoleMechanic)
	assert.True(t, p.Contains(1, RoleMechanic))
	assert.False(t, p.Empty())

	// a second click on the same pair cancels it out
	p.Toggle(1, RoleMechanic)
	assert.False(t, p.Contains(1, RoleMechanic))
	assert.True(t, p.Empty())
}

func TestPendingStaffingChanges_RolesAreIndependent(t *testing.T) {
	p := NewPendingStaffingChanges()

	p.Toggle(1, RoleMechanic)
	p.Toggle(1, RoleHost)
	p.Toggle(1, RoleMechanic)

	assert.False(t, p.Contains(1, RoleMechanic))
	assert.True(t, p.Contains(1, RoleHost))
}

func TestPendingStaffingChanges_ChangesKeepClickOrder(t *testing.T) {
	p := NewPendingStaffingChanges()

	p.Toggle(3, RoleHost)
	p.Toggle(1, RoleMechanic)
	p.Toggle(2, RoleMechanic)
	p.Toggle(1, RoleMechanic) // cancels the second pair

	changes := p.Changes()
	assert.Equal(t, []PendingStaffingChange{
		{ShiftID: 3, Role: RoleHost},
		{ShiftID: 2, Role: RoleMechanic},
	}, changes)

	// Changes returns a copy
	changes[0].ShiftID = 99
	assert.True(t, p.Contains(3, RoleHost))
}

func TestPendingStaffingChanges_Clear(t *testing.T) {
	p := NewPendingStaffingChanges()
	p.Toggle(1, RoleMechanic)
	p.Toggle(2, RoleHost)

	p.Clear()
	assert.True(t, p.Empty())
	assert.Empty(t, p.Changes())
}
