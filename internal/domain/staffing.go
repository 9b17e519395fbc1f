package domain

// PendingStaffingChange is one queued roster toggle: the user clicked a
// (shift, role) cell while planning in edit mode.
type PendingStaffingChange struct {
	ShiftID int64
	Role    StaffRole
}

// PendingStaffingChanges accumulates roster toggles during an edit session.
// Toggling the same (shift, role) pair twice cancels out instead of
// double-toggling; the surviving pairs are applied together on save.
type PendingStaffingChanges struct {
	changes []PendingStaffingChange
}

// NewPendingStaffingChanges starts an empty edit session.
func NewPendingStaffingChanges() *PendingStaffingChanges {
	return &PendingStaffingChanges{}
}

// Toggle records a click on (shiftID, role). A pair already present is
// removed; a new pair is appended.
func (p *PendingStaffingChanges) Toggle(shiftID int64, role StaffRole) {
	for i, c := range p.changes {
		if c.ShiftID == shiftID && c.Role == role {
			p.changes = append(p.changes[:i], p.changes[i+1:]...)
			return
		}
	}
	p.changes = append(p.changes, PendingStaffingChange{ShiftID: shiftID, Role: role})
}

// Contains reports whether the pair is currently pending.
func (p *PendingStaffingChanges) Contains(shiftID int64, role StaffRole) bool {
	for _, c := range p.changes {
		if c.ShiftID == shiftID && c.Role == role {
			return true
		}
	}
	return false
}

// Empty reports whether there is nothing to save.
func (p *PendingStaffingChanges) Empty() bool {
	return len(p.changes) == 0
}

// Changes returns the surviving pairs in click order. Each pair touches a
// distinct shift+role, so apply order is immaterial.
func (p *PendingStaffingChanges) Changes() []PendingStaffingChange {
	out := make([]PendingStaffingChange, len(p.changes))
	copy(out, p.changes)
	return out
}

// Clear drops all pending pairs after a save.
func (p *PendingStaffingChanges) Clear() {
	p.changes = nil
}
