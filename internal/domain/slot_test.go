package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velokitchen/VK-BookingService/pkg/types"
)

func testShift(start, end string) *Shift {
	return &Shift{
		ID:        1,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
		IsOpen:    true,
	}
}

func TestSlotFits(t *testing.T) {
	shift := testShift("14:00", "18:00")

	tests := []struct {
		name     string
		slot     string
		duration int
		want     bool
	}{
		{"first slot, quick repair", "14:00", 30, true},
		{"mid shift, hour long repair", "16:00", 60, true},
		{"repair ends exactly at close", "17:00", 60, true},
		{"repair overruns the close", "17:30", 60, false},
		{"last slot accepts a quick repair", "17:30", 30, true},
		{"last slot rejects anything longer", "17:30", 45, false},
		{"off the half-hour grid", "14:15", 30, false},
		{"before the shift opens", "13:30", 30, false},
		{"at the shift close", "18:00", 30, false},
		{"after the shift close", "18:30", 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SlotFits(shift, types.TimeString(tt.slot), tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotFits_GridAnchoredAtShiftStart(t *testing.T) {
	// shift starts at 14:15, so the grid runs 14:15, 14:45, ...
	shift := testShift("14:15", "18:15")

	ok, err := SlotFits(shift, types.TimeString("14:45"), 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = SlotFits(shift, types.TimeString("15:00"), 30)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotFits_InvalidTimes(t *testing.T) {
	shift := testShift("14:00", "18:00")

	_, err := SlotFits(shift, types.TimeString("not a time"), 30)
	assert.Error(t, err)

	broken := testShift("oops", "18:00")
	_, err = SlotFits(broken, types.TimeString("14:00"), 30)
	assert.Error(t, err)
}

func TestShift_ValidWindow(t *testing.T) {
	assert.True(t, testShift("14:00", "18:00").ValidWindow())
	assert.False(t, testShift("18:00", "14:00").ValidWindow())
	assert.False(t, testShift("14:00", "14:00").ValidWindow())
	assert.False(t, testShift("", "18:00").ValidWindow())
}

func TestShift_IsSignedUp(t *testing.T) {
	shift := testShift("14:00", "18:00")
	shift.Mechanics = []StaffMember{{UserID: 1}, {UserID: 2}}
	shift.Hosts = []StaffMember{{UserID: 3}}

	assert.True(t, shift.IsSignedUp(1, RoleMechanic))
	assert.False(t, shift.IsSignedUp(1, RoleHost))
	assert.True(t, shift.IsSignedUp(3, RoleHost))
	assert.False(t, shift.IsSignedUp(4, RoleMechanic))
}
