package domain

import (
	"fmt"

	"github.com/velokitchen/VK-BookingService/pkg/types"
)

// SlotReason explains why a slot is unavailable
type SlotReason string

const (
	// ReasonNone marks an available slot
	ReasonNone SlotReason = ""
	// ReasonBooked marks a slot taken by a non-cancelled booking
	ReasonBooked SlotReason = "booked"
	// ReasonInsufficientTime marks a slot where the repair would not finish
	// before the shift closes
	ReasonInsufficientTime SlotReason = "insufficient_time"
)

// TimeSlot is one candidate start time within a shift. Derived per request,
// never persisted or cached.
type TimeSlot struct {
	Time      types.TimeString
	Available bool
	Reason    SlotReason
}

// SlotFits reports whether a repair of the given duration may start at
// slotTime within the shift window. The start must lie on the 30-minute
// grid counted from the shift start, the repair must finish by the shift
// end, and the final grid point only accepts a quick repair. Occupancy is
// not checked here.
func SlotFits(shift *Shift, slotTime types.TimeString, durationMinutes int) (bool, error) {
	startMin, err := shift.StartTime.Minutes()
	if err != nil {
		return false, fmt.Errorf("shift %d start time: %v", shift.ID, err)
	}
	endMin, err := shift.EndTime.Minutes()
	if err != nil {
		return false, fmt.Errorf("shift %d end time: %v", shift.ID, err)
	}
	m, err := slotTime.Minutes()
	if err != nil {
		return false, fmt.Errorf("slot time: %v", err)
	}

	if m < startMin || m >= endMin {
		return false, nil
	}
	if (m-startMin)%SlotStepMinutes != 0 {
		return false, nil
	}
	if m+durationMinutes > endMin {
		return false, nil
	}
	if m+SlotStepMinutes >= endMin && durationMinutes > QuickRepairMinutes {
		return false, nil
	}
	return true, nil
}
