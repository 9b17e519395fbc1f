package get_available_slots

import (
	"fmt"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

// buildSlots строит сетку слотов смены с шагом 30 минут.
// Слот недоступен, если он занят активным бронированием (booked)
// или если ремонт выбранной длительности не успевает завершиться
// до конца смены (insufficient_time). Занятость проверяется первой.
// Последний слот смены принимает только быстрый ремонт (30 минут),
// даже когда смена формально длится дольше после него.
func buildSlots(shift *domain.Shift, durationMinutes int, bookings []*domain.Booking) ([]domain.TimeSlot, error) {
	startMin, err := shift.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("shift %d start time: %v", shift.ID, err)
	}
	endMin, err := shift.EndTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("shift %d end time: %v", shift.ID, err)
	}

	booked := make(map[types.TimeString]struct{}, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			booked[b.SlotTime] = struct{}{}
		}
	}

	var slots []domain.TimeSlot

	t := shift.StartTime
	for m := startMin; m < endMin; m += domain.SlotStepMinutes {
		slot := domain.TimeSlot{Time: t, Available: true}

		_, isBooked := booked[t]
		switch {
		case isBooked:
			slot.Available = false
			slot.Reason = domain.ReasonBooked
		case m+durationMinutes > endMin:
			slot.Available = false
			slot.Reason = domain.ReasonInsufficientTime
		case m+domain.SlotStepMinutes >= endMin && durationMinutes > domain.QuickRepairMinutes:
			// Последняя точка сетки: длинный ремонт сюда не помещается
			slot.Available = false
			slot.Reason = domain.ReasonInsufficientTime
		}

		slots = append(slots, slot)

		next, err := t.AddMinutes(domain.SlotStepMinutes)
		if err != nil {
			return nil, fmt.Errorf("shift %d slot grid: %v", shift.ID, err)
		}
		t = next
	}

	return slots, nil
}
