package get_available_slots

import (
	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/usecase/get_available_slots"
)

// SlotPayload один слот сетки
type SlotPayload struct {
	Time      string `json:"time"` // "14:30"
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"` // "booked" | "insufficient_time"
}

// ShiftSlotsPayload слоты одной смены
type ShiftSlotsPayload struct {
	ShiftID   int64         `json:"shiftId"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Notes     *string       `json:"notes,omitempty"`
	Slots     []SlotPayload `json:"slots"`
}

// GetAvailableSlotsResponse HTTP response model
type GetAvailableSlotsResponse struct {
	Date            string              `json:"date"` // "2026-04-18"
	DurationMinutes int                 `json:"durationMinutes"`
	Shifts          []ShiftSlotsPayload `json:"shifts"`
}

// FromUsecaseResponse конвертирует ответ usecase в HTTP response
func FromUsecaseResponse(resp *get_available_slots.Response) *GetAvailableSlotsResponse {
	out := &GetAvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Shifts:          make([]ShiftSlotsPayload, 0, len(resp.Shifts)),
	}

	for _, shift := range resp.Shifts {
		slots := make([]SlotPayload, 0, len(shift.Slots))
		for _, s := range shift.Slots {
			slots = append(slots, SlotPayload{
				Time:      s.Time.String(),
				Available: s.Available,
				Reason:    string(s.Reason),
			})
		}
		out.Shifts = append(out.Shifts, ShiftSlotsPayload{
			ShiftID:   shift.ShiftID,
			StartTime: shift.StartTime.String(),
			EndTime:   shift.EndTime.String(),
			Notes:     shift.Notes,
			Slots:     slots,
		})
	}

	return out
}
