package notify

import "time"

// Типы событий для почтового сервиса
const (
	EventBookingCreated       = "booking.created"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingStatusChanged = "booking.status_changed"
)

// Кто инициировал отмену
const (
	CancelledByUser  = "user"
	CancelledByAdmin = "admin"
)

// Envelope общий конверт исходящего события
type Envelope struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Booking    BookingPayload `json:"booking"`
}

// BookingPayload снимок бронирования для потребителей событий.
// Вся переписка с клиентом идёт по email, поэтому он присутствует всегда.
type BookingPayload struct {
	BookingID       int64  `json:"booking_id"`
	ShiftID         int64  `json:"shift_id"`
	ShiftDate       string `json:"shift_date"` // YYYY-MM-DD
	SlotTime        string `json:"slot_time"`  // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
	RepairType      string `json:"repair_type"`
	Email           string `json:"email"`
	UserID          *int64 `json:"user_id,omitempty"`
	Status          string `json:"status"`
	CancelledBy     string `json:"cancelled_by,omitempty"`
	Reason          string `json:"reason,omitempty"`
}
