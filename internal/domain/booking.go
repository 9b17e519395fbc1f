package domain

import (
	"strings"
	"time"

	"github.com/velokitchen/VK-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
	StatusCancelled BookingStatus = "cancelled"
)

// statusTransitions is the allowed status state machine. Confirmed bookings
// can complete, no-show or cancel; every other status is terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
	StatusCompleted: {},
	StatusNoShow:    {},
	StatusCancelled: {},
}

// ValidBookingStatus reports whether s is a known status value.
func ValidBookingStatus(s BookingStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// Booking represents a customer's reserved slot within a shift
type Booking struct {
	ID              int64
	ShiftID         int64
	UserID          *int64 // nil means guest booking
	Email           string // always present; guest identity and correspondence
	SlotTime        types.TimeString
	DurationMinutes int
	RepairType      RepairType
	RepairDetails   RepairDetails
	Status          BookingStatus
	Notes           *string
	IsMember        bool // membership snapshot at booking time

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsGuest returns true for bookings made without a registered account
func (b *Booking) IsGuest() bool {
	return b.UserID == nil
}

// OwnedByUser reports whether the booking belongs to the given user id
func (b *Booking) OwnedByUser(userID int64) bool {
	return b.UserID != nil && *b.UserID == userID
}

// EmailMatches compares booker emails case-insensitively
func (b *Booking) EmailMatches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(b.Email), strings.TrimSpace(email))
}

// CanTransitionTo reports whether the status state machine allows moving
// from the current status to next.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BookingsFilter задаёт выборку бронирований
type BookingsFilter struct {
	ShiftIDs         []int64        // Бронирования указанных смен (пусто - без ограничения)
	UserID           *int64         // Фильтр по пользователю (опционально)
	Email            *string        // Фильтр по email (опционально, без учёта регистра)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отменённые бронирования
}
