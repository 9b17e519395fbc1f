package domain

// Slot grid constants
const (
	// SlotStepMinutes is the fixed cadence of bookable start times within a
	// shift. Compiled in, not configurable at runtime.
	SlotStepMinutes = 30

	// QuickRepairMinutes is the longest repair allowed to start in the final
	// cadence slot of a shift. The last slot is reserved for quick fixes.
	QuickRepairMinutes = 30
)

// Business validation constants
const (
	MinRepairDurationMinutes = 30
	MaxRepairDurationMinutes = 120
	MaxNotesLength           = 500
	MaxCancelReasonLength    = 500

	DefaultWeeksAhead = 4
	MaxWeeksAhead     = 12
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот.
// Отменённое бронирование немедленно освобождает своё время.
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, занимающих слот.
// Используется для фильтрации при подсчёте доступных слотов.
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}
