package get_available_slots

import (
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date            time.Time // Дата, на которую запрашиваются слоты (без времени)
	DurationMinutes int       // Длительность выбранного ремонта в минутах
}

// Response модель ответа со слотами по каждой открытой смене.
// Возвращаются ВСЕ открытые смены на дату; выбор остаётся за вызывающим.
type Response struct {
	Date            time.Time
	DurationMinutes int
	Shifts          []ShiftSlots
}

// ShiftSlots слоты одной смены
type ShiftSlots struct {
	ShiftID   int64
	StartTime types.TimeString
	EndTime   types.TimeString
	Notes     *string
	Slots     []domain.TimeSlot
}
