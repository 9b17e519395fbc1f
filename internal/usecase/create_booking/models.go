package create_booking

import (
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования.
// UserID nil означает гостевое бронирование: идентичность гостя - его email.
type Request struct {
	ShiftID         int64
	UserID          *int64
	Email           string
	SlotTime        types.TimeString
	DurationMinutes *int // nil - длительность выводится из типа ремонта
	RepairType      domain.RepairType
	RepairDetails   domain.RepairDetails
	Notes           *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ShiftID         int64
	ShiftDate       time.Time
	UserID          *int64
	Email           string
	SlotTime        types.TimeString
	DurationMinutes int
	RepairType      string
	RepairDetails   domain.RepairDetails
	Status          string
	Notes           *string
	IsMember        bool
	CreatedAt       time.Time
}
