package get_available_slots

import (
	"context"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	// GetOpenByDate получает открытые для записи смены на дату
	GetOpenByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetWithFilter получает бронирования по фильтру
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
