package bookings

import (
	"context"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByID получает бронирование по ID
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// GetByUserID получает бронирования пользователя
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	// UpdateStatus обновляет статус бронирования
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	// Cancel отменяет бронирование
	Cancel(ctx context.Context, id int64, reason *string) error
}

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	// GetByID получает смену по ID
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	// GetProfile получает профиль пользователя
	GetProfile(ctx context.Context, userID int64) (*profileservice.Profile, error)
}

// NotifyPublisher интерфейс публикации событий бронирования
type NotifyPublisher interface {
	// BookingCancelled публикует событие об отмене бронирования
	BookingCancelled(ctx context.Context, booking *domain.Booking, shiftDate time.Time, cancelledBy, reason string) error
	// BookingStatusChanged публикует событие о смене статуса
	BookingStatusChanged(ctx context.Context, booking *domain.Booking, shiftDate time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
