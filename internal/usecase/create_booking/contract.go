package create_booking

import (
	"context"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	// GetByID получает смену по ID вместе с составом волонтёров
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetWithFilter получает бронирования по фильтру.
	// Внутри транзакции выборка одной смены блокирует строки (FOR UPDATE).
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	// Create создает бронирование
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	// GetProfile получает профиль пользователя
	GetProfile(ctx context.Context, userID int64) (*profileservice.Profile, error)
}

// NotifyPublisher интерфейс публикации событий бронирования
type NotifyPublisher interface {
	// BookingCreated публикует событие о создании бронирования
	BookingCreated(ctx context.Context, booking *domain.Booking, shiftDate time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	// DoSerializable выполняет функцию в сериализуемой транзакции
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
