package shifts

import (
	"context"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	// Create создает смену
	Create(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)
	// GetByID получает смену по ID вместе с составом волонтёров
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
	// GetByDateRange получает смены за период, включая закрытые
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Shift, error)
	// GetOpenByDate получает открытые для записи смены на дату
	GetOpenByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error)
	// Update обновляет смену
	Update(ctx context.Context, shift *domain.Shift) error
	// Delete удаляет смену
	Delete(ctx context.Context, id int64) error
	// AddStaff записывает волонтёра на смену в роли
	AddStaff(ctx context.Context, shiftID int64, member domain.StaffMember, role domain.StaffRole) error
	// RemoveStaff снимает волонтёра со смены в роли
	RemoveStaff(ctx context.Context, shiftID, userID int64, role domain.StaffRole) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// CountActiveByShift считает активные бронирования смены
	CountActiveByShift(ctx context.Context, shiftID int64) (int, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	// GetProfile получает профиль пользователя
	GetProfile(ctx context.Context, userID int64) (*profileservice.Profile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	// Do выполняет функцию в транзакции
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
