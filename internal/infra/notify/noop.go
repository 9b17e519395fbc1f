package notify

import (
	"context"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
)

// Noop используется, когда уведомления выключены в конфигурации.
// Все публикации превращаются в no-op.
type Noop struct{}

// NewNoop создает выключенный издатель событий
func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) BookingCreated(context.Context, *domain.Booking, time.Time) error {
	return nil
}

func (Noop) BookingCancelled(context.Context, *domain.Booking, time.Time, string, string) error {
	return nil
}

func (Noop) BookingStatusChanged(context.Context, *domain.Booking, time.Time) error {
	return nil
}

func (Noop) Close() {}
