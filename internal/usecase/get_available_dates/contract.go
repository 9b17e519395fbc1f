package get_available_dates

import (
	"context"
	"time"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	// GetOpenDates возвращает даты, на которые есть хотя бы одна открытая смена
	GetOpenDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// TimeProvider абстракция текущего времени для тестируемости
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
