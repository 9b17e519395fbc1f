package get_available_dates

import (
	"context"

	"github.com/velokitchen/VK-BookingService/internal/usecase/get_available_dates"
)

type GetAvailableDatesUseCase interface {
	Execute(ctx context.Context, req *get_available_dates.Request) (*get_available_dates.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
