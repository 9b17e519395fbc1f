package get_shifts

import (
	"context"

	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
)

type ShiftService interface {
	GetByID(ctx context.Context, id int64, userID int64) (*models.ShiftResponse, error)
	ListByRange(ctx context.Context, req *models.ListShiftsRequest) (*models.ShiftListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
