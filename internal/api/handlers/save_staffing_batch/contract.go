package save_staffing_batch

import (
	"context"

	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
)

type ShiftService interface {
	SaveStaffingBatch(ctx context.Context, req *models.SaveStaffingBatchRequest) (*models.SaveStaffingBatchResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
