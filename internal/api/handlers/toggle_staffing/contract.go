package toggle_staffing

import (
	"context"

	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
)

type ShiftService interface {
	ToggleSignup(ctx context.Context, req *models.ToggleSignupRequest) (*models.ToggleSignupResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
