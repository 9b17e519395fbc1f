package get_available_slots

import (
	"fmt"

	"github.com/velokitchen/VK-BookingService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes > domain.MaxRepairDurationMinutes {
		return fmt.Errorf("%w: duration exceeds %d minutes", ErrInvalidInput, domain.MaxRepairDurationMinutes)
	}

	return nil
}
