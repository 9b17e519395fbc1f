package create_booking

import (
	"fmt"
	"strings"

	"github.com/velokitchen/VK-BookingService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.ShiftID <= 0 {
		return fmt.Errorf("%w: shift id is required", ErrInvalidInput)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
	}

	if err := req.SlotTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slot time: %v", ErrInvalidInput, err)
	}

	if !domain.ValidRepairType(req.RepairType) {
		return fmt.Errorf("%w: unknown repair type %q", ErrInvalidInput, req.RepairType)
	}

	if err := validateRepairDetails(req.RepairType, req.RepairDetails); err != nil {
		return err
	}

	if req.DurationMinutes != nil {
		d := *req.DurationMinutes
		if d < domain.MinRepairDurationMinutes || d > domain.MaxRepairDurationMinutes {
			return fmt.Errorf("%w: duration must be between %d and %d minutes",
				ErrInvalidInput, domain.MinRepairDurationMinutes, domain.MaxRepairDurationMinutes)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateRepairDetails проверяет уточняющие ответы анкеты.
// Пустые значения допустимы: длительность берётся по типу ремонта.
func validateRepairDetails(t domain.RepairType, details domain.RepairDetails) error {
	switch details.WheelPosition {
	case "", domain.WheelFront, domain.WheelRear:
	default:
		return fmt.Errorf("%w: unknown wheel position %q", ErrInvalidInput, details.WheelPosition)
	}

	switch details.BikeType {
	case "", domain.BikeCity, domain.BikeRoad, domain.BikeOther:
	default:
		return fmt.Errorf("%w: unknown bike type %q", ErrInvalidInput, details.BikeType)
	}

	switch details.BrakeType {
	case "", domain.BrakeRim, domain.BrakeDisc:
	default:
		return fmt.Errorf("%w: unknown brake type %q", ErrInvalidInput, details.BrakeType)
	}

	if len(details.Description) > domain.MaxNotesLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
