package create_booking

import (
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/usecase/create_booking"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

// RepairDetailsPayload уточняющие ответы анкеты ремонта
type RepairDetailsPayload struct {
	WheelPosition string `json:"wheelPosition,omitempty"`
	BikeType      string `json:"bikeType,omitempty"`
	BrakeType     string `json:"brakeType,omitempty"`
	Description   string `json:"description,omitempty"`
}

// CreateBookingRequest HTTP request model.
// Email обязателен для гостевого маршрута; на аутентифицированном
// маршруте берётся из заголовка, если в теле не задан.
type CreateBookingRequest struct {
	ShiftID         int64                `json:"shiftId"`
	Email           string               `json:"email,omitempty"`
	SlotTime        string               `json:"slotTime"`
	RepairType      string               `json:"repairType"`
	RepairDetails   RepairDetailsPayload `json:"repairDetails"`
	DurationMinutes *int                 `json:"durationMinutes,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
}

// ToUsecaseRequest конвертирует HTTP request в модель usecase
func (r *CreateBookingRequest) ToUsecaseRequest(userID *int64, email string) *create_booking.Request {
	return &create_booking.Request{
		ShiftID:         r.ShiftID,
		UserID:          userID,
		Email:           email,
		SlotTime:        types.TimeString(r.SlotTime),
		DurationMinutes: r.DurationMinutes,
		RepairType:      domain.RepairType(r.RepairType),
		RepairDetails: domain.RepairDetails{
			WheelPosition: r.RepairDetails.WheelPosition,
			BikeType:      r.RepairDetails.BikeType,
			BrakeType:     r.RepairDetails.BrakeType,
			Description:   r.RepairDetails.Description,
		},
		Notes: r.Notes,
	}
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID              int64                `json:"id"`
	ShiftID         int64                `json:"shiftId"`
	ShiftDate       string               `json:"shiftDate"`
	UserID          *int64               `json:"userId,omitempty"`
	Email           string               `json:"email"`
	SlotTime        string               `json:"slotTime"`
	DurationMinutes int                  `json:"durationMinutes"`
	RepairType      string               `json:"repairType"`
	RepairDetails   RepairDetailsPayload `json:"repairDetails"`
	Status          string               `json:"status"`
	IsMember        bool                 `json:"isMember"`
	Notes           *string              `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// FromUsecaseResponse конвертирует ответ usecase в HTTP response
func FromUsecaseResponse(resp *create_booking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:              resp.ID,
		ShiftID:         resp.ShiftID,
		ShiftDate:       resp.ShiftDate.Format(domain.DateFormat),
		UserID:          resp.UserID,
		Email:           resp.Email,
		SlotTime:        resp.SlotTime.String(),
		DurationMinutes: resp.DurationMinutes,
		RepairType:      resp.RepairType,
		RepairDetails: RepairDetailsPayload{
			WheelPosition: resp.RepairDetails.WheelPosition,
			BikeType:      resp.RepairDetails.BikeType,
			BrakeType:     resp.RepairDetails.BrakeType,
			Description:   resp.RepairDetails.Description,
		},
		Status:    resp.Status,
		IsMember:  resp.IsMember,
		Notes:     resp.Notes,
		CreatedAt: resp.CreatedAt,
	}
}
