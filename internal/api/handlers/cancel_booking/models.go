package cancel_booking

import (
	"github.com/velokitchen/VK-BookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model.
// Email нужен только на гостевом маршруте.
type CancelBookingRequest struct {
	Email              string  `json:"email,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID *int64, email string) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Actor: models.Actor{
			UserID: userID,
			Email:  email,
		},
		CancellationReason: r.CancellationReason,
	}
}
