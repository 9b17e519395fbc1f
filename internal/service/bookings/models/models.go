package models

import (
	"errors"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// Actor описывает, от чьего имени выполняется операция.
// UserID nil означает гостя; гость подтверждает право на бронирование
// своим email (сравнение без учёта регистра).
type Actor struct {
	UserID *int64
	Email  string
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              Actor
	CancellationReason *string
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64
	Status string
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64
	Status *string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64                `json:"id"`
	ShiftID         int64                `json:"shiftId"`
	ShiftDate       *string              `json:"shiftDate,omitempty"` // "2026-04-18"; заполняется для одиночных выборок
	UserID          *int64               `json:"userId,omitempty"`
	Email           string               `json:"email"`
	SlotTime        string               `json:"slotTime"` // "14:30"
	DurationMinutes int                  `json:"durationMinutes"`
	RepairType      string               `json:"repairType"`
	RepairDetails   RepairDetailsPayload `json:"repairDetails"`
	Status          string               `json:"status"`
	IsMember        bool                 `json:"isMember"`
	Notes           *string              `json:"notes,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RepairDetailsPayload уточняющие ответы анкеты в ответе API
type RepairDetailsPayload struct {
	WheelPosition string `json:"wheelPosition,omitempty"`
	BikeType      string `json:"bikeType,omitempty"`
	BrakeType     string `json:"brakeType,omitempty"`
	Description   string `json:"description,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// Конвертеры

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		ShiftID:         b.ShiftID,
		UserID:          b.UserID,
		Email:           b.Email,
		SlotTime:        b.SlotTime.String(),
		DurationMinutes: b.DurationMinutes,
		RepairType:      string(b.RepairType),
		RepairDetails: RepairDetailsPayload{
			WheelPosition: b.RepairDetails.WheelPosition,
			BikeType:      b.RepairDetails.BikeType,
			BrakeType:     b.RepairDetails.BrakeType,
			Description:   b.RepairDetails.Description,
		},
		Status:             string(b.Status),
		IsMember:           b.IsMember,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingWithDate конвертирует бронирование вместе с датой смены
func FromDomainBookingWithDate(b *domain.Booking, shiftDate time.Time) *BookingResponse {
	resp := FromDomainBooking(b)
	date := shiftDate.Format(domain.DateFormat)
	resp.ShiftDate = &date
	return resp
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	items := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, FromDomainBooking(b))
	}
	return &BookingListResponse{
		Bookings: items,
		Total:    len(items),
	}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !domain.ValidBookingStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}
