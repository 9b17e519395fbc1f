package models

import (
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
)

// Request модели

// CreateShiftRequest запрос на создание смены
type CreateShiftRequest struct {
	UserID    int64
	Date      time.Time
	StartTime string // "14:00"
	EndTime   string // "18:00"
	IsOpen    bool
	Notes     *string
}

// UpdateShiftRequest запрос на обновление смены.
// Nil-поля остаются без изменений. Закрытие смены не трогает
// существующие бронирования.
type UpdateShiftRequest struct {
	UserID    int64
	StartTime *string
	EndTime   *string
	IsOpen    *bool
	Notes     *string
}

// ListShiftsRequest запрос на получение смен за период
type ListShiftsRequest struct {
	UserID int64
	From   time.Time
	To     time.Time
}

// ToggleSignupRequest запрос на переключение записи волонтёра.
// Указывается либо ShiftID, либо Date: при нулевом ShiftID смена
// ищется по дате и создается, если её ещё нет.
type ToggleSignupRequest struct {
	UserID  int64
	ShiftID int64
	Date    time.Time
	Role    string // "mechanic" | "host"
}

// StaffingChange одна пара (смена, роль) из сеанса редактирования
type StaffingChange struct {
	ShiftID int64  `json:"shiftId"`
	Role    string `json:"role"`
}

// SaveStaffingBatchRequest пакет переключений, накопленных в режиме
// редактирования. Повторные клики по одной паре гасятся ещё на клиенте;
// сюда приходят только выжившие пары.
type SaveStaffingBatchRequest struct {
	UserID  int64
	Changes []StaffingChange
}

// Response модели

// StaffMemberResponse один волонтёр в составе смены
type StaffMemberResponse struct {
	UserID     int64     `json:"userId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	SignedUpAt time.Time `json:"signedUpAt"`
}

// ShiftResponse ответ с данными смены
type ShiftResponse struct {
	ID        int64                 `json:"id"`
	Date      string                `json:"date"` // "2026-04-18"
	StartTime string                `json:"startTime"`
	EndTime   string                `json:"endTime"`
	IsOpen    bool                  `json:"isOpen"`
	Notes     *string               `json:"notes,omitempty"`
	Mechanics []StaffMemberResponse `json:"mechanics"`
	Hosts     []StaffMemberResponse `json:"hosts"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// ShiftListResponse ответ со списком смен
type ShiftListResponse struct {
	Shifts []*ShiftResponse `json:"shifts"`
	Total  int              `json:"total"`
}

// ToggleSignupResponse итоговое состояние записи после переключения
type ToggleSignupResponse struct {
	ShiftID  int64  `json:"shiftId"`
	Role     string `json:"role"`
	SignedUp bool   `json:"signedUp"`
}

// SaveStaffingBatchResponse результат применения пакета переключений
type SaveStaffingBatchResponse struct {
	Results []ToggleSignupResponse `json:"results"`
}

// Конвертеры

// FromDomainShift конвертирует domain.Shift в ShiftResponse
func FromDomainShift(s *domain.Shift) *ShiftResponse {
	return &ShiftResponse{
		ID:        s.ID,
		Date:      s.Date.Format(domain.DateFormat),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		IsOpen:    s.IsOpen,
		Notes:     s.Notes,
		Mechanics: fromDomainStaff(s.Mechanics),
		Hosts:     fromDomainStaff(s.Hosts),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromDomainShiftList конвертирует список смен
func FromDomainShiftList(shifts []*domain.Shift) *ShiftListResponse {
	items := make([]*ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		items = append(items, FromDomainShift(s))
	}
	return &ShiftListResponse{
		Shifts: items,
		Total:  len(items),
	}
}

func fromDomainStaff(members []domain.StaffMember) []StaffMemberResponse {
	out := make([]StaffMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, StaffMemberResponse{
			UserID:     m.UserID,
			Name:       m.Name,
			Email:      m.Email,
			SignedUpAt: m.SignedUpAt,
		})
	}
	return out
}
