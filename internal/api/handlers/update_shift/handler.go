package update_shift

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
)

const (
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные смены"
	msgNotFound           = "смена не найдена"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service ShiftService
	logger  Logger
}

func NewHandler(service ShiftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// UpdateShiftRequest HTTP request model; nil-поля не меняются.
// Закрытие смены (isOpen=false) не отменяет существующие бронирования.
type UpdateShiftRequest struct {
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	IsOpen    *bool   `json:"isOpen,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Handle PATCH /api/v1/shifts/{shiftId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.ParseInt(mux.Vars(r)["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /shifts/{id} - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req UpdateShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /shifts/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Update(r.Context(), shiftID, &models.UpdateShiftRequest{
		UserID:    userID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsOpen:    req.IsOpen,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("PATCH /shifts/{id} - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shifts.ErrAccessDenied):
			h.logger.Warn("PATCH /shifts/{id} - Access denied: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("PATCH /shifts/{id} - Invalid input: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /shifts/{id} - Failed to update shift: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /shifts/{id} - Shift updated successfully: shift_id=%d", shiftID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
