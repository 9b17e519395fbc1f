package delete_shift

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts"
)

const (
	msgInvalidShiftID    = "некорректный ID смены"
	msgNotFound          = "смена не найдена"
	msgForbidden         = "доступ запрещен"
	msgHasActiveBookings = "у смены есть активные бронирования"
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

// Handle DELETE /api/v1/shifts/{shiftId}
// Смена с активными бронированиями не удаляется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.ParseInt(mux.Vars(r)["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /shifts/{id} - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	err = h.service.Delete(r.Context(), shiftID, userID)
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("DELETE /shifts/{id} - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shifts.ErrAccessDenied):
			h.logger.Warn("DELETE /shifts/{id} - Access denied: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, shifts.ErrHasActiveBookings):
			h.logger.Warn("DELETE /shifts/{id} - Shift has active bookings: shift_id=%d", shiftID)
			handlers.RespondConflict(w, msgHasActiveBookings)

		default:
			h.logger.Error("DELETE /shifts/{id} - Failed to delete shift: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /shifts/{id} - Shift deleted successfully: shift_id=%d", shiftID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
