package get_shifts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
)

const (
	msgInvalidShiftID = "некорректный ID смены"
	msgInvalidRange   = "некорректный период, ожидаются from и to в формате YYYY-MM-DD"
	msgNotFound       = "смена не найдена"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/v1/shifts?from=2026-04-01&to=2026-04-30
// Штабной календарь: все смены периода, включая закрытые, с составами
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	query := r.URL.Query()
	from, errFrom := time.Parse(domain.DateFormat, query.Get("from"))
	to, errTo := time.Parse(domain.DateFormat, query.Get("to"))
	if errFrom != nil || errTo != nil {
		h.logger.Warn("GET /shifts - Invalid range: from=%q, to=%q", query.Get("from"), query.Get("to"))
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	resp, err := h.service.ListByRange(r.Context(), &models.ListShiftsRequest{
		UserID: userID,
		From:   from,
		To:     to,
	})
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrAccessDenied):
			h.logger.Warn("GET /shifts - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("GET /shifts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /shifts - Failed to list shifts: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleByID GET /api/v1/shifts/{shiftId}
func (h *Handler) HandleByID(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.ParseInt(mux.Vars(r)["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shifts/{id} - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	resp, err := h.service.GetByID(r.Context(), shiftID, userID)
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("GET /shifts/{id} - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shifts.ErrAccessDenied):
			h.logger.Warn("GET /shifts/{id} - Access denied: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /shifts/{id} - Failed to get shift: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
