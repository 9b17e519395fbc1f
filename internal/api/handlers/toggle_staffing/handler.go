package toggle_staffing

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
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата"
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

// ToggleStaffingRequest HTTP request model
type ToggleStaffingRequest struct {
	Role string `json:"role"` // "mechanic" | "host"
}

// ToggleStaffingByDateRequest HTTP request model для переключения по дате
type ToggleStaffingByDateRequest struct {
	Date string `json:"date"` // "2026-04-18"
	Role string `json:"role"` // "mechanic" | "host"
}

// Handle POST /api/v1/shifts/{shiftId}/staffing/toggle
// Переключает запись волонтёра: записан - снимается, не записан - добавляется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shiftID, err := strconv.ParseInt(mux.Vars(r)["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /shifts/{id}/staffing/toggle - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req ToggleStaffingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shifts/{id}/staffing/toggle - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.toggle(w, r, &models.ToggleSignupRequest{
		UserID:  userID,
		ShiftID: shiftID,
		Role:    req.Role,
	}, "POST /shifts/{id}/staffing/toggle")
}

// HandleByDate POST /api/v1/shifts/staffing/toggle
// Переключает запись волонтёра по дате. Если смены на дату ещё нет,
// она создается с окном по умолчанию.
func (h *Handler) HandleByDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req ToggleStaffingByDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shifts/staffing/toggle - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /shifts/staffing/toggle - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	h.toggle(w, r, &models.ToggleSignupRequest{
		UserID: userID,
		Date:   date,
		Role:   req.Role,
	}, "POST /shifts/staffing/toggle")
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, req *models.ToggleSignupRequest, route string) {
	resp, err := h.service.ToggleSignup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("%s - Shift not found: shift_id=%d", route, req.ShiftID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shifts.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: shift_id=%d, user_id=%d",
				route, req.ShiftID, req.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("%s - Failed to toggle: shift_id=%d, error=%v",
				route, req.ShiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Toggled successfully: shift_id=%d, user_id=%d, signedUp=%t",
		route, resp.ShiftID, req.UserID, resp.SignedUp)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
