package create_shift

import (
	"errors"
	"net/http"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные смены"
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

// CreateShiftRequest HTTP request model
type CreateShiftRequest struct {
	Date      string  `json:"date"` // "2026-04-18"
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	IsOpen    bool    `json:"isOpen"`
	Notes     *string `json:"notes,omitempty"`
}

// Handle POST /api/v1/shifts
// Создание смены волонтёром штаба
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req CreateShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /shifts - Invalid date: %q", req.Date)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	resp, err := h.service.Create(r.Context(), &models.CreateShiftRequest{
		UserID:    userID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsOpen:    req.IsOpen,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrAccessDenied):
			h.logger.Warn("POST /shifts - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("POST /shifts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /shifts - Failed to create shift: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shifts - Shift created successfully: shift_id=%d", resp.ID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
