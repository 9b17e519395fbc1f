package save_staffing_batch

import (
	"errors"
	"net/http"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
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

// SaveStaffingBatchRequest HTTP request model: пары (смена, роль),
// накопленные в режиме редактирования календаря
type SaveStaffingBatchRequest struct {
	Changes []models.StaffingChange `json:"changes"`
}

// Handle POST /api/v1/shifts/staffing
// Применяет пакет переключений одним сохранением; пакет атомарен
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req SaveStaffingBatchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shifts/staffing - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.SaveStaffingBatch(r.Context(), &models.SaveStaffingBatchRequest{
		UserID:  userID,
		Changes: req.Changes,
	})
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrShiftNotFound):
			h.logger.Warn("POST /shifts/staffing - Shift not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shifts.ErrAccessDenied):
			h.logger.Warn("POST /shifts/staffing - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("POST /shifts/staffing - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /shifts/staffing - Failed to save batch: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shifts/staffing - Batch saved successfully: user_id=%d, changes=%d",
		userID, len(resp.Results))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
