package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/service/bookings"
	"github.com/velokitchen/VK-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgAlreadyCancelled   = "бронирование уже отменено"
	msgCannotCancel       = "бронирование не может быть отменено"
	msgEmailRequired      = "email обязателен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
// Владелец отменяет своё бронирование, волонтёр штаба - любое
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.parseBookingID(w, r, "PATCH /bookings/{id}/cancel")
	if !ok {
		return
	}

	userID, authed := middleware.UserID(r.Context())
	if !authed {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}
	email, _ := middleware.UserEmail(r.Context())

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.cancel(w, r, bookingID, req.ToServiceRequest(&userID, email), "PATCH /bookings/{id}/cancel")
}

// HandleGuest POST /api/v1/guest/bookings/{bookingId}/cancel
// Гость подтверждает право на отмену своим email
func (h *Handler) HandleGuest(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.parseBookingID(w, r, "POST /guest/bookings/{id}/cancel")
	if !ok {
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /guest/bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		h.logger.Warn("POST /guest/bookings/{id}/cancel - Missing email: booking_id=%d", bookingID)
		handlers.RespondBadRequest(w, msgEmailRequired)
		return
	}

	h.cancel(w, r, bookingID, req.ToServiceRequest(nil, email), "POST /guest/bookings/{id}/cancel")
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request, bookingID int64, req *models.CancelBookingRequest, route string) {
	err := h.service.Cancel(r.Context(), bookingID, req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: booking_id=%d", route, bookingID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrAlreadyCancelled):
			h.logger.Warn("%s - Already cancelled: booking_id=%d", route, bookingID)
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("%s - Cannot cancel: booking_id=%d", route, bookingID)
			handlers.RespondBadRequest(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("%s - Failed to cancel booking: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking cancelled successfully: booking_id=%d", route, bookingID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

func (h *Handler) parseBookingID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return 0, false
	}
	return bookingID, true
}
