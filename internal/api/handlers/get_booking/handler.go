package get_booking

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
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgEmailRequired    = "параметр email обязателен"
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

// Handle GET /api/v1/bookings/{bookingId}
// Доступ имеет владелец или волонтёр штаба
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseBookingID(w, r, h.logger, "GET /bookings/{id}")
	if !ok {
		return
	}

	userID, _ := middleware.UserID(r.Context())
	email, _ := middleware.UserEmail(r.Context())

	actor := models.Actor{Email: email}
	if userID > 0 {
		actor.UserID = &userID
	}

	h.respond(w, r, bookingID, actor, "GET /bookings/{id}")
}

// HandleGuest GET /api/v1/guest/bookings/{bookingId}?email=...
// Гость подтверждает право на просмотр своим email
func (h *Handler) HandleGuest(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := parseBookingID(w, r, h.logger, "GET /guest/bookings/{id}")
	if !ok {
		return
	}

	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		h.logger.Warn("GET /guest/bookings/{id} - Missing email: booking_id=%d", bookingID)
		handlers.RespondBadRequest(w, msgEmailRequired)
		return
	}

	h.respond(w, r, bookingID, models.Actor{Email: email}, "GET /guest/bookings/{id}")
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, bookingID int64, actor models.Actor, route string) {
	booking, err := h.service.GetByID(r.Context(), bookingID, actor)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: booking_id=%d", route, bookingID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("%s - Failed to get booking: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}

func parseBookingID(w http.ResponseWriter, r *http.Request, logger Logger, route string) (int64, bool) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return 0, false
	}
	return bookingID, true
}
