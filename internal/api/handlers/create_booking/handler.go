package create_booking

import (
	"errors"
	"net/http"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные бронирования"
	msgShiftNotFound      = "смена не найдена"
	msgShiftClosed        = "смена закрыта для записи"
	msgSlotNotAvailable   = "слот недоступен"
	msgUserNotFound       = "пользователь не найден"
	msgEmailRequired      = "email обязателен"
)

type Handler struct {
	usecase CreateBookingUseCase
	logger  Logger
}

func NewHandler(usecase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Создание бронирования аутентифицированным пользователем
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	email := req.Email
	if email == "" {
		if headerEmail, ok := middleware.UserEmail(r.Context()); ok {
			email = headerEmail
		}
	}

	h.create(w, r, req.ToUsecaseRequest(&userID, email), "POST /bookings")
}

// HandleGuest POST /api/v1/guest/bookings
// Гостевое бронирование: идентичность гостя - его email
func (h *Handler) HandleGuest(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /guest/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Email == "" {
		h.logger.Warn("POST /guest/bookings - Missing email")
		handlers.RespondBadRequest(w, msgEmailRequired)
		return
	}

	h.create(w, r, req.ToUsecaseRequest(nil, req.Email), "POST /guest/bookings")
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, req *create_booking.Request, route string) {
	resp, err := h.usecase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, create_booking.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, create_booking.ErrShiftNotFound):
			h.logger.Warn("%s - Shift not found: shift_id=%d", route, req.ShiftID)
			handlers.RespondNotFound(w, msgShiftNotFound)

		case errors.Is(err, create_booking.ErrShiftClosed):
			h.logger.Warn("%s - Shift closed: shift_id=%d", route, req.ShiftID)
			handlers.RespondConflict(w, msgShiftClosed)

		case errors.Is(err, create_booking.ErrSlotNotAvailable):
			h.logger.Warn("%s - Slot not available: shift_id=%d, slot=%s", route, req.ShiftID, req.SlotTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, create_booking.ErrUserNotFound):
			h.logger.Warn("%s - User not found", route)
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("%s - Failed to create booking: %v", route, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking created successfully: booking_id=%d", route, resp.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUsecaseResponse(resp))
}
