package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidDate       = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgInvalidDuration   = "некорректная длительность"
	msgInvalidRepairType = "некорректный тип ремонта"
	msgDurationRequired  = "укажите durationMinutes или repairType"
)

type Handler struct {
	usecase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(usecase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/slots?date=2026-04-18&durationMinutes=45
// Вместо durationMinutes можно передать repairType с уточнениями анкеты
// (wheelPosition, bikeType, brakeType) - длительность будет выведена.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	duration, ok := h.resolveDuration(w, query)
	if !ok {
		return
	}

	resp, err := h.usecase.Execute(r.Context(), &get_available_slots.Request{
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, get_available_slots.ErrInvalidInput):
			h.logger.Warn("GET /availability/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
		default:
			h.logger.Error("GET /availability/slots - Failed to get slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUsecaseResponse(resp))
}

// resolveDuration определяет длительность из параметров запроса.
// При ошибке ответ уже записан; второй результат false.
func (h *Handler) resolveDuration(w http.ResponseWriter, query map[string][]string) (int, bool) {
	get := func(key string) string {
		if v, ok := query[key]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}

	if raw := get("durationMinutes"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			h.logger.Warn("GET /availability/slots - Invalid duration: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return 0, false
		}
		return duration, true
	}

	if raw := get("repairType"); raw != "" {
		repairType := domain.RepairType(raw)
		if !domain.ValidRepairType(repairType) {
			h.logger.Warn("GET /availability/slots - Invalid repair type: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidRepairType)
			return 0, false
		}
		return domain.RepairDuration(repairType, domain.RepairDetails{
			WheelPosition: get("wheelPosition"),
			BikeType:      get("bikeType"),
			BrakeType:     get("brakeType"),
		}), true
	}

	h.logger.Warn("GET /availability/slots - Missing duration and repair type")
	handlers.RespondBadRequest(w, msgDurationRequired)
	return 0, false
}
