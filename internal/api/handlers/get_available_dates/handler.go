package get_available_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/velokitchen/VK-BookingService/internal/api/handlers"
	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/usecase/get_available_dates"
)

const (
	msgInvalidWeeksAhead = "некорректный параметр weeksAhead"
)

type Handler struct {
	usecase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(usecase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// GetAvailableDatesResponse HTTP response model
type GetAvailableDatesResponse struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Dates []string `json:"dates"`
}

// Handle GET /api/v1/availability/dates?weeksAhead=4
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	weeksAhead := 0
	if raw := r.URL.Query().Get("weeksAhead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /availability/dates - Invalid weeksAhead: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidWeeksAhead)
			return
		}
		weeksAhead = parsed
	}

	resp, err := h.usecase.Execute(r.Context(), &get_available_dates.Request{
		WeeksAhead: weeksAhead,
	})
	if err != nil {
		switch {
		case errors.Is(err, get_available_dates.ErrInvalidInput):
			h.logger.Warn("GET /availability/dates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidWeeksAhead)
		default:
			h.logger.Error("GET /availability/dates - Failed to get dates: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, d.Format(domain.DateFormat))
	}

	handlers.RespondJSON(w, http.StatusOK, GetAvailableDatesResponse{
		From:  resp.From.Format(domain.DateFormat),
		To:    resp.To.Format(domain.DateFormat),
		Dates: dates,
	})
}
