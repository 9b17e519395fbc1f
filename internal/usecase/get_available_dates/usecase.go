package get_available_dates

import (
	"context"
	"fmt"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
)

// UseCase use case для получения дат с открытыми сменами
type UseCase struct {
	shiftRepo    ShiftRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(shiftRepo ShiftRepository, logger Logger) *UseCase {
	return &UseCase{
		shiftRepo:    shiftRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает даты в горизонте weeksAhead недель от сегодняшнего дня,
// на которые открыта хотя бы одна смена
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	weeks := req.WeeksAhead
	if weeks == 0 {
		weeks = domain.DefaultWeeksAhead
	}
	if weeks < 0 {
		uc.logger.Warn("GetAvailableDates: negative weeksAhead=%d", req.WeeksAhead)
		return nil, fmt.Errorf("%w: weeksAhead must be positive", ErrInvalidInput)
	}
	if weeks > domain.MaxWeeksAhead {
		weeks = domain.MaxWeeksAhead
	}

	now := uc.timeProvider.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, weeks*7)

	uc.logger.Info("GetAvailableDates: from=%s, to=%s",
		from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	dates, err := uc.shiftRepo.GetOpenDates(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to get open dates: %v", err)
		return nil, fmt.Errorf("%w: failed to get open dates: %v", ErrInternal, err)
	}

	return &Response{
		From:  from,
		To:    to,
		Dates: dates,
	}, nil
}
