package get_available_slots

import (
	"context"
	"fmt"

	"github.com/velokitchen/VK-BookingService/internal/domain"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	shiftRepo   ShiftRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(shiftRepo ShiftRepository, bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		shiftRepo:   shiftRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Сетка слотов строится на лету по открытым сменам даты и активным
// бронированиям; результат нигде не сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: date=%s, duration=%d",
		req.Date.Format(domain.DateFormat), req.DurationMinutes)

	shifts, err := uc.shiftRepo.GetOpenByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get shifts: %v", err)
		return nil, fmt.Errorf("%w: failed to get shifts: %v", ErrInternal, err)
	}

	resp := &Response{
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Shifts:          make([]ShiftSlots, 0, len(shifts)),
	}

	if len(shifts) == 0 {
		uc.logger.Info("GetAvailableSlots: no open shifts on %s", req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	shiftIDs := make([]int64, 0, len(shifts))
	for _, s := range shifts {
		shiftIDs = append(shiftIDs, s.ID)
	}

	// Отменённые бронирования фильтр не возвращает: их слоты снова свободны
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		ShiftIDs: shiftIDs,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	byShift := make(map[int64][]*domain.Booking, len(shifts))
	for _, b := range bookings {
		byShift[b.ShiftID] = append(byShift[b.ShiftID], b)
	}

	for _, shift := range shifts {
		slots, err := buildSlots(shift, req.DurationMinutes, byShift[shift.ID])
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to build slots for shift id=%d: %v", shift.ID, err)
			return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
		}

		resp.Shifts = append(resp.Shifts, ShiftSlots{
			ShiftID:   shift.ID,
			StartTime: shift.StartTime,
			EndTime:   shift.EndTime,
			Notes:     shift.Notes,
			Slots:     slots,
		})
	}

	return resp, nil
}
