package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	bookingRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/booking"
	shiftRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/shift"
	profileClient "github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	shiftRepo     ShiftRepository
	bookingRepo   BookingRepository
	profileClient ProfileServiceClient
	publisher     NotifyPublisher
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shiftRepo ShiftRepository,
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	publisher NotifyPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		shiftRepo:     shiftRepo,
		bookingRepo:   bookingRepo,
		profileClient: profileClient,
		publisher:     publisher,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка занятости слота и вставка выполняются в сериализуемой
// транзакции; частичный уникальный индекс в БД страхует от гонки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: shift=%d, slot=%s, type=%s, guest=%t",
		req.ShiftID, req.SlotTime, req.RepairType, req.UserID == nil)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Длительность: явная или выведенная из анкеты
	duration := domain.RepairDuration(req.RepairType, req.RepairDetails)
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	// 3. Для зарегистрированных пользователей снимаем снапшот членства
	isMember := false
	email := strings.TrimSpace(req.Email)
	if req.UserID != nil {
		profile, err := uc.profileClient.GetProfile(ctx, *req.UserID)
		if err != nil {
			if errors.Is(err, profileClient.ErrProfileNotFound) {
				uc.logger.Warn("CreateBooking: user id=%d not found", *req.UserID)
				return nil, ErrUserNotFound
			}
			uc.logger.Error("CreateBooking: failed to get profile id=%d: %v", *req.UserID, err)
			return nil, fmt.Errorf("%w: failed to get profile: %v", ErrInternal, err)
		}
		isMember = profile.IsMember
	}

	var result *domain.Booking
	var shift *domain.Shift

	// 4. Операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		// 4.1. Смена должна существовать и быть открытой для записи
		shift, err = uc.shiftRepo.GetByID(txCtx, req.ShiftID)
		if err != nil {
			if errors.Is(err, shiftRepo.ErrShiftNotFound) {
				uc.logger.Warn("CreateBooking: shift id=%d not found", req.ShiftID)
				return ErrShiftNotFound
			}
			uc.logger.Error("CreateBooking: failed to get shift id=%d: %v", req.ShiftID, err)
			return fmt.Errorf("%w: failed to get shift: %v", ErrInternal, err)
		}
		if !shift.IsOpen {
			uc.logger.Warn("CreateBooking: shift id=%d is closed", req.ShiftID)
			return ErrShiftClosed
		}

		// 4.2. Слот должен лежать на сетке смены и вмещать ремонт
		fits, err := domain.SlotFits(shift, req.SlotTime, duration)
		if err != nil {
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if !fits {
			uc.logger.Warn("CreateBooking: slot %s does not fit shift id=%d (duration=%d)",
				req.SlotTime, req.ShiftID, duration)
			return ErrSlotNotAvailable
		}

		// 4.3. Активные бронирования смены с блокировкой строк (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetWithFilter(txCtx, domain.BookingsFilter{
			ShiftIDs: []int64{req.ShiftID},
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
		for _, b := range bookings {
			if b.IsActive() && b.SlotTime == req.SlotTime {
				uc.logger.Warn("CreateBooking: slot %s already taken on shift id=%d",
					req.SlotTime, req.ShiftID)
				return ErrSlotNotAvailable
			}
		}

		// 4.4. Вставка; уникальный индекс по (shift_id, slot_time) среди
		// активных бронирований закрывает оставшееся окно гонки
		booking := &domain.Booking{
			ShiftID:         req.ShiftID,
			UserID:          req.UserID,
			Email:           email,
			SlotTime:        req.SlotTime,
			DurationMinutes: duration,
			RepairType:      req.RepairType,
			RepairDetails:   req.RepairDetails,
			Status:          domain.StatusConfirmed,
			Notes:           req.Notes,
			IsMember:        isMember,
		}

		result, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot %s taken concurrently on shift id=%d",
					req.SlotTime, req.ShiftID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 5. Событие о создании - best effort: сбой уведомления не отменяет запись
	if err := uc.publisher.BookingCreated(ctx, result, shift.Date); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish created event for booking id=%d: %v",
			result.ID, err)
	}

	return &Response{
		ID:              result.ID,
		ShiftID:         result.ShiftID,
		ShiftDate:       shift.Date,
		UserID:          result.UserID,
		Email:           result.Email,
		SlotTime:        result.SlotTime,
		DurationMinutes: result.DurationMinutes,
		RepairType:      string(result.RepairType),
		RepairDetails:   result.RepairDetails,
		Status:          string(result.Status),
		Notes:           result.Notes,
		IsMember:        result.IsMember,
		CreatedAt:       result.CreatedAt,
	}, nil
}
