package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/infra/notify"
	bookingRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/booking"
	shiftRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/shift"
	profileClient "github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
	"github.com/velokitchen/VK-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo   BookingRepository
	shiftRepo     ShiftRepository
	profileClient ProfileServiceClient
	publisher     NotifyPublisher
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	shiftRepo ShiftRepository,
	profileClient ProfileServiceClient,
	publisher NotifyPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		shiftRepo:     shiftRepo,
		profileClient: profileClient,
		publisher:     publisher,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID.
// Доступ имеет владелец, гость с совпадающим email или волонтёр штаба.
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkReadAccess(ctx, booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied to booking id=%d", id)
		return nil, err
	}

	shiftDate, ok := s.loadShiftDate(ctx, booking.ShiftID)
	if !ok {
		return models.FromDomainBooking(booking), nil
	}
	return models.FromDomainBookingWithDate(booking, shiftDate), nil
}

// GetUserBookings получает историю бронирований пользователя.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование.
// Владелец и гость с совпадающим email отменяют от своего имени,
// волонтёр штаба - от имени мастерской. Отменённый слот сразу
// возвращается в выдачу доступных.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if booking.IsCancelled() {
		s.logger.Warn("Cancel: booking id=%d is already cancelled", bookingID)
		return ErrAlreadyCancelled
	}
	if !booking.CanTransitionTo(domain.StatusCancelled) {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	cancelledBy, err := s.resolveCancelActor(ctx, booking, req.Actor)
	if err != nil {
		s.logger.Warn("Cancel: access denied to cancel booking id=%d", bookingID)
		return err
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d by %s", bookingID, cancelledBy)

	// Событие об отмене - best effort
	booking.Status = domain.StatusCancelled
	booking.CancellationReason = req.CancellationReason
	s.publishCancelled(ctx, booking, cancelledBy, req.CancellationReason)

	return nil
}

// UpdateStatus обновляет статус бронирования.
// Доступно только волонтёрам штаба; переходы ограничены машиной состояний.
// Перевод в cancelled идёт по пути отмены: слот освобождается и публикуется
// событие отмены от имени мастерской.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	if err := s.checkStaffAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("UpdateStatus: access denied for user=%d", req.UserID)
		return err
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if newStatus == domain.StatusCancelled {
		if booking.IsCancelled() {
			s.logger.Warn("UpdateStatus: booking id=%d is already cancelled", bookingID)
			return ErrAlreadyCancelled
		}
		if !booking.CanTransitionTo(domain.StatusCancelled) {
			s.logger.Warn("UpdateStatus: transition %s -> cancelled not allowed for booking id=%d",
				booking.Status, bookingID)
			return ErrInvalidStatusTransition
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, nil); err != nil {
			s.logger.Error("UpdateStatus: failed to cancel booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("UpdateStatus: successfully cancelled booking id=%d", bookingID)

		booking.Status = domain.StatusCancelled
		s.publishCancelled(ctx, booking, notify.CancelledByAdmin, nil)
		return nil
	}

	if !booking.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return ErrInvalidStatusTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)

	// Событие о смене статуса - best effort
	booking.Status = newStatus
	if shiftDate, ok := s.loadShiftDate(ctx, booking.ShiftID); ok {
		if err := s.publisher.BookingStatusChanged(ctx, booking, shiftDate); err != nil {
			s.logger.Warn("UpdateStatus: failed to publish status event for booking id=%d: %v",
				booking.ID, err)
		}
	}

	return nil
}

// Вспомогательные методы

// checkReadAccess проверяет право на чтение бронирования
func (s *Service) checkReadAccess(ctx context.Context, booking *domain.Booking, actor models.Actor) error {
	if actor.UserID != nil && booking.OwnedByUser(*actor.UserID) {
		return nil
	}
	if booking.IsGuest() && actor.Email != "" && booking.EmailMatches(actor.Email) {
		return nil
	}
	if actor.UserID != nil {
		if err := s.checkStaffAccess(ctx, *actor.UserID); err == nil {
			return nil
		}
	}
	return ErrAccessDenied
}

// resolveCancelActor определяет, от чьего имени выполняется отмена
func (s *Service) resolveCancelActor(ctx context.Context, booking *domain.Booking, actor models.Actor) (string, error) {
	if actor.UserID != nil && booking.OwnedByUser(*actor.UserID) {
		return notify.CancelledByUser, nil
	}
	if booking.IsGuest() && actor.Email != "" && booking.EmailMatches(actor.Email) {
		return notify.CancelledByUser, nil
	}
	if actor.UserID != nil {
		if err := s.checkStaffAccess(ctx, *actor.UserID); err == nil {
			return notify.CancelledByAdmin, nil
		}
	}
	return "", ErrAccessDenied
}

// checkStaffAccess проверяет, что пользователь является волонтёром штаба
func (s *Service) checkStaffAccess(ctx context.Context, userID int64) error {
	profile, err := s.profileClient.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, profileClient.ErrProfileNotFound) {
			s.logger.Warn("checkStaffAccess: profile id=%d not found", userID)
			return ErrAccessDenied
		}
		s.logger.Error("checkStaffAccess: failed to get profile id=%d: %v", userID, err)
		return fmt.Errorf("%w: failed to get profile: %v", ErrInternal, err)
	}
	if !profile.IsStaff() {
		return ErrAccessDenied
	}
	return nil
}

// loadShiftDate получает дату смены для события; сбой не фатален
func (s *Service) loadShiftDate(ctx context.Context, shiftID int64) (time.Time, bool) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if !errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("loadShiftDate: failed to get shift id=%d: %v", shiftID, err)
		}
		return time.Time{}, false
	}
	return shift.Date, true
}

// publishCancelled публикует событие отмены, не прерывая основную операцию
func (s *Service) publishCancelled(ctx context.Context, booking *domain.Booking, cancelledBy string, reason *string) {
	shiftDate, ok := s.loadShiftDate(ctx, booking.ShiftID)
	if !ok {
		return
	}

	reasonText := ""
	if reason != nil {
		reasonText = *reason
	}
	if err := s.publisher.BookingCancelled(ctx, booking, shiftDate, cancelledBy, reasonText); err != nil {
		s.logger.Warn("publishCancelled: failed to publish cancel event for booking id=%d: %v",
			booking.ID, err)
	}
}
