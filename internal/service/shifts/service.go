package shifts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	shiftRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/shift"
	profileClient "github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

// ShiftDefaults окно смены, создаваемой автоматически при записи
// волонтёра на пустую дату
type ShiftDefaults struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Service сервис для работы со сменами и их укомплектованием
type Service struct {
	shiftRepo     ShiftRepository
	bookingRepo   BookingRepository
	profileClient ProfileServiceClient
	txManager     TransactionManager
	defaults      ShiftDefaults
	logger        Logger
}

// NewService создает новый экземпляр сервиса смен
func NewService(
	shiftRepo ShiftRepository,
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	defaults ShiftDefaults,
	logger Logger,
) *Service {
	return &Service{
		shiftRepo:     shiftRepo,
		bookingRepo:   bookingRepo,
		profileClient: profileClient,
		txManager:     txManager,
		defaults:      defaults,
		logger:        logger,
	}
}

// Create создает смену. Доступно только волонтёрам штаба.
func (s *Service) Create(ctx context.Context, req *models.CreateShiftRequest) (*models.ShiftResponse, error) {
	s.logger.Info("Create: creating shift on %s by user=%d",
		req.Date.Format(domain.DateFormat), req.UserID)

	if _, err := s.staffProfile(ctx, req.UserID); err != nil {
		s.logger.Warn("Create: access denied for user=%d", req.UserID)
		return nil, err
	}

	shift, err := buildShift(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.shiftRepo.Create(ctx, shift)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created shift id=%d", created.ID)
	return models.FromDomainShift(created), nil
}

// GetByID получает смену по ID вместе с составом волонтёров
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ShiftResponse, error) {
	s.logger.Info("GetByID: fetching shift id=%d for user=%d", id, userID)

	if _, err := s.staffProfile(ctx, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d", userID)
		return nil, err
	}

	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("GetByID: shift id=%d not found", id)
			return nil, ErrShiftNotFound
		}
		s.logger.Error("GetByID: repository error for shift id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainShift(shift), nil
}

// ListByRange получает смены за период, включая закрытые.
// Штабной календарь: видны составы и пометки всех смен.
func (s *Service) ListByRange(ctx context.Context, req *models.ListShiftsRequest) (*models.ShiftListResponse, error) {
	s.logger.Info("ListByRange: fetching shifts from %s to %s for user=%d",
		req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.UserID)

	if _, err := s.staffProfile(ctx, req.UserID); err != nil {
		s.logger.Warn("ListByRange: access denied for user=%d", req.UserID)
		return nil, err
	}

	if req.From.IsZero() || req.To.IsZero() || req.To.Before(req.From) {
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	}

	shifts, err := s.shiftRepo.GetByDateRange(ctx, req.From, req.To)
	if err != nil {
		s.logger.Error("ListByRange: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByRange - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByRange: successfully fetched %d shifts", len(shifts))
	return models.FromDomainShiftList(shifts), nil
}

// Update обновляет смену. Закрытие смены прекращает приём новых записей,
// но не трогает уже созданные бронирования.
func (s *Service) Update(ctx context.Context, shiftID int64, req *models.UpdateShiftRequest) (*models.ShiftResponse, error) {
	s.logger.Info("Update: updating shift id=%d by user=%d", shiftID, req.UserID)

	if _, err := s.staffProfile(ctx, req.UserID); err != nil {
		s.logger.Warn("Update: access denied for user=%d", req.UserID)
		return nil, err
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("Update: shift id=%d not found", shiftID)
			return nil, ErrShiftNotFound
		}
		s.logger.Error("Update: repository error for shift id=%d: %v", shiftID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if err := applyShiftPatch(shift, req); err != nil {
		s.logger.Warn("Update: validation failed for shift id=%d: %v", shiftID, err)
		return nil, err
	}

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("Update: repository error for shift id=%d: %v", shiftID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated shift id=%d", shiftID)
	return models.FromDomainShift(shift), nil
}

// Delete удаляет смену. Смена с активными бронированиями не удаляется.
func (s *Service) Delete(ctx context.Context, shiftID int64, userID int64) error {
	s.logger.Info("Delete: deleting shift id=%d by user=%d", shiftID, userID)

	if _, err := s.staffProfile(ctx, userID); err != nil {
		s.logger.Warn("Delete: access denied for user=%d", userID)
		return err
	}

	count, err := s.bookingRepo.CountActiveByShift(ctx, shiftID)
	if err != nil {
		s.logger.Error("Delete: failed to count bookings for shift id=%d: %v", shiftID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
	if count > 0 {
		s.logger.Warn("Delete: shift id=%d has %d active bookings", shiftID, count)
		return ErrHasActiveBookings
	}

	if err := s.shiftRepo.Delete(ctx, shiftID); err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("Delete: shift id=%d not found", shiftID)
			return ErrShiftNotFound
		}
		s.logger.Error("Delete: repository error for shift id=%d: %v", shiftID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted shift id=%d", shiftID)
	return nil
}

// ToggleSignup переключает запись волонтёра на смену в роли:
// записанный снимается, не записанный добавляется в конец состава.
// При запросе по дате смена создается с окном по умолчанию,
// если её ещё нет.
func (s *Service) ToggleSignup(ctx context.Context, req *models.ToggleSignupRequest) (*models.ToggleSignupResponse, error) {
	s.logger.Info("ToggleSignup: shift=%d, role=%s, user=%d", req.ShiftID, req.Role, req.UserID)

	role := domain.StaffRole(req.Role)
	if !domain.ValidStaffRole(role) {
		s.logger.Warn("ToggleSignup: unknown role %q", req.Role)
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}
	if req.ShiftID == 0 && req.Date.IsZero() {
		return nil, fmt.Errorf("%w: shift id or date is required", ErrInvalidInput)
	}

	profile, err := s.staffProfile(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("ToggleSignup: access denied for user=%d", req.UserID)
		return nil, err
	}
	if !canTakeRole(profile, role) {
		s.logger.Warn("ToggleSignup: user=%d has no %s role", req.UserID, role)
		return nil, ErrAccessDenied
	}

	var result *models.ToggleSignupResponse
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		shiftID := req.ShiftID
		if shiftID == 0 {
			id, err := s.resolveShiftByDate(txCtx, req.Date)
			if err != nil {
				return err
			}
			shiftID = id
		}

		r, err := s.toggle(txCtx, shiftID, role, profile)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ToggleSignup: shift=%d, role=%s, user=%d, signedUp=%t",
		req.ShiftID, req.Role, req.UserID, result.SignedUp)
	return result, nil
}

// SaveStaffingBatch применяет пакет переключений одним сохранением.
// Пакет выполняется в одной транзакции: либо применяются все пары,
// либо ни одна.
func (s *Service) SaveStaffingBatch(ctx context.Context, req *models.SaveStaffingBatchRequest) (*models.SaveStaffingBatchResponse, error) {
	s.logger.Info("SaveStaffingBatch: %d changes by user=%d", len(req.Changes), req.UserID)

	// Повторные клики по одной паре гасят друг друга
	pending := domain.NewPendingStaffingChanges()
	for _, c := range req.Changes {
		role := domain.StaffRole(c.Role)
		if !domain.ValidStaffRole(role) {
			s.logger.Warn("SaveStaffingBatch: unknown role %q", c.Role)
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, c.Role)
		}
		pending.Toggle(c.ShiftID, role)
	}

	profile, err := s.staffProfile(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("SaveStaffingBatch: access denied for user=%d", req.UserID)
		return nil, err
	}

	changes := pending.Changes()
	for _, c := range changes {
		if !canTakeRole(profile, c.Role) {
			s.logger.Warn("SaveStaffingBatch: user=%d has no %s role", req.UserID, c.Role)
			return nil, ErrAccessDenied
		}
	}

	resp := &models.SaveStaffingBatchResponse{
		Results: make([]models.ToggleSignupResponse, 0, len(changes)),
	}

	if pending.Empty() {
		return resp, nil
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, c := range changes {
			r, err := s.toggle(txCtx, c.ShiftID, c.Role, profile)
			if err != nil {
				return err
			}
			resp.Results = append(resp.Results, *r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SaveStaffingBatch: successfully applied %d changes by user=%d",
		len(changes), req.UserID)
	return resp, nil
}

// Вспомогательные методы

// toggle выполняет одно переключение внутри транзакции
func (s *Service) toggle(ctx context.Context, shiftID int64, role domain.StaffRole, profile *profileClient.Profile) (*models.ToggleSignupResponse, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("toggle: shift id=%d not found", shiftID)
			return nil, ErrShiftNotFound
		}
		s.logger.Error("toggle: repository error for shift id=%d: %v", shiftID, err)
		return nil, fmt.Errorf("%w: toggle - repository error: %v", ErrInternal, err)
	}

	signedUp := shift.IsSignedUp(profile.ID, role)
	if signedUp {
		err = s.shiftRepo.RemoveStaff(ctx, shiftID, profile.ID, role)
	} else {
		err = s.shiftRepo.AddStaff(ctx, shiftID, domain.StaffMember{
			UserID: profile.ID,
			Name:   profile.Name,
			Email:  profile.Email,
		}, role)
	}
	if err != nil {
		s.logger.Error("toggle: failed to update roster for shift id=%d: %v", shiftID, err)
		return nil, fmt.Errorf("%w: toggle - repository error: %v", ErrInternal, err)
	}

	return &models.ToggleSignupResponse{
		ShiftID:  shiftID,
		Role:     string(role),
		SignedUp: !signedUp,
	}, nil
}

// resolveShiftByDate находит открытую смену на дату или создает новую
// с окном по умолчанию. Вызывается внутри транзакции переключения.
func (s *Service) resolveShiftByDate(ctx context.Context, date time.Time) (int64, error) {
	open, err := s.shiftRepo.GetOpenByDate(ctx, date)
	if err != nil {
		s.logger.Error("resolveShiftByDate: repository error for date=%s: %v",
			date.Format(domain.DateFormat), err)
		return 0, fmt.Errorf("%w: resolveShiftByDate - repository error: %v", ErrInternal, err)
	}
	if len(open) > 0 {
		return open[0].ID, nil
	}

	created, err := s.shiftRepo.Create(ctx, &domain.Shift{
		Date:      date,
		StartTime: s.defaults.StartTime,
		EndTime:   s.defaults.EndTime,
		IsOpen:    true,
	})
	if err != nil {
		s.logger.Error("resolveShiftByDate: failed to create shift on %s: %v",
			date.Format(domain.DateFormat), err)
		return 0, fmt.Errorf("%w: resolveShiftByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("resolveShiftByDate: created shift id=%d on %s",
		created.ID, date.Format(domain.DateFormat))
	return created.ID, nil
}

// staffProfile получает профиль и проверяет принадлежность к штабу
func (s *Service) staffProfile(ctx context.Context, userID int64) (*profileClient.Profile, error) {
	profile, err := s.profileClient.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, profileClient.ErrProfileNotFound) {
			return nil, ErrAccessDenied
		}
		s.logger.Error("staffProfile: failed to get profile id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to get profile: %v", ErrInternal, err)
	}
	if !profile.IsStaff() {
		return nil, ErrAccessDenied
	}
	return profile, nil
}

// canTakeRole проверяет, что профиль допускает роль; админ может всё
func canTakeRole(p *profileClient.Profile, role domain.StaffRole) bool {
	if p.Roles.Admin {
		return true
	}
	switch role {
	case domain.RoleMechanic:
		return p.Roles.Mechanic
	case domain.RoleHost:
		return p.Roles.Host
	}
	return false
}

// buildShift собирает domain.Shift из запроса на создание
func buildShift(req *models.CreateShiftRequest) (*domain.Shift, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}

	shift := &domain.Shift{
		Date:      req.Date,
		StartTime: start,
		EndTime:   end,
		IsOpen:    req.IsOpen,
		Notes:     req.Notes,
	}
	if !shift.ValidWindow() {
		return nil, fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	return shift, nil
}

// applyShiftPatch накладывает частичное обновление на смену
func applyShiftPatch(shift *domain.Shift, req *models.UpdateShiftRequest) error {
	if req.StartTime != nil {
		start, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
		}
		shift.StartTime = start
	}
	if req.EndTime != nil {
		end, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
		}
		shift.EndTime = end
	}
	if req.IsOpen != nil {
		shift.IsOpen = *req.IsOpen
	}
	if req.Notes != nil {
		shift.Notes = req.Notes
	}

	if !shift.ValidWindow() {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	return nil
}
