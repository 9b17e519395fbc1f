package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/pkg/dbmetrics"
	"github.com/velokitchen/VK-BookingService/pkg/psqlbuilder"
)

// uniqueViolation код Postgres для нарушения уникального индекса
const uniqueViolation = "23505"

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"shift_id",
	"user_id",
	"email",
	"slot_time",
	"duration_minutes",
	"repair_type",
	"wheel_position",
	"bike_type",
	"brake_type",
	"description",
	"status",
	"notes",
	"is_member",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает новое бронирование.
// Инвариант "не более одного активного бронирования на (смена, время слота)"
// обеспечивается частичным уникальным индексом в БД: проигравшая из двух
// конкурентных вставок получает ErrSlotTaken, а не неопределённое поведение.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"shift_id",
			"user_id",
			"email",
			"slot_time",
			"duration_minutes",
			"repair_type",
			"wheel_position",
			"bike_type",
			"brake_type",
			"description",
			"status",
			"notes",
			"is_member",
		).
		Values(
			booking.ShiftID,
			booking.UserID,
			booking.Email,
			booking.SlotTime,
			booking.DurationMinutes,
			booking.RepairType,
			nullIfEmpty(booking.RepairDetails.WheelPosition),
			nullIfEmpty(booking.RepairDetails.BikeType),
			nullIfEmpty(booking.RepairDetails.BrakeType),
			nullIfEmpty(booking.RepairDetails.Description),
			booking.Status,
			booking.Notes,
			booking.IsMember,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBookingRow(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetWithFilter получает бронирования по фильтру. Для выборки по сменам
// результат отсортирован по времени слота. Одна выборка покрывает все
// запрошенные смены, чтобы не делать запрос на каждую.
//
// Внутри транзакции выборка по одной смене блокирует строки (FOR UPDATE) -
// это путь создания бронирования.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).From("bookings")

	if len(filter.ShiftIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"shift_id": filter.ShiftIDs})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Email != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("LOWER(email) = LOWER(?)", *filter.Email))
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	if len(filter.ShiftIDs) > 0 {
		selectBuilder = selectBuilder.OrderBy("shift_id ASC, slot_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("created_at DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && len(filter.ShiftIDs) == 1 {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByUserID получает историю бронирований пользователя, сначала новые.
// Опционально фильтрует по статусу.
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountActiveByShift подсчитывает неотменённые бронирования смены.
// Используется как защита от удаления смены с активными записями.
func (r *Repository) CountActiveByShift(ctx context.Context, shiftID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"shift_id": shiftID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByShift - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByShift - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины. Слот освобождается
// сразу: частичный индекс не учитывает отменённые строки.
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(scanner rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		wheelPosition        sql.NullString
		bikeType             sql.NullString
		brakeType            sql.NullString
		description          sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := scanner.Scan(
		&booking.ID,
		&booking.ShiftID,
		&booking.UserID,
		&booking.Email,
		&booking.SlotTime,
		&booking.DurationMinutes,
		&booking.RepairType,
		&wheelPosition,
		&bikeType,
		&brakeType,
		&description,
		&booking.Status,
		&booking.Notes,
		&booking.IsMember,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.RepairDetails = domain.RepairDetails{
		WheelPosition: wheelPosition.String,
		BikeType:      bikeType.String,
		BrakeType:     brakeType.String,
		Description:   description.String,
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func (r *Repository) scanBookingRow(row *sql.Row) (*domain.Booking, error) {
	booking, err := r.scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanBookingRow - scan row: %v", ErrScanRow, err)
	}
	return booking, nil
}

// nullIfEmpty приводит пустую строку к NULL
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation проверяет нарушение уникального индекса Postgres
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
