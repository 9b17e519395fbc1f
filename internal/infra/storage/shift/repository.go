package shift

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/pkg/dbmetrics"
	"github.com/velokitchen/VK-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы со сменами и их составами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория смен
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var shiftColumns = []string{
	"id",
	"shift_date",
	"start_time",
	"end_time",
	"is_open",
	"notes",
	"created_at",
	"updated_at",
}

// Create создает новую смену
func (r *Repository) Create(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("shifts").
		Columns("shift_date", "start_time", "end_time", "is_open", "notes").
		Values(shift.Date, shift.StartTime, shift.EndTime, shift.IsOpen, shift.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	shift.CreatedAt = createdAt.Time
	shift.UpdatedAt = updatedAt.Time

	return shift, nil
}

// GetByID получает смену по ID вместе с составом
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	shift, err := r.scanShiftRow(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.loadRosters(ctx, []*domain.Shift{shift}); err != nil {
		return nil, err
	}

	return shift, nil
}

// GetByDate получает все смены на дату (включая закрытые), отсортированные
// по времени начала
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error) {
	return r.getByDateRange(ctx, date, date, false)
}

// GetOpenByDate получает открытые для записи смены на дату
func (r *Repository) GetOpenByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error) {
	return r.getByDateRange(ctx, date, date, true)
}

// GetByDateRange получает смены за период [from, to] вместе с составами
func (r *Repository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Shift, error) {
	return r.getByDateRange(ctx, from, to, false)
}

// GetOpenDates возвращает даты в периоде [from, to], на которые есть хотя бы
// одна открытая смена. Используется для подсветки календаря.
func (r *Repository) GetOpenDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT shift_date").
		From("shifts").
		Where(squirrel.Eq{"is_open": true}).
		Where(squirrel.GtOrEq{"shift_date": from}).
		Where(squirrel.LtOrEq{"shift_date": to}).
		OrderBy("shift_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: GetOpenDates - scan date: %v", ErrScanRow, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOpenDates - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// Update обновляет окно, флаг открытости и заметки смены
func (r *Repository) Update(ctx context.Context, shift *domain.Shift) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shifts").
		Set("start_time", shift.StartTime).
		Set("end_time", shift.EndTime).
		Set("is_open", shift.IsOpen).
		Set("notes", shift.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": shift.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// Delete удаляет смену (состав удаляется каскадно)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("shifts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// AddStaff добавляет пользователя в состав смены. Повторное добавление той же
// пары (пользователь, роль) не является ошибкой - запись остаётся прежней.
func (r *Repository) AddStaff(ctx context.Context, shiftID int64, member domain.StaffMember, role domain.StaffRole) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	signedUpAt := member.SignedUpAt
	if signedUpAt.IsZero() {
		signedUpAt = time.Now()
	}

	query, args, err := psqlbuilder.Insert("shift_staff").
		Columns("shift_id", "user_id", "role", "name", "email", "signed_up_at").
		Values(shiftID, member.UserID, role, member.Name, member.Email, signedUpAt).
		Suffix("ON CONFLICT (shift_id, user_id, role) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddStaff - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddStaff - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// RemoveStaff убирает пользователя из состава смены
func (r *Repository) RemoveStaff(ctx context.Context, shiftID, userID int64, role domain.StaffRole) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("shift_staff").
		Where(squirrel.Eq{"shift_id": shiftID, "user_id": userID, "role": role}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveStaff - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RemoveStaff - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// getByDateRange общая выборка смен за период
func (r *Repository) getByDateRange(ctx context.Context, from, to time.Time, openOnly bool) ([]*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.GtOrEq{"shift_date": from}).
		Where(squirrel.LtOrEq{"shift_date": to}).
		OrderBy("shift_date ASC, start_time ASC")

	if openOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_open": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift, err := r.scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getByDateRange - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadRosters(ctx, shifts); err != nil {
		return nil, err
	}

	return shifts, nil
}

// loadRosters загружает составы для списка смен одним запросом
func (r *Repository) loadRosters(ctx context.Context, shifts []*domain.Shift) error {
	if len(shifts) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, len(shifts))
	byID := make(map[int64]*domain.Shift, len(shifts))
	for i, s := range shifts {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	query, args, err := psqlbuilder.Select("shift_id", "user_id", "role", "name", "email", "signed_up_at").
		From("shift_staff").
		Where(squirrel.Eq{"shift_id": ids}).
		OrderBy("signed_up_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadRosters - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadRosters - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			shiftID int64
			role    domain.StaffRole
			member  domain.StaffMember
		)
		if err := rows.Scan(&shiftID, &member.UserID, &role, &member.Name, &member.Email, &member.SignedUpAt); err != nil {
			return fmt.Errorf("%w: loadRosters - scan row: %v", ErrScanRow, err)
		}

		shift, ok := byID[shiftID]
		if !ok {
			continue
		}
		switch role {
		case domain.RoleHost:
			shift.Hosts = append(shift.Hosts, member)
		default:
			shift.Mechanics = append(shift.Mechanics, member)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadRosters - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanShift(scanner rowScanner) (*domain.Shift, error) {
	var shift domain.Shift
	var createdAt, updatedAt sql.NullTime

	err := scanner.Scan(
		&shift.ID,
		&shift.Date,
		&shift.StartTime,
		&shift.EndTime,
		&shift.IsOpen,
		&shift.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: scanShift - scan row: %v", ErrScanRow, err)
	}

	shift.CreatedAt = createdAt.Time
	shift.UpdatedAt = updatedAt.Time

	return &shift, nil
}

func (r *Repository) scanShiftRow(row *sql.Row) (*domain.Shift, error) {
	var shift domain.Shift
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&shift.ID,
		&shift.Date,
		&shift.StartTime,
		&shift.EndTime,
		&shift.IsOpen,
		&shift.Notes,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanShiftRow - scan row: %v", ErrScanRow, err)
	}

	shift.CreatedAt = createdAt.Time
	shift.UpdatedAt = updatedAt.Time

	return &shift, nil
}
