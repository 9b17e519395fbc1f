package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeShiftRepo struct {
	shifts []*domain.Shift
	err    error
}

func (f *fakeShiftRepo) GetOpenByDate(context.Context, time.Time) ([]*domain.Shift, error) {
	return f.shifts, f.err
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
	filter   domain.BookingsFilter
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.filter = filter
	return f.bookings, f.err
}

func openShift(id int64, start, end string) *domain.Shift {
	return &domain.Shift{
		ID:        id,
		Date:      time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
		IsOpen:    true,
	}
}

func booking(shiftID int64, slot string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ShiftID:  shiftID,
		SlotTime: types.TimeString(slot),
		Status:   status,
	}
}

func TestExecute_BuildsGridForEachOpenShift(t *testing.T) {
	uc := NewUseCase(
		&fakeShiftRepo{shifts: []*domain.Shift{openShift(1, "14:00", "18:00")}},
		&fakeBookingRepo{},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, resp.Shifts, 1)

	slots := resp.Shifts[0].Slots
	// 14:00..17:30 every 30 minutes
	require.Len(t, slots, 8)
	assert.Equal(t, types.TimeString("14:00"), slots[0].Time)
	assert.Equal(t, types.TimeString("17:30"), slots[7].Time)
	for _, s := range slots {
		assert.True(t, s.Available, "slot %s", s.Time)
		assert.Equal(t, domain.ReasonNone, s.Reason)
	}
}

func TestExecute_MarksBookedSlots(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, "15:00", domain.StatusConfirmed),
		booking(1, "16:00", domain.StatusCancelled), // cancelled frees the slot
	}}
	uc := NewUseCase(
		&fakeShiftRepo{shifts: []*domain.Shift{openShift(1, "14:00", "18:00")}},
		bookings,
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	byTime := map[types.TimeString]domain.TimeSlot{}
	for _, s := range resp.Shifts[0].Slots {
		byTime[s.Time] = s
	}

	assert.False(t, byTime["15:00"].Available)
	assert.Equal(t, domain.ReasonBooked, byTime["15:00"].Reason)
	assert.True(t, byTime["16:00"].Available)

	assert.Equal(t, []int64{1}, bookings.filter.ShiftIDs)
}

func TestExecute_MarksInsufficientTime(t *testing.T) {
	uc := NewUseCase(
		&fakeShiftRepo{shifts: []*domain.Shift{openShift(1, "14:00", "18:00")}},
		&fakeBookingRepo{},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	byTime := map[types.TimeString]domain.TimeSlot{}
	for _, s := range resp.Shifts[0].Slots {
		byTime[s.Time] = s
	}

	// an hour still fits at 17:00 but not at 17:30
	assert.True(t, byTime["17:00"].Available)
	assert.False(t, byTime["17:30"].Available)
	assert.Equal(t, domain.ReasonInsufficientTime, byTime["17:30"].Reason)
}

func TestExecute_LastSlotAcceptsOnlyQuickRepairs(t *testing.T) {
	// 18:15 close leaves 45 minutes after the 17:30 grid point, but the
	// last grid point still only takes a 30-minute repair
	uc := NewUseCase(
		&fakeShiftRepo{shifts: []*domain.Shift{openShift(1, "14:00", "18:15")}},
		&fakeBookingRepo{},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
	})
	require.NoError(t, err)

	last := resp.Shifts[0].Slots[len(resp.Shifts[0].Slots)-1]
	assert.Equal(t, types.TimeString("18:00"), last.Time)
	assert.False(t, last.Available)
	assert.Equal(t, domain.ReasonInsufficientTime, last.Reason)

	// 17:30 + 45 ends at 18:15 exactly and is not the last grid point
	for _, s := range resp.Shifts[0].Slots {
		if s.Time == "17:30" {
			assert.True(t, s.Available)
		}
	}
}

func TestExecute_BookedWinsOverInsufficientTime(t *testing.T) {
	uc := NewUseCase(
		&fakeShiftRepo{shifts: []*domain.Shift{openShift(1, "14:00", "18:00")}},
		&fakeBookingRepo{bookings: []*domain.Booking{
			booking(1, "17:30", domain.StatusConfirmed),
		}},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	last := resp.Shifts[0].Slots[len(resp.Shifts[0].Slots)-1]
	assert.Equal(t, domain.ReasonBooked, last.Reason)
}

func TestExecute_NoOpenShifts(t *testing.T) {
	uc := NewUseCase(&fakeShiftRepo{}, &fakeBookingRepo{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Shifts)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeShiftRepo{}, &fakeBookingRepo{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepositoryErrors(t *testing.T) {
	boom := errors.New("boom")

	uc := NewUseCase(&fakeShiftRepo{err: boom}, &fakeBookingRepo{}, nopLogger{})
	_, err := uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrInternal)

	uc = NewUseCase(
		&fakeShiftRepo{shifts: []*domain.Shift{openShift(1, "14:00", "18:00")}},
		&fakeBookingRepo{err: boom},
		nopLogger{},
	)
	_, err = uc.Execute(context.Background(), &Request{
		Date:            time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrInternal)
}
