package shifts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	shiftRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/shift"
	profileClient "github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
	"github.com/velokitchen/VK-BookingService/internal/service/shifts/models"
	"github.com/velokitchen/VK-BookingService/pkg/ptr"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type rosterOp struct {
	shiftID int64
	userID  int64
	role    domain.StaffRole
	add     bool
}

type fakeShiftRepo struct {
	shifts  map[int64]*domain.Shift
	created *domain.Shift
	updated *domain.Shift
	deleted []int64
	ops     []rosterOp
	failOn  int // fail the n-th roster operation (1-based), 0 disables
	opCount int
}

func (f *fakeShiftRepo) Create(_ context.Context, s *domain.Shift) (*domain.Shift, error) {
	created := *s
	created.ID = int64(len(f.shifts)) + 1
	f.created = &created
	if f.shifts == nil {
		f.shifts = map[int64]*domain.Shift{}
	}
	f.shifts[created.ID] = &created
	return &created, nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id int64) (*domain.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return nil, shiftRepo.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) GetOpenByDate(_ context.Context, date time.Time) ([]*domain.Shift, error) {
	var out []*domain.Shift
	for _, s := range f.shifts {
		if s.IsOpen && s.Date.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShiftRepo) GetByDateRange(context.Context, time.Time, time.Time) ([]*domain.Shift, error) {
	out := make([]*domain.Shift, 0, len(f.shifts))
	for _, s := range f.shifts {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeShiftRepo) Update(_ context.Context, s *domain.Shift) error {
	f.updated = s
	return nil
}

func (f *fakeShiftRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeShiftRepo) AddStaff(_ context.Context, shiftID int64, member domain.StaffMember, role domain.StaffRole) error {
	f.opCount++
	if f.failOn == f.opCount {
		return errRosterBoom
	}
	f.ops = append(f.ops, rosterOp{shiftID: shiftID, userID: member.UserID, role: role, add: true})
	return nil
}

func (f *fakeShiftRepo) RemoveStaff(_ context.Context, shiftID, userID int64, role domain.StaffRole) error {
	f.opCount++
	if f.failOn == f.opCount {
		return errRosterBoom
	}
	f.ops = append(f.ops, rosterOp{shiftID: shiftID, userID: userID, role: role})
	return nil
}

type fakeBookingRepo struct {
	activeCount int
}

func (f *fakeBookingRepo) CountActiveByShift(context.Context, int64) (int, error) {
	return f.activeCount, nil
}

type fakeProfiles struct {
	profiles map[int64]*profileClient.Profile
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID int64) (*profileClient.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, profileClient.ErrProfileNotFound
	}
	return p, nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

var errRosterBoom = errors.New("roster write failed")

func openShift(id int64) *domain.Shift {
	return &domain.Shift{
		ID:        id,
		Date:      time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("14:00"),
		EndTime:   types.TimeString("18:00"),
		IsOpen:    true,
	}
}

func testProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[int64]*profileClient.Profile{
		1: {ID: 1, Name: "Вера", Email: "vera@example.org", Roles: profileClient.Roles{Mechanic: true}},
		2: {ID: 2, Name: "Олег", Email: "oleg@example.org", Roles: profileClient.Roles{Host: true}},
		3: {ID: 3, Name: "Аня", Email: "anya@example.org", Roles: profileClient.Roles{Admin: true}},
		9: {ID: 9, Name: "Гость", Email: "guest@example.org"}, // no staff roles
	}}
}

func newTestService(repo *fakeShiftRepo, bookings *fakeBookingRepo, tx *fakeTx) *Service {
	defaults := ShiftDefaults{
		StartTime: types.TimeString("16:00"),
		EndTime:   types.TimeString("20:00"),
	}
	return NewService(repo, bookings, testProfiles(), tx, defaults, nopLogger{})
}

func TestCreate(t *testing.T) {
	repo := &fakeShiftRepo{}
	svc := newTestService(repo, &fakeBookingRepo{}, &fakeTx{})

	resp, err := svc.Create(context.Background(), &models.CreateShiftRequest{
		UserID:    1,
		Date:      time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "14:00",
		EndTime:   "18:00",
		IsOpen:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-05-02", resp.Date)
	assert.Equal(t, "14:00", resp.StartTime)
	assert.True(t, resp.IsOpen)
	require.NotNil(t, repo.created)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(&fakeShiftRepo{}, &fakeBookingRepo{}, &fakeTx{})

	tests := []struct {
		name string
		req  models.CreateShiftRequest
	}{
		{"missing date", models.CreateShiftRequest{UserID: 1, StartTime: "14:00", EndTime: "18:00"}},
		{"bad start time", models.CreateShiftRequest{UserID: 1, Date: time.Now(), StartTime: "2pm", EndTime: "18:00"}},
		{"inverted window", models.CreateShiftRequest{UserID: 1, Date: time.Now(), StartTime: "18:00", EndTime: "14:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreate_StaffOnly(t *testing.T) {
	svc := newTestService(&fakeShiftRepo{}, &fakeBookingRepo{}, &fakeTx{})

	_, err := svc.Create(context.Background(), &models.CreateShiftRequest{
		UserID:    9,
		Date:      time.Now(),
		StartTime: "14:00",
		EndTime:   "18:00",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: openShift(1)}}
	svc := newTestService(repo, &fakeBookingRepo{}, &fakeTx{})

	resp, err := svc.Update(context.Background(), 1, &models.UpdateShiftRequest{
		UserID: 1,
		IsOpen: ptr.Ptr(false),
	})
	require.NoError(t, err)

	// untouched fields survive the patch
	assert.False(t, resp.IsOpen)
	assert.Equal(t, "14:00", resp.StartTime)
	assert.Equal(t, "18:00", resp.EndTime)
	require.NotNil(t, repo.updated)
}

func TestUpdate_RejectsInvertedWindow(t *testing.T) {
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: openShift(1)}}
	svc := newTestService(repo, &fakeBookingRepo{}, &fakeTx{})

	_, err := svc.Update(context.Background(), 1, &models.UpdateShiftRequest{
		UserID:    1,
		StartTime: ptr.Ptr("19:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_BlockedByActiveBookings(t *testing.T) {
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: openShift(1)}}
	svc := newTestService(repo, &fakeBookingRepo{activeCount: 2}, &fakeTx{})

	err := svc.Delete(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrHasActiveBookings)
	assert.Empty(t, repo.deleted)
}

func TestDelete(t *testing.T) {
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: openShift(1)}}
	svc := newTestService(repo, &fakeBookingRepo{}, &fakeTx{})

	err := svc.Delete(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestToggleSignup_AddsAndRemoves(t *testing.T) {
	shift := openShift(1)
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: shift}}
	tx := &fakeTx{}
	svc := newTestService(repo, &fakeBookingRepo{}, tx)

	resp, err := svc.ToggleSignup(context.Background(), &models.ToggleSignupRequest{
		UserID: 1, ShiftID: 1, Role: "mechanic",
	})
	require.NoError(t, err)
	assert.True(t, resp.SignedUp)
	require.Len(t, repo.ops, 1)
	assert.True(t, repo.ops[0].add)
	assert.Equal(t, 1, tx.calls)

	// now already on the roster, so the same request signs off
	shift.Mechanics = []domain.StaffMember{{UserID: 1}}
	resp, err = svc.ToggleSignup(context.Background(), &models.ToggleSignupRequest{
		UserID: 1, ShiftID: 1, Role: "mechanic",
	})
	require.NoError(t, err)
	assert.False(t, resp.SignedUp)
	require.Len(t, repo.ops, 2)
	assert.False(t, repo.ops[1].add)
}

func TestToggleSignup_ByDateCreatesShift(t *testing.T) {
	repo := &fakeShiftRepo{}
	tx := &fakeTx{}
	svc := newTestService(repo, &fakeBookingRepo{}, tx)

	date := time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC)
	resp, err := svc.ToggleSignup(context.Background(), &models.ToggleSignupRequest{
		UserID: 1, Date: date, Role: "mechanic",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.True(t, repo.created.Date.Equal(date))
	assert.Equal(t, "16:00", repo.created.StartTime.String())
	assert.Equal(t, "20:00", repo.created.EndTime.String())
	assert.True(t, repo.created.IsOpen)

	assert.True(t, resp.SignedUp)
	assert.Equal(t, repo.created.ID, resp.ShiftID)
	require.Len(t, repo.ops, 1)
	assert.Equal(t, repo.created.ID, repo.ops[0].shiftID)
	assert.Equal(t, 1, tx.calls)
}

func TestToggleSignup_ByDateReusesExistingShift(t *testing.T) {
	shift := openShift(1)
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: shift}}
	svc := newTestService(repo, &fakeBookingRepo{}, &fakeTx{})

	resp, err := svc.ToggleSignup(context.Background(), &models.ToggleSignupRequest{
		UserID: 1, Date: shift.Date, Role: "mechanic",
	})
	require.NoError(t, err)

	assert.Nil(t, repo.created)
	assert.Equal(t, int64(1), resp.ShiftID)
	require.Len(t, repo.ops, 1)
	assert.Equal(t, int64(1), repo.ops[0].shiftID)
}

func TestToggleSignup_RequiresShiftOrDate(t *testing.T) {
	svc := newTestService(&fakeShiftRepo{}, &fakeBookingRepo{}, &fakeTx{})

	_, err := svc.ToggleSignup(context.Background(), &models.ToggleSignupRequest{
		UserID: 1, Role: "mechanic",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToggleSignup_RoleChecks(t *testing.T) {
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: openShift(1)}}
	svc := newTestService(repo, &fakeBookingRepo{}, &fakeTx{})

	// a host may not sign up as a mechanic
	_, err := svc.ToggleSignup(context.Background(), &models.ToggleSignupRequest{
		UserID: 2, ShiftID: 1, Role: "mechanic",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// an admin may take any role
	resp, err := svc.ToggleSignup(context.Background(), &models.ToggleSignupRequest{
		UserID: 3, ShiftID: 1, Role: "mechanic",
	})
	require.NoError(t, err)
	assert.True(t, resp.SignedUp)

	_, err = svc.ToggleSignup(context.Background(), &models.ToggleSignupRequest{
		UserID: 1, ShiftID: 1, Role: "janitor",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaveStaffingBatch_CollapsesRepeatedClicks(t *testing.T) {
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{
		1: openShift(1),
		2: openShift(2),
	}}
	tx := &fakeTx{}
	svc := newTestService(repo, &fakeBookingRepo{}, tx)

	resp, err := svc.SaveStaffingBatch(context.Background(), &models.SaveStaffingBatchRequest{
		UserID: 1,
		Changes: []models.StaffingChange{
			{ShiftID: 1, Role: "mechanic"},
			{ShiftID: 2, Role: "mechanic"},
			{ShiftID: 1, Role: "mechanic"}, // cancels the first click
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, int64(2), resp.Results[0].ShiftID)
	require.Len(t, repo.ops, 1)
	assert.Equal(t, int64(2), repo.ops[0].shiftID)
	assert.Equal(t, 1, tx.calls)
}

func TestSaveStaffingBatch_EmptyAfterCollapse(t *testing.T) {
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: openShift(1)}}
	tx := &fakeTx{}
	svc := newTestService(repo, &fakeBookingRepo{}, tx)

	resp, err := svc.SaveStaffingBatch(context.Background(), &models.SaveStaffingBatchRequest{
		UserID: 1,
		Changes: []models.StaffingChange{
			{ShiftID: 1, Role: "mechanic"},
			{ShiftID: 1, Role: "mechanic"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Empty(t, repo.ops)
	assert.Equal(t, 0, tx.calls)
}

func TestSaveStaffingBatch_AllOrNothing(t *testing.T) {
	repo := &fakeShiftRepo{
		shifts: map[int64]*domain.Shift{
			1: openShift(1),
			2: openShift(2),
		},
		failOn: 2,
	}
	svc := newTestService(repo, &fakeBookingRepo{}, &fakeTx{})

	_, err := svc.SaveStaffingBatch(context.Background(), &models.SaveStaffingBatchRequest{
		UserID: 1,
		Changes: []models.StaffingChange{
			{ShiftID: 1, Role: "mechanic"},
			{ShiftID: 2, Role: "mechanic"},
		},
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestSaveStaffingBatch_RoleCheckBeforeWrites(t *testing.T) {
	repo := &fakeShiftRepo{shifts: map[int64]*domain.Shift{1: openShift(1)}}
	svc := newTestService(repo, &fakeBookingRepo{}, &fakeTx{})

	_, err := svc.SaveStaffingBatch(context.Background(), &models.SaveStaffingBatchRequest{
		UserID: 2, // host
		Changes: []models.StaffingChange{
			{ShiftID: 1, Role: "host"},
			{ShiftID: 1, Role: "mechanic"},
		},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.ops)
}

func TestListByRange_InvalidRange(t *testing.T) {
	svc := newTestService(&fakeShiftRepo{}, &fakeBookingRepo{}, &fakeTx{})

	_, err := svc.ListByRange(context.Background(), &models.ListShiftsRequest{
		UserID: 1,
		From:   time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
