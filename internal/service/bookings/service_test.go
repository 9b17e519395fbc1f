package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/infra/notify"
	bookingRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/booking"
	profileClient "github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
	"github.com/velokitchen/VK-BookingService/internal/service/bookings/models"
	"github.com/velokitchen/VK-BookingService/pkg/ptr"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	booking    *domain.Booking
	getErr     error
	list       []*domain.Booking
	cancelled  bool
	cancelArgs struct {
		id     int64
		reason *string
	}
	updated       bool
	updatedStatus domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(context.Context, int64) (*domain.Booking, error) {
	return f.booking, f.getErr
}

func (f *fakeBookingRepo) GetByUserID(context.Context, int64, *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.list, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	f.updated = true
	f.updatedStatus = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason *string) error {
	f.cancelled = true
	f.cancelArgs.id = id
	f.cancelArgs.reason = reason
	return nil
}

type fakeShiftRepo struct {
	shift *domain.Shift
	err   error
}

func (f *fakeShiftRepo) GetByID(context.Context, int64) (*domain.Shift, error) {
	return f.shift, f.err
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

type fakePublisher struct {
	cancelledBy    string
	cancelReason   string
	cancelCalls    int
	statusChanged  int
	lastStatusSent domain.BookingStatus
}

func (f *fakePublisher) BookingCancelled(_ context.Context, b *domain.Booking, _ time.Time, cancelledBy, reason string) error {
	f.cancelCalls++
	f.cancelledBy = cancelledBy
	f.cancelReason = reason
	return nil
}

func (f *fakePublisher) BookingStatusChanged(_ context.Context, b *domain.Booking, _ time.Time) error {
	f.statusChanged++
	f.lastStatusSent = b.Status
	return nil
}

func ownedBooking() *domain.Booking {
	return &domain.Booking{
		ID:       10,
		ShiftID:  1,
		UserID:   ptr.Ptr(int64(7)),
		Email:    "maria@example.org",
		SlotTime: types.TimeString("15:00"),
		Status:   domain.StatusConfirmed,
	}
}

func guestBooking() *domain.Booking {
	b := ownedBooking()
	b.UserID = nil
	b.Email = "guest@example.org"
	return b
}

func staffProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[int64]*profileClient.Profile{
		7:  {ID: 7, Email: "maria@example.org"},
		99: {ID: 99, Roles: profileClient.Roles{Mechanic: true}},
		50: {ID: 50}, // registered, no staff roles
	}}
}

func newTestService(repo *fakeBookingRepo, pub *fakePublisher) *Service {
	shifts := &fakeShiftRepo{shift: &domain.Shift{
		ID:   1,
		Date: time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
	}}
	return NewService(repo, shifts, staffProfiles(), pub, nopLogger{})
}

func TestCancel_ByOwner(t *testing.T) {
	repo := &fakeBookingRepo{booking: ownedBooking()}
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	reason := "сломалась нога, не сломался велосипед"
	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor:              models.Actor{UserID: ptr.Ptr(int64(7))},
		CancellationReason: &reason,
	})
	require.NoError(t, err)

	assert.True(t, repo.cancelled)
	require.NotNil(t, repo.cancelArgs.reason)
	assert.Equal(t, reason, *repo.cancelArgs.reason)
	assert.Equal(t, notify.CancelledByUser, pub.cancelledBy)
	assert.Equal(t, reason, pub.cancelReason)
}

func TestCancel_ByGuestEmailCaseInsensitive(t *testing.T) {
	repo := &fakeBookingRepo{booking: guestBooking()}
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor: models.Actor{Email: "  GUEST@example.ORG "},
	})
	require.NoError(t, err)
	assert.True(t, repo.cancelled)
	assert.Equal(t, notify.CancelledByUser, pub.cancelledBy)
}

func TestCancel_ByStaff(t *testing.T) {
	repo := &fakeBookingRepo{booking: ownedBooking()}
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor: models.Actor{UserID: ptr.Ptr(int64(99))},
	})
	require.NoError(t, err)
	assert.Equal(t, notify.CancelledByAdmin, pub.cancelledBy)
}

func TestCancel_AccessDenied(t *testing.T) {
	tests := []struct {
		name  string
		actor models.Actor
	}{
		{"stranger with profile", models.Actor{UserID: ptr.Ptr(int64(50))}},
		{"unknown profile", models.Actor{UserID: ptr.Ptr(int64(1000))}},
		{"wrong guest email", models.Actor{Email: "other@example.org"}},
		{"no identity at all", models.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBookingRepo{booking: ownedBooking()}
			svc := newTestService(repo, &fakePublisher{})

			err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{Actor: tt.actor})
			assert.ErrorIs(t, err, ErrAccessDenied)
			assert.False(t, repo.cancelled)
		})
	}
}

func TestCancel_EmailMatchRequiresGuestBooking(t *testing.T) {
	// a matching email is not enough to cancel a registered user's booking
	repo := &fakeBookingRepo{booking: ownedBooking()}
	svc := newTestService(repo, &fakePublisher{})

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor: models.Actor{Email: "maria@example.org"},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	b := ownedBooking()
	b.Status = domain.StatusCancelled
	svc := newTestService(&fakeBookingRepo{booking: b}, &fakePublisher{})

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor: models.Actor{UserID: ptr.Ptr(int64(7))},
	})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_CompletedCannotBeCancelled(t *testing.T) {
	b := ownedBooking()
	b.Status = domain.StatusCompleted
	svc := newTestService(&fakeBookingRepo{booking: b}, &fakePublisher{})

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor: models.Actor{UserID: ptr.Ptr(int64(7))},
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}, &fakePublisher{})

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor: models.Actor{UserID: ptr.Ptr(int64(7))},
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: ownedBooking()}, &fakePublisher{})

	long := make([]byte, domain.MaxCancelReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}
	reason := string(long)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		Actor:              models.Actor{UserID: ptr.Ptr(int64(7))},
		CancellationReason: &reason,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_StaffOnly(t *testing.T) {
	repo := &fakeBookingRepo{booking: ownedBooking()}
	svc := newTestService(repo, &fakePublisher{})

	// the owner is not staff and may not complete their own booking
	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		UserID: 7,
		Status: "completed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.False(t, repo.updated)
}

func TestUpdateStatus_Completed(t *testing.T) {
	repo := &fakeBookingRepo{booking: ownedBooking()}
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "completed",
	})
	require.NoError(t, err)

	assert.True(t, repo.updated)
	assert.Equal(t, domain.StatusCompleted, repo.updatedStatus)
	assert.Equal(t, 1, pub.statusChanged)
	assert.Equal(t, domain.StatusCompleted, pub.lastStatusSent)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	b := ownedBooking()
	b.Status = domain.StatusCompleted
	repo := &fakeBookingRepo{booking: b}
	svc := newTestService(repo, &fakePublisher{})

	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "no_show",
	})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.False(t, repo.updated)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: ownedBooking()}, &fakePublisher{})

	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "paused",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_CancelledGoesThroughCancelPath(t *testing.T) {
	repo := &fakeBookingRepo{booking: ownedBooking()}
	pub := &fakePublisher{}
	svc := newTestService(repo, pub)

	err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		UserID: 99,
		Status: "cancelled",
	})
	require.NoError(t, err)

	// the slot is freed via Cancel, not a plain status write
	assert.True(t, repo.cancelled)
	assert.False(t, repo.updated)
	assert.Equal(t, 1, pub.cancelCalls)
	assert.Equal(t, notify.CancelledByAdmin, pub.cancelledBy)
}

func TestGetByID_Access(t *testing.T) {
	tests := []struct {
		name    string
		booking *domain.Booking
		actor   models.Actor
		wantErr error
	}{
		{"owner", ownedBooking(), models.Actor{UserID: ptr.Ptr(int64(7))}, nil},
		{"guest by email", guestBooking(), models.Actor{Email: "Guest@Example.org"}, nil},
		{"staff", ownedBooking(), models.Actor{UserID: ptr.Ptr(int64(99))}, nil},
		{"stranger", ownedBooking(), models.Actor{UserID: ptr.Ptr(int64(50))}, ErrAccessDenied},
		{"anonymous", ownedBooking(), models.Actor{}, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeBookingRepo{booking: tt.booking}, &fakePublisher{})

			resp, err := svc.GetByID(context.Background(), 10, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(10), resp.ID)
			require.NotNil(t, resp.ShiftDate)
			assert.Equal(t, "2026-04-18", *resp.ShiftDate)
		})
	}
}

func TestGetUserBookings_FiltersByStatus(t *testing.T) {
	repo := &fakeBookingRepo{list: []*domain.Booking{ownedBooking()}}
	svc := newTestService(repo, &fakePublisher{})

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 7,
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: 7,
		Status: ptr.Ptr("paused"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
