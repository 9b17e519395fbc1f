package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/service/bookings"
	"github.com/velokitchen/VK-BookingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	err     error
	lastID  int64
	lastReq *models.CancelBookingRequest
}

func (f *fakeService) Cancel(_ context.Context, id int64, req *models.CancelBookingRequest) error {
	f.lastID = id
	f.lastReq = req
	return f.err
}

func newRouter(svc *fakeService) *mux.Router {
	h := NewHandler(svc, nopLogger{})
	r := mux.NewRouter()
	r.Use(middleware.Identity)
	r.HandleFunc("/api/v1/bookings/{bookingId}/cancel", h.Handle).Methods(http.MethodPatch)
	r.HandleFunc("/api/v1/guest/bookings/{bookingId}/cancel", h.HandleGuest).Methods(http.MethodPost)
	return r
}

func TestHandle_EmptyBodyIsFine(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/10/cancel", nil)
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), svc.lastID)
	require.NotNil(t, svc.lastReq.Actor.UserID)
	assert.Equal(t, int64(7), *svc.lastReq.Actor.UserID)
	assert.Nil(t, svc.lastReq.CancellationReason)
}

func TestHandle_PassesReason(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	body := strings.NewReader(`{"cancellationReason": "планы поменялись"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/10/cancel", body)
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastReq.CancellationReason)
	assert.Equal(t, "планы поменялись", *svc.lastReq.CancellationReason)
}

func TestHandle_RequiresAuthentication(t *testing.T) {
	router := newRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/10/cancel", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleGuest(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	body := strings.NewReader(`{"email": "guest@example.org"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/guest/bookings/10/cancel", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastReq.Actor.UserID)
	assert.Equal(t, "guest@example.org", svc.lastReq.Actor.Email)
}

func TestHandleGuest_RequiresEmail(t *testing.T) {
	router := newRouter(&fakeService{})

	body := strings.NewReader(`{}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/guest/bookings/10/cancel", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"access denied", bookings.ErrAccessDenied, http.StatusForbidden},
		{"already cancelled", bookings.ErrAlreadyCancelled, http.StatusBadRequest},
		{"cannot cancel", bookings.ErrCannotCancel, http.StatusBadRequest},
		{"invalid input", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&fakeService{err: tt.err})

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/10/cancel", nil)
			req.Header.Set(middleware.HeaderUserID, "7")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
