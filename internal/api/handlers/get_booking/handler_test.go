package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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
	resp      *models.BookingResponse
	err       error
	lastID    int64
	lastActor models.Actor
}

func (f *fakeService) GetByID(_ context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	f.lastID = id
	f.lastActor = actor
	return f.resp, f.err
}

func newRouter(svc *fakeService) *mux.Router {
	h := NewHandler(svc, nopLogger{})
	r := mux.NewRouter()
	r.Use(middleware.Identity)
	r.HandleFunc("/api/v1/bookings/{bookingId}", h.Handle).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/guest/bookings/{bookingId}", h.HandleGuest).Methods(http.MethodGet)
	return r
}

func TestHandle_PassesIdentityFromHeaders(t *testing.T) {
	svc := &fakeService{resp: &models.BookingResponse{ID: 10, Status: "confirmed"}}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/10", nil)
	req.Header.Set(middleware.HeaderUserID, "7")
	req.Header.Set(middleware.HeaderUserEmail, "maria@example.org")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), svc.lastID)
	require.NotNil(t, svc.lastActor.UserID)
	assert.Equal(t, int64(7), *svc.lastActor.UserID)
	assert.Equal(t, "maria@example.org", svc.lastActor.Email)

	var got models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, "confirmed", got.Status)
}

func TestHandleGuest_RequiresEmail(t *testing.T) {
	router := newRouter(&fakeService{resp: &models.BookingResponse{ID: 10}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/guest/bookings/10", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/guest/bookings/10?email=guest%40example.org", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"access denied", bookings.ErrAccessDenied, http.StatusForbidden},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&fakeService{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/10", nil)
			req.Header.Set(middleware.HeaderUserID, "7")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandle_InvalidBookingID(t *testing.T) {
	router := newRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
