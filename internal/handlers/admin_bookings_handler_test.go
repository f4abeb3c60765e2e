package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eduforge/eduforge-api/internal/database/postgres"
	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func adminRouter(svc services.AdminBookingsServiceInterface) *gin.Engine {
	router := gin.New()
	handler := NewAdminBookingsHandler(svc)
	router.GET("/api/v1/admin/bookings", handler.List)
	router.GET("/api/v1/admin/bookings/:id", handler.Get)
	router.POST("/api/v1/admin/bookings/:id/status", handler.UpdateStatus)
	return router
}

func adminBooking(status models.BookingStatus) *models.Booking {
	return &models.Booking{ID: "abc-123", Name: "Priya", Status: status}
}

func TestAdminList_StatusFilter(t *testing.T) {
	svc := new(MockAdminBookingsService)
	svc.On("List", mock.Anything, models.BookingStatusPending, 50, 0).
		Return([]*models.Booking{adminBooking(models.BookingStatusPending)}, nil)

	w := httptest.NewRecorder()
	adminRouter(svc).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/admin/bookings?status=pending", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Bookings []*models.Booking `json:"bookings"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "abc-123", resp.Bookings[0].ID)
}

func TestAdminList_RejectsUnknownStatus(t *testing.T) {
	svc := new(MockAdminBookingsService)

	w := httptest.NewRecorder()
	adminRouter(svc).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/admin/bookings?status=archived", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminGet_NotFound(t *testing.T) {
	svc := new(MockAdminBookingsService)
	svc.On("GetByID", mock.Anything, "missing").Return(nil, postgres.ErrBookingNotFound)

	w := httptest.NewRecorder()
	adminRouter(svc).ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/admin/bookings/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUpdateStatus_OK(t *testing.T) {
	svc := new(MockAdminBookingsService)
	svc.On("UpdateStatus", mock.Anything, "abc-123", models.BookingStatusConfirmed).
		Return(adminBooking(models.BookingStatusConfirmed), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/admin/bookings/abc-123/status",
		strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	adminRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}

func TestAdminUpdateStatus_IllegalTransitionConflicts(t *testing.T) {
	svc := new(MockAdminBookingsService)
	svc.On("UpdateStatus", mock.Anything, "abc-123", models.BookingStatusCompleted).
		Return(nil, &services.InvalidTransitionError{From: "pending", To: "completed"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/admin/bookings/abc-123/status",
		strings.NewReader(`{"status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")
	adminRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := new(MockAdminBookingsService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/admin/bookings/abc-123/status",
		strings.NewReader(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	adminRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
