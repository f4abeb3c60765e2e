package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func bookingRouter(svc services.BookingServiceInterface) *gin.Engine {
	router := gin.New()
	handler := NewBookingHandler(svc)
	router.POST("/api/demo/create-booking", handler.CreateBooking)
	router.GET("/api/demo/available-slots", handler.AvailableSlots)
	return router
}

func TestCreateBooking_Created(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CreateBooking", mock.Anything, mock.Anything).Return(&models.CreateBookingResponse{
		BookingID:      "abc-123",
		GoogleMeetLink: "https://meet.google.com/demo-abc-123-20260915",
	}, nil)

	body := `{"name":"Priya","email":"priya@example.com","phone":"12345",
		"trainingInterest":"UI/UX Design","preferredDate":"2026-09-15","preferredTime":"10:00"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/demo/create-booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	bookingRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreateBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc-123", resp.BookingID)
	assert.Equal(t, "https://meet.google.com/demo-abc-123-20260915", resp.GoogleMeetLink)
}

func TestCreateBooking_ValidationFailure(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil,
		&services.ValidationFailedError{Errors: []string{"Name is required", "Email is required"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/demo/create-booking", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	bookingRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "Name is required")
	assert.Equal(t, []string{"Name is required", "Email is required"}, resp.Details)
}

func TestCreateBooking_MalformedJSON(t *testing.T) {
	svc := new(MockBookingService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/demo/create-booking", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	bookingRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestCreateBooking_InternalError(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/demo/create-booking", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	bookingRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAvailableSlots_OK(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("AvailableSlots", mock.Anything, "2026-09-15").Return([]string{"09:00", "10:00"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/demo/available-slots?date=2026-09-15", nil)
	bookingRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Date           string   `json:"date"`
		AvailableSlots []string `json:"availableSlots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-09-15", resp.Date)
	assert.Equal(t, []string{"09:00", "10:00"}, resp.AvailableSlots)
}

func TestAvailableSlots_RequiresDate(t *testing.T) {
	svc := new(MockBookingService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/demo/available-slots", nil)
	bookingRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "AvailableSlots", mock.Anything, mock.Anything)
}
