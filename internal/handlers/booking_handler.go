package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/internal/services"
	"github.com/gin-gonic/gin"
)

// BookingHandler serves the public demo booking endpoints
type BookingHandler struct {
	service services.BookingServiceInterface
}

func NewBookingHandler(service services.BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// CreateBooking handles POST /api/demo/create-booking
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		var validationErr *services.ValidationFailedError
		if errors.As(err, &validationErr) {
			respondErrorWithDetails(c, http.StatusBadRequest,
				"Validation failed: "+strings.Join(validationErr.Errors, ", "),
				validationErr.Errors, err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to create booking", err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// AvailableSlots handles GET /api/demo/available-slots
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		respondError(c, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		var validationErr *services.ValidationFailedError
		if errors.As(err, &validationErr) {
			respondError(c, http.StatusBadRequest, strings.Join(validationErr.Errors, ", "), err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load available slots", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":           date,
		"availableSlots": slots,
	})
}
