package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/eduforge/eduforge-api/internal/database/postgres"
	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminBookingsHandler serves the session-protected booking management routes
type AdminBookingsHandler struct {
	service services.AdminBookingsServiceInterface
}

func NewAdminBookingsHandler(service services.AdminBookingsServiceInterface) *AdminBookingsHandler {
	return &AdminBookingsHandler{service: service}
}

// List handles GET /api/v1/admin/bookings
func (h *AdminBookingsHandler) List(c *gin.Context) {
	var status models.BookingStatus
	if raw := c.Query("status"); raw != "" {
		status = models.BookingStatus(raw)
		if !status.IsValid() {
			respondError(c, http.StatusBadRequest, "Unknown booking status", nil)
			return
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))  //nolint:errcheck
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0")) //nolint:errcheck

	bookings, err := h.service.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list bookings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// Get handles GET /api/v1/admin/bookings/:id
func (h *AdminBookingsHandler) Get(c *gin.Context) {
	booking, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, postgres.ErrBookingNotFound) {
			respondError(c, http.StatusNotFound, "Booking not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load booking", err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateStatus handles POST /api/v1/admin/bookings/:id/status
func (h *AdminBookingsHandler) UpdateStatus(c *gin.Context) {
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body",
			ParseValidationErrors(err), err)
		return
	}
	if !req.Status.IsValid() {
		respondError(c, http.StatusBadRequest, "Unknown booking status", nil)
		return
	}

	booking, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		var transitionErr *services.InvalidTransitionError
		switch {
		case errors.Is(err, postgres.ErrBookingNotFound):
			respondError(c, http.StatusNotFound, "Booking not found", err)
		case errors.As(err, &transitionErr):
			respondError(c, http.StatusConflict, transitionErr.Error(), err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to update booking", err)
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}
