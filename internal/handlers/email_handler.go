package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/internal/services"
	"github.com/gin-gonic/gin"
)

// EmailHandler serves the confirmation email endpoint
type EmailHandler struct {
	service services.EmailServiceInterface
}

func NewEmailHandler(service services.EmailServiceInterface) *EmailHandler {
	return &EmailHandler{service: service}
}

// SendDemoEmail handles POST /api/send-demo-email. The caller treats this as
// best-effort, so failures report a body the client can log and move past.
func (h *EmailHandler) SendDemoEmail(c *gin.Context) {
	var req models.SendDemoEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, models.SendDemoEmailResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	err := h.service.SendConfirmation(c.Request.Context(), &req)
	if err != nil {
		attachError(c, err)

		var validationErr *services.ValidationFailedError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, models.SendDemoEmailResponse{
				Success: false,
				Error:   strings.Join(validationErr.Errors, ", "),
			})
		case errors.Is(err, services.ErrEmailNotConfigured):
			c.JSON(http.StatusServiceUnavailable, models.SendDemoEmailResponse{
				Success: false,
				Error:   "Email delivery is not configured",
			})
		default:
			c.JSON(http.StatusInternalServerError, models.SendDemoEmailResponse{
				Success: false,
				Error:   "Failed to send confirmation email",
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.SendDemoEmailResponse{Success: true})
}
