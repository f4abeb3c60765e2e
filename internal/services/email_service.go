package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/eduforge/eduforge-api/config"
	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/calendar"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/mailer"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/eduforge/eduforge-api/pkg/retry"
	"go.uber.org/zap"
)

// EmailService sends booking confirmation emails. Callers treat failures as
// non-fatal: the booking already exists by the time this runs.
type EmailService struct {
	sender mailer.Sender
	config *config.Config
}

// NewEmailService creates a new email service. sender may be nil when SMTP
// credentials are not configured.
func NewEmailService(sender mailer.Sender, cfg *config.Config) *EmailService {
	return &EmailService{
		sender: sender,
		config: cfg,
	}
}

// SendConfirmation sends the demo booking confirmation to the attendee
func (s *EmailService) SendConfirmation(ctx context.Context, req *models.SendDemoEmailRequest) error {
	if s.sender == nil {
		metrics.ConfirmationEmails.WithLabelValues("skipped").Inc()
		return ErrEmailNotConfigured
	}

	data := req.BookingData
	if result := data.Validate(); !result.IsValid {
		metrics.ConfirmationEmails.WithLabelValues("validation_failed").Inc()
		return &ValidationFailedError{Errors: result.Errors}
	}
	if req.BookingID == "" {
		metrics.ConfirmationEmails.WithLabelValues("validation_failed").Inc()
		return &ValidationFailedError{Errors: []string{"Booking id is required"}}
	}

	msg := mailer.Message{
		To:      data.Email,
		Subject: fmt.Sprintf("Your EduForge demo session on %s is booked", data.PreferredDate),
		Body:    buildConfirmationBody(&data, req.BookingID),
	}

	err := retry.Do(ctx, retry.SMTPConfig(), "sendConfirmationEmail", func() error {
		return s.sender.Send(ctx, msg)
	})
	if err != nil {
		metrics.ConfirmationEmails.WithLabelValues("error").Inc()
		logger.Error("Failed to send confirmation email",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
			zap.String("email", data.Email))
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	metrics.ConfirmationEmails.WithLabelValues("success").Inc()
	logger.Info("Confirmation email sent",
		zap.String("booking_id", req.BookingID),
		zap.String("email", data.Email))

	return nil
}

func buildConfirmationBody(data *models.BookingRequest, bookingID string) string {
	timezone := data.Timezone
	if timezone == "" {
		timezone = models.DefaultTimezone
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", data.Name)
	fmt.Fprintf(&b, "Your free demo session with EduForge is confirmed.\n\n")
	fmt.Fprintf(&b, "Course:   %s\n", data.TrainingInterest)
	fmt.Fprintf(&b, "Date:     %s\n", data.PreferredDate)
	fmt.Fprintf(&b, "Time:     %s (%s)\n", data.PreferredTime, timezone)
	fmt.Fprintf(&b, "Meet:     %s\n", calendar.FallbackMeetLink(bookingID, data.PreferredDate))
	fmt.Fprintf(&b, "Booking:  %s\n\n", bookingID)
	fmt.Fprintf(&b, "Need to reschedule? Just reply to this email.\n\n")
	fmt.Fprintf(&b, "— The EduForge team\n")
	return b.String()
}
