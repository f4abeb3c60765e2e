package services

import (
	"context"
	"fmt"
	"time"

	"github.com/eduforge/eduforge-api/config"
	"github.com/eduforge/eduforge-api/internal/cache"
	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/internal/repository"
	"github.com/eduforge/eduforge-api/pkg/calendar"
	"github.com/eduforge/eduforge-api/pkg/circuitbreaker"
	"github.com/eduforge/eduforge-api/pkg/httpclient"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/eduforge/eduforge-api/pkg/retry"
	"github.com/eduforge/eduforge-api/pkg/trigger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BookingService handles demo booking creation and slot availability
type BookingService struct {
	bookingRepo     repository.BookingRepositoryInterface
	calendarClient  CalendarClient
	slotsCache      *cache.SlotsCache
	config          *config.Config
	httpClient      httpclient.Client
	calendarBreaker *gobreaker.CircuitBreaker
}

// NewBookingService creates a new booking service. calendarClient may be nil
// when the Google integration is not configured; the deterministic fallback
// link is used instead.
func NewBookingService(
	bookingRepo repository.BookingRepositoryInterface,
	calendarClient CalendarClient,
	slotsCache *cache.SlotsCache,
	cfg *config.Config,
	httpClient httpclient.Client,
) *BookingService {
	return &BookingService{
		bookingRepo:     bookingRepo,
		calendarClient:  calendarClient,
		slotsCache:      slotsCache,
		config:          cfg,
		httpClient:      httpClient,
		calendarBreaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("google-calendar")),
	}
}

// CreateBooking validates, persists, and schedules a demo booking.
// The calendar event is best-effort: the booking survives a calendar outage
// and gets the deterministic fallback link instead.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.CreateBookingResponse, error) {
	// Re-validate server-side; the client's wizard gating is not trusted.
	if result := req.Validate(); !result.IsValid {
		metrics.DemoBookingsCreated.WithLabelValues("validation_failed").Inc()
		return nil, &ValidationFailedError{Errors: result.Errors}
	}
	if errs := s.validateEnums(req); len(errs) > 0 {
		metrics.DemoBookingsCreated.WithLabelValues("validation_failed").Inc()
		return nil, &ValidationFailedError{Errors: errs}
	}

	if req.Timezone == "" {
		req.Timezone = s.config.Booking.DefaultTimezone
	}

	bookingID, err := s.bookingRepo.Create(ctx, req)
	if err != nil {
		metrics.DemoBookingsCreated.WithLabelValues("error").Inc()
		logger.Error("Failed to create booking", zap.Error(err))
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	meetLink := s.scheduleMeeting(ctx, bookingID, req)

	// Persist the link so the admin view and the confirmation email agree.
	if err := s.bookingRepo.UpdateMeetLink(ctx, bookingID, meetLink); err != nil {
		logger.Warn("Failed to store meet link",
			zap.Error(err), zap.String("booking_id", bookingID))
	}

	if s.slotsCache != nil {
		s.slotsCache.Invalidate(req.PreferredDate)
	}

	// Notify downstream automations (non-blocking)
	trigger.CallAsync(s.config.EventTriggers.BookingCreatedTriggerURL, bookingID, s.httpClient)

	metrics.DemoBookingsCreated.WithLabelValues("success").Inc()
	metrics.DemoBookingsByCourse.WithLabelValues(req.TrainingInterest).Inc()
	logger.Info("Demo booking created",
		zap.String("booking_id", bookingID),
		zap.String("course", req.TrainingInterest),
		zap.String("date", req.PreferredDate),
		zap.String("time", req.PreferredTime))

	return &models.CreateBookingResponse{
		BookingID:      bookingID,
		GoogleMeetLink: meetLink,
	}, nil
}

// validateEnums checks the fields whose values must come from fixed lists
func (s *BookingService) validateEnums(req *models.BookingRequest) []string {
	var errs []string

	if _, err := time.Parse("2006-01-02", req.PreferredDate); err != nil {
		errs = append(errs, "Preferred date must be in YYYY-MM-DD format")
	}
	if !models.IsValidTimeSlot(req.PreferredTime) {
		errs = append(errs, "Preferred time is not an available slot")
	}
	if !models.IsValidTrainingInterest(req.TrainingInterest) {
		errs = append(errs, "Training interest is not a known course")
	}
	if !models.IsValidExperience(req.Experience) {
		errs = append(errs, "Experience must be beginner, intermediate or advanced")
	}

	return errs
}

// scheduleMeeting creates the calendar event when the integration is
// configured, always returning a usable link
func (s *BookingService) scheduleMeeting(ctx context.Context, bookingID string, req *models.BookingRequest) string {
	fallback := calendar.FallbackMeetLink(bookingID, req.PreferredDate)

	if s.calendarClient == nil {
		return fallback
	}

	link, err := circuitbreaker.ExecuteWithFallback(s.calendarBreaker,
		func() (string, error) {
			return retry.DoWithResult(ctx, retry.CalendarConfig(), "createCalendarEvent", func() (string, error) {
				return s.calendarClient.CreateEvent(ctx, calendar.EventRequest{
					Summary:     fmt.Sprintf("EduForge Demo: %s", req.TrainingInterest),
					Description: fmt.Sprintf("Demo session for %s (%s)", req.Name, req.Email),
					Date:        req.PreferredDate,
					StartTime:   req.PreferredTime,
					Timezone:    req.Timezone,
					Attendee:    req.Email,
				})
			})
		},
		func() (string, error) {
			return "", nil
		},
	)
	if err != nil || link == "" {
		if err != nil {
			metrics.CalendarEvents.WithLabelValues("error").Inc()
			logger.Warn("Calendar event creation failed, using fallback link",
				zap.Error(err), zap.String("booking_id", bookingID))
		}
		return fallback
	}

	metrics.CalendarEvents.WithLabelValues("success").Inc()
	return link
}

// AvailableSlots returns the open demo slots for a date. The date must be a
// weekday within the booking window.
func (s *BookingService) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, &ValidationFailedError{Errors: []string{"Date must be in YYYY-MM-DD format"}}
	}

	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return []string{}, nil
	}

	today := time.Now().Truncate(24 * time.Hour)
	if day.Before(today) || day.After(today.AddDate(0, 0, s.config.Booking.MaxAdvanceDays)) {
		return []string{}, nil
	}

	if s.slotsCache != nil {
		return s.slotsCache.AvailableSlots(ctx, date)
	}

	booked, err := s.bookingRepo.BookedSlots(ctx, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}
	available := make([]string, 0, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}
