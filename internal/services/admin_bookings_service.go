package services

import (
	"context"

	"github.com/eduforge/eduforge-api/config"
	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/internal/repository"
	"github.com/eduforge/eduforge-api/pkg/httpclient"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/eduforge/eduforge-api/pkg/trigger"
	"go.uber.org/zap"
)

// AdminBookingsService handles the admin booking management surface
type AdminBookingsService struct {
	bookingRepo repository.BookingRepositoryInterface
	config      *config.Config
	httpClient  httpclient.Client
}

// NewAdminBookingsService creates a new admin bookings service
func NewAdminBookingsService(
	bookingRepo repository.BookingRepositoryInterface,
	cfg *config.Config,
	httpClient httpclient.Client,
) *AdminBookingsService {
	return &AdminBookingsService{
		bookingRepo: bookingRepo,
		config:      cfg,
		httpClient:  httpClient,
	}
}

// List returns bookings, newest first, optionally filtered by status
func (s *AdminBookingsService) List(ctx context.Context, status models.BookingStatus, limit, offset int) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx, status, limit, offset)
}

// GetByID returns a single booking
func (s *AdminBookingsService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// UpdateStatus applies a lifecycle transition after checking it is legal
func (s *AdminBookingsService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransition(status) {
		return nil, &InvalidTransitionError{From: string(booking.Status), To: string(status)}
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	metrics.BookingStatusTransitions.WithLabelValues(string(booking.Status), string(status)).Inc()
	logger.Info("Booking status updated",
		zap.String("booking_id", id),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(status)))

	if status == models.BookingStatusConfirmed {
		trigger.CallAsync(s.config.EventTriggers.BookingConfirmedTriggerURL, id, s.httpClient)
	}

	booking.Status = status
	return booking, nil
}
