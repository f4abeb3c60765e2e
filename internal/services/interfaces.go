package services

import (
	"context"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/calendar"
)

// BookingServiceInterface defines the booking creation use case
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.CreateBookingResponse, error)
	AvailableSlots(ctx context.Context, date string) ([]string, error)
}

// EmailServiceInterface defines the confirmation email use case
type EmailServiceInterface interface {
	SendConfirmation(ctx context.Context, req *models.SendDemoEmailRequest) error
}

// AdminBookingsServiceInterface defines the admin booking management surface
type AdminBookingsServiceInterface interface {
	List(ctx context.Context, status models.BookingStatus, limit, offset int) ([]*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}

// CalendarClient abstracts the Google Calendar integration so the booking
// service can be tested without Google credentials
type CalendarClient interface {
	CreateEvent(ctx context.Context, req calendar.EventRequest) (string, error)
}
