package repository

import (
	"context"

	"github.com/eduforge/eduforge-api/internal/database/postgres"
	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository handles demo booking data access
type BookingRepository struct {
	client *postgres.Client
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{
		client: postgres.NewClient(pool),
	}
}

// Create persists a new booking and returns the server-assigned id
func (r *BookingRepository) Create(ctx context.Context, req *models.BookingRequest) (string, error) {
	return r.client.CreateBooking(ctx, req)
}

// GetByID retrieves a single booking
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.client.GetBookingByID(ctx, id)
}

// List retrieves bookings, optionally filtered by status
func (r *BookingRepository) List(ctx context.Context, status models.BookingStatus, limit, offset int) ([]*models.Booking, error) {
	return r.client.ListBookings(ctx, status, limit, offset)
}

// UpdateStatus applies a lifecycle transition
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	return r.client.UpdateBookingStatus(ctx, id, status)
}

// UpdateMeetLink stores the issued meeting link
func (r *BookingRepository) UpdateMeetLink(ctx context.Context, id, meetLink string) error {
	return r.client.UpdateMeetLink(ctx, id, meetLink)
}

// BookedSlots returns taken times for a date
func (r *BookingRepository) BookedSlots(ctx context.Context, date string) ([]string, error) {
	return r.client.BookedSlots(ctx, date)
}
