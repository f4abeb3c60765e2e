package repository

import (
	"context"

	"github.com/eduforge/eduforge-api/internal/models"
)

// BookingRepositoryInterface defines booking data access operations
type BookingRepositoryInterface interface {
	Create(ctx context.Context, req *models.BookingRequest) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, status models.BookingStatus, limit, offset int) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
	UpdateMeetLink(ctx context.Context, id, meetLink string) error
	BookedSlots(ctx context.Context, date string) ([]string, error)
}
