package handlers

import (
	"context"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "test"}) //nolint:errcheck
}

// MockBookingService mocks services.BookingServiceInterface
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.CreateBookingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateBookingResponse), args.Error(1)
}

func (m *MockBookingService) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockEmailService mocks services.EmailServiceInterface
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendConfirmation(ctx context.Context, req *models.SendDemoEmailRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockAdminBookingsService mocks services.AdminBookingsServiceInterface
type MockAdminBookingsService struct {
	mock.Mock
}

func (m *MockAdminBookingsService) List(ctx context.Context, status models.BookingStatus, limit, offset int) ([]*models.Booking, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockAdminBookingsService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockAdminBookingsService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
