package services

import (
	"context"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/calendar"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/mailer"
	"github.com/stretchr/testify/mock"
)

func init() {
	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "test"}) //nolint:errcheck
}

// MockBookingRepository mocks repository.BookingRepositoryInterface
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, req *models.BookingRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, status models.BookingStatus, limit, offset int) ([]*models.Booking, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateMeetLink(ctx context.Context, id, meetLink string) error {
	args := m.Called(ctx, id, meetLink)
	return args.Error(0)
}

func (m *MockBookingRepository) BookedSlots(ctx context.Context, date string) ([]string, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCalendarClient mocks the Google Calendar integration
type MockCalendarClient struct {
	mock.Mock
}

func (m *MockCalendarClient) CreateEvent(ctx context.Context, req calendar.EventRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockMailSender mocks mailer.Sender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
