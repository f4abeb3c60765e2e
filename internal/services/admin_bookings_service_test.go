package services

import (
	"context"
	"testing"

	"github.com/eduforge/eduforge-api/internal/database/postgres"
	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedBooking(status models.BookingStatus) *models.Booking {
	return &models.Booking{
		ID:               "abc-123",
		Name:             "Priya Sharma",
		Email:            "priya@example.com",
		Status:           status,
		TrainingInterest: "UI/UX Design",
	}
}

func TestUpdateStatus_LegalTransition(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, "abc-123").Return(storedBooking(models.BookingStatusPending), nil)
	repo.On("UpdateStatus", mock.Anything, "abc-123", models.BookingStatusConfirmed).Return(nil)

	svc := NewAdminBookingsService(repo, testConfig(), nil)

	booking, err := svc.UpdateStatus(context.Background(), "abc-123", models.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, "abc-123").Return(storedBooking(models.BookingStatusPending), nil)

	svc := NewAdminBookingsService(repo, testConfig(), nil)

	// pending cannot jump straight to completed
	_, err := svc.UpdateStatus(context.Background(), "abc-123", models.BookingStatusCompleted)
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "pending", transitionErr.From)
	assert.Equal(t, "completed", transitionErr.To)

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []models.BookingStatus{models.BookingStatusCancelled, models.BookingStatusCompleted} {
		repo := new(MockBookingRepository)
		repo.On("GetByID", mock.Anything, "abc-123").Return(storedBooking(terminal), nil)

		svc := NewAdminBookingsService(repo, testConfig(), nil)

		_, err := svc.UpdateStatus(context.Background(), "abc-123", models.BookingStatusConfirmed)
		var transitionErr *InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr, "status %s should be terminal", terminal)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, postgres.ErrBookingNotFound)

	svc := NewAdminBookingsService(repo, testConfig(), nil)

	_, err := svc.UpdateStatus(context.Background(), "missing", models.BookingStatusConfirmed)
	assert.ErrorIs(t, err, postgres.ErrBookingNotFound)
}

func TestList_PassesFilterThrough(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("List", mock.Anything, models.BookingStatusPending, 10, 0).
		Return([]*models.Booking{storedBooking(models.BookingStatusPending)}, nil)

	svc := NewAdminBookingsService(repo, testConfig(), nil)

	bookings, err := svc.List(context.Background(), models.BookingStatusPending, 10, 0)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	repo.AssertExpectations(t)
}
