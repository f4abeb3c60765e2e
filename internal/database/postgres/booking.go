package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrBookingNotFound is returned when a booking id does not exist
var ErrBookingNotFound = errors.New("booking not found")

// bookingRow holds the nullable column scan targets for a demo booking
type bookingRow struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Phone            string
	Company          *string
	Role             *string
	Experience       *string
	Goals            *string
	TrainingInterest string
	PreferredDate    string
	PreferredTime    string
	Timezone         string
	Status           string
	MeetLink         *string
	Source           *string
	UTMSource        *string
	UTMMedium        *string
	UTMCampaign      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r *bookingRow) toModel() *models.Booking {
	return &models.Booking{
		ID:               r.ID.String(),
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Company:          emptyIfNil(r.Company),
		Role:             emptyIfNil(r.Role),
		Experience:       emptyIfNil(r.Experience),
		Goals:            emptyIfNil(r.Goals),
		TrainingInterest: r.TrainingInterest,
		PreferredDate:    r.PreferredDate,
		PreferredTime:    r.PreferredTime,
		Timezone:         r.Timezone,
		Status:           models.BookingStatus(r.Status),
		MeetLink:         emptyIfNil(r.MeetLink),
		Source:           emptyIfNil(r.Source),
		UTMSource:        emptyIfNil(r.UTMSource),
		UTMMedium:        emptyIfNil(r.UTMMedium),
		UTMCampaign:      emptyIfNil(r.UTMCampaign),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

const bookingColumns = `id, name, email, phone, company, role, experience, goals,
	training_interest, preferred_date, preferred_time, timezone, status, meet_link,
	source, utm_source, utm_medium, utm_campaign, created_at, updated_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var r bookingRow
	err := row.Scan(
		&r.ID, &r.Name, &r.Email, &r.Phone, &r.Company, &r.Role, &r.Experience, &r.Goals,
		&r.TrainingInterest, &r.PreferredDate, &r.PreferredTime, &r.Timezone, &r.Status, &r.MeetLink,
		&r.Source, &r.UTMSource, &r.UTMMedium, &r.UTMCampaign, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r.toModel(), nil
}

// CreateBooking inserts a new demo booking with status pending.
// Returns the server-assigned booking id.
func (c *Client) CreateBooking(ctx context.Context, req *models.BookingRequest) (string, error) {
	start := time.Now()
	operation := "createBooking"

	id := uuid.New()
	timezone := req.Timezone
	if timezone == "" {
		timezone = models.DefaultTimezone
	}

	query := `
		INSERT INTO demo_bookings (
			id, name, email, phone, company, role, experience, goals,
			training_interest, preferred_date, preferred_time, timezone, status,
			source, utm_source, utm_medium, utm_campaign
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := c.pool.Exec(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Phone,
		nilIfEmpty(req.Company),
		nilIfEmpty(req.Role),
		nilIfEmpty(req.Experience),
		nilIfEmpty(req.Goals),
		req.TrainingInterest,
		req.PreferredDate,
		req.PreferredTime,
		timezone,
		models.BookingStatusPending,
		nilIfEmpty(req.Source),
		nilIfEmpty(req.UTMSource),
		nilIfEmpty(req.UTMMedium),
		nilIfEmpty(req.UTMCampaign),
	)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return "", fmt.Errorf("failed to create booking: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration)

	return id.String(), nil
}

// GetBookingByID fetches a single booking
func (c *Client) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	start := time.Now()
	operation := "getBooking"

	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM demo_bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(c.pool.QueryRow(ctx, query, bookingID))
	duration := metrics.MeasureDuration(start)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, ErrBookingNotFound
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return booking, nil
}

// ListBookings returns bookings, newest first, optionally filtered by status
func (c *Client) ListBookings(ctx context.Context, status models.BookingStatus, limit, offset int) ([]*models.Booking, error) {
	start := time.Now()
	operation := "listBookings"

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rows pgx.Rows
	var err error
	if status != "" {
		query := fmt.Sprintf(`SELECT %s FROM demo_bookings WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, bookingColumns)
		rows, err = c.pool.Query(ctx, query, status, limit, offset)
	} else {
		query := fmt.Sprintf(`SELECT %s FROM demo_bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`, bookingColumns)
		rows, err = c.pool.Query(ctx, query, limit, offset)
	}

	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, scanErr := scanBooking(rows)
		if scanErr != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan booking: %w", scanErr)
		}
		bookings = append(bookings, booking)
	}
	if rows.Err() != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to read bookings: %w", rows.Err())
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(bookings)))

	return bookings, nil
}

// UpdateBookingStatus moves a booking to a new lifecycle state
func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	start := time.Now()
	operation := "updateBookingStatus"

	bookingID, err := uuid.Parse(id)
	if err != nil {
		return ErrBookingNotFound
	}

	tag, err := c.pool.Exec(ctx,
		`UPDATE demo_bookings SET status = $1, updated_at = now() WHERE id = $2`,
		status, bookingID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return ErrBookingNotFound
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.String("booking_id", id), zap.String("status", string(status)))

	return nil
}

// UpdateMeetLink stores the meeting link issued for a booking
func (c *Client) UpdateMeetLink(ctx context.Context, id, meetLink string) error {
	start := time.Now()
	operation := "updateMeetLink"

	bookingID, err := uuid.Parse(id)
	if err != nil {
		return ErrBookingNotFound
	}

	tag, err := c.pool.Exec(ctx,
		`UPDATE demo_bookings SET meet_link = $1, updated_at = now() WHERE id = $2`,
		meetLink, bookingID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update meet link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return ErrBookingNotFound
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// BookedSlots returns the times already taken on a date. Cancelled bookings
// don't hold their slot.
func (c *Client) BookedSlots(ctx context.Context, date string) ([]string, error) {
	start := time.Now()
	operation := "bookedSlots"

	rows, err := c.pool.Query(ctx,
		`SELECT preferred_time FROM demo_bookings WHERE preferred_date = $1 AND status != $2`,
		date, models.BookingStatusCancelled)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query booked slots: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if scanErr := rows.Scan(&slot); scanErr != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan slot: %w", scanErr)
		}
		slots = append(slots, slot)
	}
	if rows.Err() != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to read slots: %w", rows.Err())
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)

	return slots, nil
}
