package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// EventRequest describes the demo session to schedule
type EventRequest struct {
	Summary     string
	Description string
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	Timezone    string
	Attendee    string
	Duration    time.Duration
}

// Client creates Google Calendar events with Meet conferencing attached
type Client struct {
	service    *gcal.Service
	calendarID string
}

// NewClient builds a calendar client from a service-account key file
func NewClient(ctx context.Context, credentialsFile, calendarID string) (*Client, error) {
	service, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	return &Client{
		service:    service,
		calendarID: calendarID,
	}, nil
}

// CreateEvent inserts an event with a Meet conference and returns the Meet link
func (c *Client) CreateEvent(ctx context.Context, req EventRequest) (string, error) {
	start := time.Now()
	operation := "createEvent"

	if req.Duration == 0 {
		req.Duration = 30 * time.Minute
	}

	startAt, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.StartTime)
	if err != nil {
		return "", fmt.Errorf("invalid event start %q %q: %w", req.Date, req.StartTime, err)
	}
	endAt := startAt.Add(req.Duration)

	event := &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &gcal.EventDateTime{
			DateTime: startAt.Format("2006-01-02T15:04:05"),
			TimeZone: req.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: endAt.Format("2006-01-02T15:04:05"),
			TimeZone: req.Timezone,
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}
	if req.Attendee != "" {
		event.Attendees = []*gcal.EventAttendee{{Email: req.Attendee}}
	}

	created, err := c.service.Events.Insert(c.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.IntegrationRequestTotal.WithLabelValues("calendar", operation, "error").Inc()
		metrics.IntegrationRequestDuration.WithLabelValues("calendar", operation, "error").Observe(duration)
		logger.LogAPICall("calendar", operation, "error", duration, zap.Error(err))
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}

	metrics.IntegrationRequestTotal.WithLabelValues("calendar", operation, "success").Inc()
	metrics.IntegrationRequestDuration.WithLabelValues("calendar", operation, "success").Observe(duration)
	logger.LogAPICall("calendar", operation, "success", duration, zap.String("event_id", created.Id))

	if created.HangoutLink != "" {
		return created.HangoutLink, nil
	}

	// Conference creation is asynchronous on Google's side occasionally;
	// fall back to the deterministic link rather than polling.
	return "", nil
}

// FallbackMeetLink derives a placeholder Meet link from the booking id and
// date. It is a naming convention shared with the frontend, not a guarantee
// that a live meeting exists.
func FallbackMeetLink(bookingID, date string) string {
	return fmt.Sprintf("https://meet.google.com/demo-%s-%s", bookingID, strings.ReplaceAll(date, "-", ""))
}
