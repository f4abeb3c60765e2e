package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/calendar"
	"github.com/eduforge/eduforge-api/pkg/httpclient"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"go.uber.org/zap"
)

// BookingResult is what the wizard shows on the success screen
type BookingResult struct {
	BookingID      string `json:"bookingId"`
	GoogleMeetLink string `json:"googleMeetLink"`
}

// Client talks to the demo-booking backend. It sequences the two calls the
// booking flow needs: create the booking, then fire the confirmation email.
type Client struct {
	baseURL    string
	httpClient httpclient.Client
}

// NewClient creates a booking API client. baseURL is the backend origin
// without a trailing slash, e.g. "https://api.eduforge.io".
func NewClient(baseURL string, httpClient httpclient.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Validate runs the booking validation rules without touching the network
func (c *Client) Validate(req *models.BookingRequest) models.ValidationResult {
	return req.Validate()
}

// CheckBackendHealth probes GET /health. A failure means no booking data
// should be sent yet.
func (c *Client) CheckBackendHealth(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &ConnectivityError{Op: "health check", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return &ConnectivityError{
			Op:  "health check",
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return nil
}

// CreateDemoBooking creates the booking and then fires the confirmation
// email. The email call is best-effort: its failure is logged and swallowed
// because the booking already exists. The email is never attempted when the
// creation call fails.
func (c *Client) CreateDemoBooking(ctx context.Context, req *models.BookingRequest) (*BookingResult, error) {
	created, err := c.postCreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	c.sendConfirmationEmail(ctx, req, created.BookingID)

	meetLink := created.GoogleMeetLink
	if meetLink == "" {
		meetLink = calendar.FallbackMeetLink(created.BookingID, req.PreferredDate)
	}

	return &BookingResult{
		BookingID:      created.BookingID,
		GoogleMeetLink: meetLink,
	}, nil
}

func (c *Client) postCreateBooking(ctx context.Context, req *models.BookingRequest) (*models.CreateBookingResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/demo/create-booking", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ConnectivityError{Op: "create booking", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{Op: "create booking", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var serverErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(respBody, &serverErr) //nolint:errcheck
		return nil, &BookingCreationError{
			StatusCode: resp.StatusCode,
			Message:    serverErr.Error,
		}
	}

	var created models.CreateBookingResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}
	if created.BookingID == "" {
		return nil, &BookingCreationError{
			StatusCode: resp.StatusCode,
			Message:    "response missing booking id",
		}
	}
	return &created, nil
}

// sendConfirmationEmail fires POST /api/send-demo-email. Any failure here is
// logged only; the caller already has a confirmed booking.
func (c *Client) sendConfirmationEmail(ctx context.Context, data *models.BookingRequest, bookingID string) {
	payload := models.SendDemoEmailRequest{
		BookingData: *data,
		BookingID:   bookingID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Failed to marshal email request",
			zap.Error(err), zap.String("booking_id", bookingID))
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/send-demo-email", bytes.NewReader(body))
	if err != nil {
		logger.Warn("Failed to build email request",
			zap.Error(err), zap.String("booking_id", bookingID))
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warn("Confirmation email request failed",
			zap.Error(err), zap.String("booking_id", bookingID))
		return
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Confirmation email returned non-success status",
			zap.Int("status", resp.StatusCode), zap.String("booking_id", bookingID))
		return
	}
	logger.Debug("Confirmation email dispatched", zap.String("booking_id", bookingID))
}

// Attribution is the marketing metadata attached to a booking at submit time
type Attribution struct {
	Source      string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
}

// ParseAttribution extracts UTM parameters from the page URL the booking was
// submitted from. The source falls back to "website" when absent.
func ParseAttribution(pageURL string) Attribution {
	attr := Attribution{Source: "website"}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return attr
	}

	query := parsed.Query()
	if s := query.Get("source"); s != "" {
		attr.Source = s
	}
	attr.UTMSource = query.Get("utm_source")
	attr.UTMMedium = query.Get("utm_medium")
	attr.UTMCampaign = query.Get("utm_campaign")
	return attr
}

// Apply copies the attribution onto the booking request
func (a Attribution) Apply(req *models.BookingRequest) {
	req.Source = a.Source
	req.UTMSource = a.UTMSource
	req.UTMMedium = a.UTMMedium
	req.UTMCampaign = a.UTMCampaign
}
