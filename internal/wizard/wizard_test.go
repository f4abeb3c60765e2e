package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/bookingclient"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "test"}) //nolint:errcheck
}

// fakeAPI scripts the backend responses and records the call order
type fakeAPI struct {
	mu          sync.Mutex
	healthErr   error
	createErr   error
	result      *bookingclient.BookingResult
	calls       []string
	healthGate  chan struct{} // when set, CheckBackendHealth blocks until closed
	createCount int
}

func (f *fakeAPI) CheckBackendHealth(ctx context.Context) error {
	f.mu.Lock()
	f.calls = append(f.calls, "health")
	gate := f.healthGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return f.healthErr
}

func (f *fakeAPI) CreateDemoBooking(ctx context.Context, req *models.BookingRequest) (*bookingclient.BookingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	f.createCount++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.result, nil
}

func fillBasicInfo(w *Wizard) {
	w.UpdateDraft(func(d *models.BookingRequest) {
		d.Name = "Priya Sharma"
		d.Email = "priya@example.com"
		d.Phone = "+91 98765 43210"
	})
}

func fillGoals(w *Wizard) {
	w.UpdateDraft(func(d *models.BookingRequest) {
		d.TrainingInterest = "UI/UX Design"
		d.Experience = "beginner"
		d.Goals = "Move from support into product design"
	})
}

func fillSchedule(w *Wizard) {
	w.UpdateDraft(func(d *models.BookingRequest) {
		d.PreferredDate = "2026-09-15"
		d.PreferredTime = "11:00"
	})
}

func wizardAtReview(api BookingAPI) *Wizard {
	w := New(api)
	fillBasicInfo(w)
	w.Next()
	fillGoals(w)
	w.Next()
	fillSchedule(w)
	w.Next()
	return w
}

func TestNext_GatedPerStep(t *testing.T) {
	w := New(&fakeAPI{})
	assert.Equal(t, StepBasicInfo, w.State())

	// Empty draft cannot advance
	assert.Equal(t, StepBasicInfo, w.Next())

	// A malformed email still blocks the first step
	w.UpdateDraft(func(d *models.BookingRequest) {
		d.Name = "Priya"
		d.Phone = "12345"
		d.Email = "not-an-email"
	})
	assert.Equal(t, StepBasicInfo, w.Next())

	fillBasicInfo(w)
	assert.Equal(t, StepGoals, w.Next())

	// Goals step needs course, experience and goals together
	assert.Equal(t, StepGoals, w.Next())
	w.UpdateDraft(func(d *models.BookingRequest) { d.TrainingInterest = "UI/UX Design" })
	assert.Equal(t, StepGoals, w.Next())
	w.UpdateDraft(func(d *models.BookingRequest) {
		d.Experience = "expert" // not a known level
		d.Goals = "Move from support into product design"
	})
	assert.Equal(t, StepGoals, w.Next())
	fillGoals(w)
	assert.Equal(t, StepSchedule, w.Next())

	// Schedule step needs both date and time
	w.UpdateDraft(func(d *models.BookingRequest) { d.PreferredDate = "2026-09-15" })
	assert.Equal(t, StepSchedule, w.Next())
	fillSchedule(w)
	assert.Equal(t, StepReview, w.Next())

	// Review does not advance via Next; only Submit leaves it
	assert.Equal(t, StepReview, w.Next())
}

func TestCanAdvance_ReviewAlwaysValid(t *testing.T) {
	// Review collects nothing, so its gate holds even for an empty draft
	assert.True(t, CanAdvance(StepReview, &models.BookingRequest{}))
}

func TestPrev_ClampedAtFirstStep(t *testing.T) {
	w := New(&fakeAPI{})
	assert.Equal(t, StepBasicInfo, w.Prev())

	fillBasicInfo(w)
	w.Next()
	assert.Equal(t, StepBasicInfo, w.Prev())
	assert.Equal(t, StepBasicInfo, w.Prev())
}

func TestSubmit_OnlyFromReview(t *testing.T) {
	w := New(&fakeAPI{})
	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOnReview)
}

func TestSubmit_Success(t *testing.T) {
	api := &fakeAPI{
		result: &bookingclient.BookingResult{
			BookingID:      "abc-123",
			GoogleMeetLink: "https://meet.google.com/demo-abc-123-20260915",
		},
	}
	w := wizardAtReview(api)

	result, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc-123", result.BookingID)
	assert.Equal(t, StateSuccess, w.State())
	assert.Equal(t, result, w.Result())

	// Health probe always runs before any booking data is sent
	assert.Equal(t, []string{"health", "create"}, api.calls)
}

func TestSubmit_InvalidDraftFailsLocally(t *testing.T) {
	api := &fakeAPI{}
	w := wizardAtReview(api)

	// The draft can still be edited from review; gut a required field
	w.UpdateDraft(func(d *models.BookingRequest) { d.Email = "" })

	_, err := w.Submit(context.Background())
	var validationErr *bookingclient.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "Email is required")

	// Local rejection never touches the network
	assert.Empty(t, api.calls)
	assert.Equal(t, StepReview, w.State())
}

func TestSubmit_HealthFailureSkipsCreate(t *testing.T) {
	api := &fakeAPI{
		healthErr: &bookingclient.ConnectivityError{Op: "health check", Err: errors.New("refused")},
	}
	w := wizardAtReview(api)

	_, err := w.Submit(context.Background())
	var connErr *bookingclient.ConnectivityError
	require.ErrorAs(t, err, &connErr)

	assert.Equal(t, []string{"health"}, api.calls)
	assert.Equal(t, StepReview, w.State())
}

func TestSubmit_FailureKeepsDraftOnReview(t *testing.T) {
	api := &fakeAPI{
		createErr: &bookingclient.BookingCreationError{StatusCode: 500, Message: "boom"},
	}
	w := wizardAtReview(api)
	draftBefore := w.Draft()

	_, err := w.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, StepReview, w.State())
	assert.Equal(t, draftBefore, w.Draft())
	assert.Nil(t, w.Result())

	// The user can retry from review
	api.createErr = nil
	api.result = &bookingclient.BookingResult{BookingID: "abc-456"}
	result, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc-456", result.BookingID)
	assert.Equal(t, StateSuccess, w.State())
}

func TestSubmit_RejectsReentrantCalls(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{
		healthGate: gate,
		result:     &bookingclient.BookingResult{BookingID: "abc-123"},
	}
	w := wizardAtReview(api)

	firstDone := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		firstDone <- err
	}()

	// Wait for the first Submit to reach the health probe
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.inFlight
	}, time.Second, time.Millisecond)

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(gate)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, api.createCount)
}

func TestReset_ClearsDraftAndReturnsToFirstStep(t *testing.T) {
	api := &fakeAPI{result: &bookingclient.BookingResult{BookingID: "abc-123"}}
	w := wizardAtReview(api)

	_, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, w.State())

	w.Reset()
	assert.Equal(t, StepBasicInfo, w.State())
	assert.Equal(t, models.BookingRequest{}, w.Draft())
	assert.Nil(t, w.Result())
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "basic_info", StepBasicInfo.String())
	assert.Equal(t, "review", StepReview.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "unknown", Step(99).String())
}
