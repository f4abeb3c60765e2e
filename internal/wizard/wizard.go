package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/pkg/bookingclient"
	"github.com/eduforge/eduforge-api/pkg/logger"
	"go.uber.org/zap"
)

// Step is a tagged wizard state. The four form steps are ordered; Success is
// terminal until Reset.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepGoals
	StepSchedule
	StepReview
	StateSuccess
)

// String returns the step name for logs
func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic_info"
	case StepGoals:
		return "goals"
	case StepSchedule:
		return "schedule"
	case StepReview:
		return "review"
	case StateSuccess:
		return "success"
	}
	return "unknown"
}

// Event is a wizard input
type Event int

const (
	EventNext Event = iota
	EventPrev
	EventSubmitOK
	EventSubmitFail
	EventReset
)

type transitionKey struct {
	from  Step
	event Event
}

// transitions is the full state table. Absent entries mean the event is
// ignored in that state, which is what clamps Prev at step 1 and Next at
// review.
var transitions = map[transitionKey]Step{
	{StepBasicInfo, EventNext}: StepGoals,
	{StepGoals, EventNext}:     StepSchedule,
	{StepGoals, EventPrev}:     StepBasicInfo,
	{StepSchedule, EventNext}:  StepReview,
	{StepSchedule, EventPrev}:  StepGoals,
	{StepReview, EventPrev}:    StepSchedule,

	{StepReview, EventSubmitOK}:   StateSuccess,
	{StepReview, EventSubmitFail}: StepReview,

	{StepBasicInfo, EventReset}: StepBasicInfo,
	{StepGoals, EventReset}:     StepBasicInfo,
	{StepSchedule, EventReset}:  StepBasicInfo,
	{StepReview, EventReset}:    StepBasicInfo,
	{StateSuccess, EventReset}:  StepBasicInfo,
}

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// Submit has not finished.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrNotOnReview is returned when Submit is called from any state other
	// than the review step.
	ErrNotOnReview = errors.New("submission is only allowed from the review step")
)

// BookingAPI is the slice of the booking client the wizard needs
type BookingAPI interface {
	CheckBackendHealth(ctx context.Context) error
	CreateDemoBooking(ctx context.Context, req *models.BookingRequest) (*bookingclient.BookingResult, error)
}

// Wizard drives the four-step booking form. It owns the draft request and
// only lets a step advance once the fields that step collects are valid.
// Safe for concurrent use.
type Wizard struct {
	mu       sync.Mutex
	state    Step
	draft    models.BookingRequest
	client   BookingAPI
	inFlight bool
	result   *bookingclient.BookingResult
}

// New creates a wizard at the first step with an empty draft
func New(client BookingAPI) *Wizard {
	return &Wizard{
		state:  StepBasicInfo,
		client: client,
	}
}

// State returns the current step
func (w *Wizard) State() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns a copy of the draft booking request
func (w *Wizard) Draft() models.BookingRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// UpdateDraft mutates the draft under the wizard's lock
func (w *Wizard) UpdateDraft(fn func(*models.BookingRequest)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.draft)
}

// Result returns the booking result once the wizard reached the success state
func (w *Wizard) Result() *bookingclient.BookingResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// CanAdvance reports whether the fields collected by the given step are
// complete and valid in the draft.
func CanAdvance(state Step, draft *models.BookingRequest) bool {
	switch state {
	case StepBasicInfo:
		return draft.Name != "" && draft.Phone != "" &&
			draft.Email != "" && models.IsValidEmail(draft.Email)
	case StepGoals:
		return draft.TrainingInterest != "" && draft.Goals != "" &&
			draft.Experience != "" && models.IsValidExperience(draft.Experience)
	case StepSchedule:
		return draft.PreferredDate != "" && draft.PreferredTime != ""
	case StepReview:
		// Review collects no fields; it only displays the draft
		return true
	}
	return false
}

// Next advances one step when the current step's fields are valid. It
// returns the resulting state; an invalid draft leaves the state unchanged.
func (w *Wizard) Next() Step {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !CanAdvance(w.state, &w.draft) {
		return w.state
	}
	w.apply(EventNext)
	return w.state
}

// Prev moves one step back, clamped at the first step
func (w *Wizard) Prev() Step {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.apply(EventPrev)
	return w.state
}

// Reset clears the draft and result and returns to the first step
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft = models.BookingRequest{}
	w.result = nil
	w.apply(EventReset)
}

// apply requires w.mu to be held
func (w *Wizard) apply(event Event) {
	if next, ok := transitions[transitionKey{w.state, event}]; ok {
		w.state = next
	}
}

// Submit runs the full submission sequence from the review step: validate
// the whole draft, probe backend health, create the booking. On success the
// wizard moves to the success state; on failure it stays on review with the
// draft intact so the user can retry.
func (w *Wizard) Submit(ctx context.Context) (*bookingclient.BookingResult, error) {
	w.mu.Lock()
	if w.state != StepReview {
		w.mu.Unlock()
		return nil, ErrNotOnReview
	}
	if w.inFlight {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	w.inFlight = true
	draft := w.draft
	w.mu.Unlock()

	result, err := w.submit(ctx, &draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if err != nil {
		w.apply(EventSubmitFail)
		return nil, err
	}
	w.result = result
	w.apply(EventSubmitOK)
	return result, nil
}

func (w *Wizard) submit(ctx context.Context, draft *models.BookingRequest) (*bookingclient.BookingResult, error) {
	if result := draft.Validate(); !result.IsValid {
		return nil, &bookingclient.ValidationError{Errors: result.Errors}
	}

	// Probe connectivity before any booking data leaves the client
	if err := w.client.CheckBackendHealth(ctx); err != nil {
		logger.Warn("Backend health probe failed before submit", zap.Error(err))
		return nil, err
	}

	result, err := w.client.CreateDemoBooking(ctx, draft)
	if err != nil {
		logger.Warn("Booking submission failed", zap.Error(err))
		return nil, err
	}

	logger.Info("Booking wizard completed",
		zap.String("booking_id", result.BookingID))
	return result, nil
}
