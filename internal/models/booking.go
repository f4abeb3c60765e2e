package models

import (
	"regexp"
	"time"
)

// BookingStatus is the lifecycle state of a demo booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// validTransitions encodes the booking lifecycle:
// pending -> confirmed|cancelled, confirmed -> completed|cancelled.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransition reports whether a status change is a legal lifecycle step
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValid reports whether the value is a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// ExperienceLevels are the accepted values for the experience field
var ExperienceLevels = []string{"beginner", "intermediate", "advanced"}

// TrainingInterests is the fixed course catalog offered on the demo form
var TrainingInterests = []string{
	"Full Stack Web Development",
	"Data Science & Machine Learning",
	"Cloud Engineering & DevOps",
	"Mobile App Development",
	"UI/UX Design",
	"Cybersecurity Fundamentals",
}

// TimeSlots are the ten bookable demo session start times
var TimeSlots = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00",
	"19:00", "20:00",
}

// DefaultTimezone is applied when the client omits one
const DefaultTimezone = "Asia/Kolkata"

// emailPattern matches local@domain.tld without whitespace. Kept deliberately
// simple; the SMTP relay is the final authority on deliverability.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// BookingRequest is the demo booking payload submitted by the site
type BookingRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Company          string `json:"company,omitempty"` // free text "I am a..."
	Role             string `json:"role,omitempty"`
	Experience       string `json:"experience,omitempty"`
	Goals            string `json:"goals,omitempty"`
	TrainingInterest string `json:"trainingInterest"`
	PreferredDate    string `json:"preferredDate"` // YYYY-MM-DD
	PreferredTime    string `json:"preferredTime"` // HH:MM, one of TimeSlots
	Timezone         string `json:"timezone,omitempty"`

	// Attribution, attached by the client from the page URL at submit time
	Source      string `json:"source,omitempty"`
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
}

// ValidationResult accumulates every failed rule, not just the first
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks the required fields and email format. Every failing rule
// contributes its own message; the check never short-circuits.
func (r *BookingRequest) Validate() ValidationResult {
	var errs []string

	if r.Name == "" {
		errs = append(errs, "Name is required")
	}
	if r.Email == "" {
		errs = append(errs, "Email is required")
	}
	if r.Phone == "" {
		errs = append(errs, "Phone number is required")
	}
	if r.PreferredDate == "" {
		errs = append(errs, "Preferred date is required")
	}
	if r.PreferredTime == "" {
		errs = append(errs, "Preferred time is required")
	}
	if r.TrainingInterest == "" {
		errs = append(errs, "Training interest is required")
	}

	if r.Email != "" && !emailPattern.MatchString(r.Email) {
		errs = append(errs, "Please enter a valid email address")
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// IsValidEmail reports whether s matches the booking email format
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidTimeSlot reports whether t is one of the bookable slots
func IsValidTimeSlot(t string) bool {
	for _, slot := range TimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// IsValidTrainingInterest reports whether course is in the catalog
func IsValidTrainingInterest(course string) bool {
	for _, c := range TrainingInterests {
		if c == course {
			return true
		}
	}
	return false
}

// IsValidExperience reports whether level is a known experience level.
// Empty is allowed; the field is optional.
func IsValidExperience(level string) bool {
	if level == "" {
		return true
	}
	for _, l := range ExperienceLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Booking is a persisted demo booking
type Booking struct {
	ID               string        `json:"bookingId"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	Company          string        `json:"company,omitempty"`
	Role             string        `json:"role,omitempty"`
	Experience       string        `json:"experience,omitempty"`
	Goals            string        `json:"goals,omitempty"`
	TrainingInterest string        `json:"trainingInterest"`
	PreferredDate    string        `json:"preferredDate"`
	PreferredTime    string        `json:"preferredTime"`
	Timezone         string        `json:"timezone"`
	Status           BookingStatus `json:"status"`
	MeetLink         string        `json:"googleMeetLink,omitempty"`
	Source           string        `json:"source,omitempty"`
	UTMSource        string        `json:"utmSource,omitempty"`
	UTMMedium        string        `json:"utmMedium,omitempty"`
	UTMCampaign      string        `json:"utmCampaign,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// CreateBookingResponse is returned by POST /api/demo/create-booking
type CreateBookingResponse struct {
	BookingID      string `json:"bookingId"`
	GoogleMeetLink string `json:"googleMeetLink,omitempty"`
}

// SendDemoEmailRequest is the confirmation-email payload. The booking id is
// carried separately because the email references the already-created record.
type SendDemoEmailRequest struct {
	BookingData BookingRequest `json:"bookingData"`
	BookingID   string         `json:"bookingId"`
}

// SendDemoEmailResponse is returned by POST /api/send-demo-email
type SendDemoEmailResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// StatusUpdateRequest is the admin request to move a booking through its lifecycle
type StatusUpdateRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}
