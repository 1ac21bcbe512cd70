// Package intake validates and normalizes guest input before it is stored.
package intake

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/models"
)

// MaxMessageLength is the longest blessing message accepted, in characters.
const MaxMessageLength = 500

var validate = validator.New(validator.WithRequiredStructEnabled())

// SubmissionInput is the raw blessing form.
type SubmissionInput struct {
	Message     *string `json:"message"`
	PhotoURL    *string `json:"photo_url"`
	GuestName   *string `json:"guest_name"`
	TableNumber Flex    `json:"table_number"`
}

// NewSubmission holds a validated blessing ready to be stored.
type NewSubmission struct {
	GuestName   *string
	Message     string
	PhotoURL    string
	TableNumber *int
}

type submissionRules struct {
	PhotoURL string `validate:"required,http_url"`
	Message  string `validate:"required,max=500"`
}

var submissionMessages = map[string]string{
	"PhotoURL.required": "missing photo",
	"PhotoURL.http_url": "invalid photo url",
	"Message.required":  "missing message",
	"Message.max":       "message exceeds 500 characters",
}

// Submission validates a blessing and normalizes its optional fields.
func Submission(in SubmissionInput) (NewSubmission, error) {
	rules := submissionRules{
		PhotoURL: strings.TrimSpace(deref(in.PhotoURL)),
		Message:  clean(deref(in.Message)),
	}
	if err := check(rules, submissionMessages); err != nil {
		return NewSubmission{}, err
	}

	out := NewSubmission{
		GuestName: optional(in.GuestName),
		Message:   rules.Message,
		PhotoURL:  rules.PhotoURL,
	}
	if n, ok := in.TableNumber.PositiveInt(); ok {
		out.TableNumber = &n
	}
	return out, nil
}

// RSVPInput is the raw RSVP form.
type RSVPInput struct {
	GuestName           string  `json:"guest_name"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	Attendance          string  `json:"attendance"`
	GuestCount          Flex    `json:"guest_count"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	Message             *string `json:"message"`
}

// NewRSVP holds a validated RSVP ready to be stored.
type NewRSVP struct {
	GuestName           string
	Email               *string
	Phone               *string
	Attendance          models.Attendance
	GuestCount          int
	DietaryRestrictions *string
	Message             *string
}

type rsvpRules struct {
	GuestName  string `validate:"required"`
	Attendance string `validate:"required,oneof=attending not_attending maybe"`
}

var rsvpMessages = map[string]string{
	"GuestName.required":  "guest_name and attendance required",
	"Attendance.required": "guest_name and attendance required",
	"Attendance.oneof":    "invalid attendance",
}

// RSVP validates an RSVP. Guests who are not attending always count as zero.
func RSVP(in RSVPInput) (NewRSVP, error) {
	rules := rsvpRules{
		GuestName:  clean(in.GuestName),
		Attendance: strings.TrimSpace(in.Attendance),
	}
	if err := check(rules, rsvpMessages); err != nil {
		return NewRSVP{}, err
	}
	attendance, err := models.ParseAttendance(rules.Attendance)
	if err != nil {
		return NewRSVP{}, apperr.Validation("invalid attendance")
	}

	out := NewRSVP{
		GuestName:           rules.GuestName,
		Email:               optional(in.Email),
		Phone:               optional(in.Phone),
		Attendance:          attendance,
		DietaryRestrictions: optional(in.DietaryRestrictions),
		Message:             optional(in.Message),
	}
	out.GuestCount = GuestCount(attendance, in.GuestCount)
	return out, nil
}

// GuestCount applies the headcount rule for an attendance value.
func GuestCount(a models.Attendance, requested Flex) int {
	switch a {
	case models.Attending:
		if n, ok := requested.PositiveInt(); ok {
			return n
		}
		return 1
	case models.NotAttending, models.Maybe:
		return 0
	}
	return 0
}

func check(rules any, messages map[string]string) error {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return apperr.Validation("%s", msg)
	}
	return apperr.Validation("invalid %s", strings.ToLower(fe.Field()))
}

// clean trims and NFC-normalizes free text.
func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := clean(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
