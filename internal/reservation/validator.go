package reservation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Rule int

const (
	RuleRequired Rule = iota
	RuleEmail
	RuleGuests
	RuleDate
)

const (
	MsgRequired = "Please fill in all required fields."
	MsgEmail    = "Please enter a valid email address."
	MsgGuests   = "Number of guests must be between 1 and 20."
	MsgDate     = "Please select a future date."
)

const (
	MinGuests = 1
	MaxGuests = 20
)

func (r Rule) String() string {
	switch r {
	case RuleRequired:
		return "required"
	case RuleEmail:
		return "email"
	case RuleGuests:
		return "guests"
	case RuleDate:
		return "date"
	default:
		return "unknown"
	}
}

// ValidationError carries the message shown to the guest.
type ValidationError struct {
	Rule    Rule
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(r Rule) *ValidationError {
	msg := map[Rule]string{
		RuleRequired: MsgRequired,
		RuleEmail:    MsgEmail,
		RuleGuests:   MsgGuests,
		RuleDate:     MsgDate,
	}[r]
	return &ValidationError{Rule: r, Message: msg}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	guestsTag    = fmt.Sprintf("min=%d,max=%d", MinGuests, MaxGuests)
)

// requiredFields mirrors the fields the form marks as required.
type requiredFields struct {
	Name   string `validate:"required"`
	Email  string `validate:"required"`
	Guests string `validate:"required"`
	Date   string `validate:"required"`
	Time   string `validate:"required"`
}

type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := validator.New()
	_ = v.RegisterValidation("reservation_email", validateEmail)
	return &Validator{validate: v, now: now}
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// Validate checks the request rule by rule and reports the first failure.
func (v *Validator) Validate(r Request) error {
	_, _, err := v.check(r)
	return err
}

func (v *Validator) check(r Request) (int, time.Time, error) {
	required := requiredFields{
		Name:   strings.TrimSpace(r.Name),
		Email:  strings.TrimSpace(r.Email),
		Guests: strings.TrimSpace(r.Guests),
		Date:   strings.TrimSpace(r.Date),
		Time:   strings.TrimSpace(r.Time),
	}
	if err := v.validate.Struct(required); err != nil {
		return 0, time.Time{}, newValidationError(RuleRequired)
	}

	// the address is matched as typed; surrounding spaces make it invalid
	if err := v.validate.Var(r.Email, "reservation_email"); err != nil {
		return 0, time.Time{}, newValidationError(RuleEmail)
	}

	guests, err := strconv.Atoi(required.Guests)
	if err != nil {
		return 0, time.Time{}, newValidationError(RuleGuests)
	}
	if err := v.validate.Var(guests, guestsTag); err != nil {
		return 0, time.Time{}, newValidationError(RuleGuests)
	}

	now := v.now()
	date, err := time.ParseInLocation(DateLayout, required.Date, now.Location())
	if err != nil {
		return 0, time.Time{}, newValidationError(RuleDate)
	}
	if date.Before(startOfDay(now)) {
		return 0, time.Time{}, newValidationError(RuleDate)
	}

	return guests, date, nil
}

// MinDate is the earliest date the form accepts.
func MinDate(now time.Time) string {
	return now.Format(DateLayout)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
