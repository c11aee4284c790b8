package visitor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound          = errors.New("visitor not found")
	ErrAlreadyCheckedOut = errors.New("visitor already checked out")
	ErrNameRequired      = errors.New("visitor name required")
	ErrInvalidRecord     = errors.New("invalid visitor record")
)

// Visitor is one visit, from check-in until check-out.
// EndTime is set if and only if IsActive is false.
type Visitor struct {
	ID          string     `json:"id" validate:"required"`
	Name        string     `json:"name" validate:"required,max=200"`
	Company     *string    `json:"company,omitempty" validate:"omitempty,max=200"`
	Purpose     *string    `json:"purpose,omitempty" validate:"omitempty,max=500"`
	Host        *string    `json:"host,omitempty" validate:"omitempty,max=200"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	BadgeNumber *string    `json:"badge_number,omitempty" validate:"omitempty,max=32"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Stay returns the visit duration for checked-out visitors.
func (v Visitor) Stay() (time.Duration, bool) {
	if v.EndTime == nil || v.StartTime.IsZero() {
		return 0, false
	}
	return v.EndTime.Sub(v.StartTime), true
}

// CheckInInput is what a visitor fills in at the front desk.
type CheckInInput struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Purpose string `json:"purpose"`
	Host    string `json:"host"`
	Notes   string `json:"notes"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		rec := sl.Current().Interface().(Visitor)
		if rec.StartTime.IsZero() {
			sl.ReportError(rec.StartTime, "StartTime", "start_time", "required", "")
		}
		if rec.IsActive == (rec.EndTime != nil) {
			sl.ReportError(rec.EndTime, "EndTime", "end_time", "checkout_state", "")
		}
		if rec.EndTime != nil && rec.EndTime.Before(rec.StartTime) {
			sl.ReportError(rec.EndTime, "EndTime", "end_time", "gtefield", "StartTime")
		}
	}, Visitor{})
	return v
}

// Validate checks a record against the visitor schema.
func Validate(v Visitor) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+":"+fe.Tag())
			}
			return fmt.Errorf("%w %s: %s", ErrInvalidRecord, v.ID, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w %s: %v", ErrInvalidRecord, v.ID, err)
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
