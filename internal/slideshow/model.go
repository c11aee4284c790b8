package slideshow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound      = errors.New("slide not found")
	ErrInvalidRecord = errors.New("invalid slide record")
	ErrInvalidInput  = errors.New("invalid slide input")
)

// Defaults for new slides.
const (
	DefaultDisplayTime     = 5
	DefaultBackgroundColor = "#1e40af"
	DefaultTextColor       = "#ffffff"
)

// Item is one slide shown on the kiosk display.
type Item struct {
	ID              string    `json:"id" validate:"required"`
	Title           string    `json:"title" validate:"required,max=200"`
	Content         *string   `json:"content,omitempty" validate:"omitempty,max=2000"`
	ImageURL        *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	DisplayTime     int       `json:"display_time" validate:"gt=0"`
	IsActive        bool      `json:"is_active"`
	Order           int       `json:"order"`
	BackgroundColor string    `json:"background_color" validate:"required,hexcolor"`
	TextColor       string    `json:"text_color" validate:"required,hexcolor"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Input is the editable part of a slide as submitted by an administrator.
type Input struct {
	Title           string `json:"title" validate:"required,max=200"`
	Content         string `json:"content" validate:"max=2000"`
	ImageURL        string `json:"image_url" validate:"omitempty,url"`
	DisplayTime     int    `json:"display_time" validate:"omitempty,min=1,max=60"`
	IsActive        *bool  `json:"is_active"`
	BackgroundColor string `json:"background_color" validate:"omitempty,hexcolor"`
	TextColor       string `json:"text_color" validate:"omitempty,hexcolor"`
}

func (in *Input) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.DisplayTime == 0 {
		in.DisplayTime = DefaultDisplayTime
	}
	if in.BackgroundColor == "" {
		in.BackgroundColor = DefaultBackgroundColor
	}
	if in.TextColor == "" {
		in.TextColor = DefaultTextColor
	}
}

var validate = validator.New()

// Validate checks a stored slide.
func Validate(it Item) error {
	if err := validate.Struct(it); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidRecord, it.ID, err)
	}
	return nil
}

func validateInput(in Input) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
