package siteconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound      = errors.New("site config not found")
	ErrInvalidRecord = errors.New("invalid site config")
)

// Tablet display modes.
const (
	DisplayAuto      = "auto"
	DisplayLandscape = "landscape"
	DisplayPortrait  = "portrait"
)

// LayoutConfig holds the colors and texts of the public pages.
// Only one layout is active at a time.
type LayoutConfig struct {
	ID                 string    `json:"id" yaml:"-"`
	Name               string    `json:"name" yaml:"name" validate:"required,max=100"`
	HeaderEnabled      bool      `json:"header_enabled" yaml:"header_enabled"`
	HeaderText         string    `json:"header_text" yaml:"header_text" validate:"max=200"`
	HeaderColor        string    `json:"header_color" yaml:"header_color" validate:"hexcolor"`
	HeaderTextColor    string    `json:"header_text_color" yaml:"header_text_color" validate:"hexcolor"`
	FooterEnabled      bool      `json:"footer_enabled" yaml:"footer_enabled"`
	FooterText         string    `json:"footer_text" yaml:"footer_text" validate:"max=200"`
	FooterColor        string    `json:"footer_color" yaml:"footer_color" validate:"hexcolor"`
	FooterTextColor    string    `json:"footer_text_color" yaml:"footer_text_color" validate:"hexcolor"`
	BackgroundColor    string    `json:"background_color" yaml:"background_color" validate:"hexcolor"`
	BackgroundImageURL *string   `json:"background_image_url,omitempty" yaml:"background_image_url" validate:"omitempty,url"`
	PrimaryColor       string    `json:"primary_color" yaml:"primary_color" validate:"hexcolor"`
	SecondaryColor     string    `json:"secondary_color" yaml:"secondary_color" validate:"hexcolor"`
	TextColor          string    `json:"text_color" yaml:"text_color" validate:"hexcolor"`
	IsActive           bool      `json:"is_active" yaml:"-"`
	CreatedAt          time.Time `json:"created_at" yaml:"-"`
	UpdatedAt          time.Time `json:"updated_at" yaml:"-"`
}

// SystemSettings is the single row of deployment-wide settings.
type SystemSettings struct {
	ID                  string    `json:"id" yaml:"-"`
	SiteName            string    `json:"site_name" yaml:"site_name" validate:"required,max=100"`
	LogoURL             *string   `json:"logo_url,omitempty" yaml:"logo_url" validate:"omitempty,url"`
	CompanyName         string    `json:"company_name" yaml:"company_name" validate:"required,max=100"`
	Language            string    `json:"language" yaml:"language" validate:"oneof=de en"`
	Timezone            string    `json:"timezone" yaml:"timezone" validate:"required,timezone"`
	SlideshowInterval   int       `json:"slideshow_interval" yaml:"slideshow_interval" validate:"min=3,max=60"`
	AutoCheckoutTime    int       `json:"auto_checkout_time" yaml:"auto_checkout_time" validate:"min=0,max=23"`
	MaxUploadSize       int       `json:"max_upload_size" yaml:"max_upload_size" validate:"min=1,max=100"`
	TabletDisplayMode   string    `json:"tablet_display_mode" yaml:"tablet_display_mode" validate:"oneof=auto landscape portrait"`
	VisitorDisplayLimit int       `json:"visitor_display_limit" yaml:"visitor_display_limit" validate:"min=5,max=50"`
	EnableNotifications bool      `json:"enable_notifications" yaml:"enable_notifications"`
	EnableAutoCheckout  bool      `json:"enable_auto_checkout" yaml:"enable_auto_checkout"`
	CreatedAt           time.Time `json:"created_at" yaml:"-"`
	UpdatedAt           time.Time `json:"updated_at" yaml:"-"`
}

// Location resolves the configured timezone, falling back to the process zone.
func (s SystemSettings) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SlideInterval is the rotation interval of the kiosk slideshow.
func (s SystemSettings) SlideInterval() time.Duration {
	return time.Duration(s.SlideshowInterval) * time.Second
}

// PublicSettings is the subset of settings shown to unauthenticated clients.
type PublicSettings struct {
	SiteName            string  `json:"site_name"`
	LogoURL             *string `json:"logo_url,omitempty"`
	CompanyName         string  `json:"company_name"`
	Language            string  `json:"language"`
	Timezone            string  `json:"timezone"`
	SlideshowInterval   int     `json:"slideshow_interval"`
	TabletDisplayMode   string  `json:"tablet_display_mode"`
	VisitorDisplayLimit int     `json:"visitor_display_limit"`
}

func (s SystemSettings) Public() PublicSettings {
	return PublicSettings{
		SiteName:            s.SiteName,
		LogoURL:             s.LogoURL,
		CompanyName:         s.CompanyName,
		Language:            s.Language,
		Timezone:            s.Timezone,
		SlideshowInterval:   s.SlideshowInterval,
		TabletDisplayMode:   s.TabletDisplayMode,
		VisitorDisplayLimit: s.VisitorDisplayLimit,
	}
}

var validate = validator.New()

func check(kind, id string, v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+":"+fe.Tag())
			}
			return fmt.Errorf("%w: %s %s: %s", ErrInvalidRecord, kind, id, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidRecord, kind, id, err)
	}
	return nil
}

// ValidateLayout checks a layout against its schema.
func ValidateLayout(l LayoutConfig) error { return check("layout", l.ID, l) }

// ValidateSettings checks settings against their schema and allowed ranges.
func ValidateSettings(s SystemSettings) error { return check("settings", s.ID, s) }

func blankToNil(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
