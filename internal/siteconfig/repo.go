package siteconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository stores the layout and settings singletons.
type Repository interface {
	ActiveLayout(ctx context.Context) (LayoutConfig, error)
	InsertLayout(ctx context.Context, l LayoutConfig) (LayoutConfig, error)
	UpdateLayout(ctx context.Context, l LayoutConfig) (LayoutConfig, error)

	Settings(ctx context.Context) (SystemSettings, error)
	InsertSettings(ctx context.Context, s SystemSettings) (SystemSettings, error)
	UpdateSettings(ctx context.Context, s SystemSettings) (SystemSettings, error)
}

const layoutColumns = `id, name, header_enabled, header_text, header_color, header_text_color,
	footer_enabled, footer_text, footer_color, footer_text_color, background_color, background_image_url,
	primary_color, secondary_color, text_color, is_active, created_at, updated_at`

const settingsColumns = `id, site_name, logo_url, company_name, language, timezone, slideshow_interval,
	auto_checkout_time, max_upload_size, tablet_display_mode, visitor_display_limit,
	enable_notifications, enable_auto_checkout, created_at, updated_at`

// SQLRepository persists site config in Postgres or SQLite.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) ActiveLayout(ctx context.Context) (LayoutConfig, error) {
	var l LayoutConfig
	err := r.db.QueryRowContext(ctx, `SELECT `+layoutColumns+` FROM layout_configs
		WHERE is_active = $1 ORDER BY updated_at DESC LIMIT 1`, true).
		Scan(&l.ID, &l.Name, &l.HeaderEnabled, &l.HeaderText, &l.HeaderColor, &l.HeaderTextColor,
			&l.FooterEnabled, &l.FooterText, &l.FooterColor, &l.FooterTextColor, &l.BackgroundColor, &l.BackgroundImageURL,
			&l.PrimaryColor, &l.SecondaryColor, &l.TextColor, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return LayoutConfig{}, ErrNotFound
	}
	if err != nil {
		return LayoutConfig{}, fmt.Errorf("get layout: %w", err)
	}
	return l, ValidateLayout(l)
}

func (r *SQLRepository) InsertLayout(ctx context.Context, l LayoutConfig) (LayoutConfig, error) {
	if err := ValidateLayout(l); err != nil {
		return LayoutConfig{}, err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO layout_configs (`+layoutColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, l.ID, l.Name, l.HeaderEnabled, l.HeaderText, l.HeaderColor, l.HeaderTextColor,
		l.FooterEnabled, l.FooterText, l.FooterColor, l.FooterTextColor, l.BackgroundColor, l.BackgroundImageURL,
		l.PrimaryColor, l.SecondaryColor, l.TextColor, l.IsActive, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return LayoutConfig{}, fmt.Errorf("insert layout: %w", err)
	}
	return l, nil
}

func (r *SQLRepository) UpdateLayout(ctx context.Context, l LayoutConfig) (LayoutConfig, error) {
	if err := ValidateLayout(l); err != nil {
		return LayoutConfig{}, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE layout_configs
		SET name = $1, header_enabled = $2, header_text = $3, header_color = $4, header_text_color = $5,
		    footer_enabled = $6, footer_text = $7, footer_color = $8, footer_text_color = $9,
		    background_color = $10, background_image_url = $11, primary_color = $12, secondary_color = $13,
		    text_color = $14, is_active = $15, updated_at = $16
		WHERE id = $17
	`, l.Name, l.HeaderEnabled, l.HeaderText, l.HeaderColor, l.HeaderTextColor,
		l.FooterEnabled, l.FooterText, l.FooterColor, l.FooterTextColor,
		l.BackgroundColor, l.BackgroundImageURL, l.PrimaryColor, l.SecondaryColor,
		l.TextColor, l.IsActive, l.UpdatedAt, l.ID)
	if err != nil {
		return LayoutConfig{}, fmt.Errorf("update layout: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return LayoutConfig{}, ErrNotFound
	}
	return l, nil
}

func (r *SQLRepository) Settings(ctx context.Context) (SystemSettings, error) {
	var s SystemSettings
	err := r.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM system_settings ORDER BY created_at ASC LIMIT 1`).
		Scan(&s.ID, &s.SiteName, &s.LogoURL, &s.CompanyName, &s.Language, &s.Timezone, &s.SlideshowInterval,
			&s.AutoCheckoutTime, &s.MaxUploadSize, &s.TabletDisplayMode, &s.VisitorDisplayLimit,
			&s.EnableNotifications, &s.EnableAutoCheckout, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SystemSettings{}, ErrNotFound
	}
	if err != nil {
		return SystemSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, ValidateSettings(s)
}

func (r *SQLRepository) InsertSettings(ctx context.Context, s SystemSettings) (SystemSettings, error) {
	if err := ValidateSettings(s); err != nil {
		return SystemSettings{}, err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_settings (`+settingsColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, s.ID, s.SiteName, s.LogoURL, s.CompanyName, s.Language, s.Timezone, s.SlideshowInterval,
		s.AutoCheckoutTime, s.MaxUploadSize, s.TabletDisplayMode, s.VisitorDisplayLimit,
		s.EnableNotifications, s.EnableAutoCheckout, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return SystemSettings{}, fmt.Errorf("insert settings: %w", err)
	}
	return s, nil
}

func (r *SQLRepository) UpdateSettings(ctx context.Context, s SystemSettings) (SystemSettings, error) {
	if err := ValidateSettings(s); err != nil {
		return SystemSettings{}, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE system_settings
		SET site_name = $1, logo_url = $2, company_name = $3, language = $4, timezone = $5,
		    slideshow_interval = $6, auto_checkout_time = $7, max_upload_size = $8,
		    tablet_display_mode = $9, visitor_display_limit = $10, enable_notifications = $11,
		    enable_auto_checkout = $12, updated_at = $13
		WHERE id = $14
	`, s.SiteName, s.LogoURL, s.CompanyName, s.Language, s.Timezone,
		s.SlideshowInterval, s.AutoCheckoutTime, s.MaxUploadSize,
		s.TabletDisplayMode, s.VisitorDisplayLimit, s.EnableNotifications,
		s.EnableAutoCheckout, s.UpdatedAt, s.ID)
	if err != nil {
		return SystemSettings{}, fmt.Errorf("update settings: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return SystemSettings{}, ErrNotFound
	}
	return s, nil
}
