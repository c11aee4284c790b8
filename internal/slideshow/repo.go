package slideshow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Filter selects slides for List. Results are ordered by order ascending.
type Filter struct {
	ActiveOnly bool
}

// Repository is the data-access contract for slides.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Insert(ctx context.Context, it Item) (Item, error)
	Update(ctx context.Context, it Item) (Item, error)
	Delete(ctx context.Context, id string) error
	// Reorder sets the order of several slides at once. Either every slide
	// is updated or none is.
	Reorder(ctx context.Context, orders map[string]int, at time.Time) error
}

const itemColumns = `id, title, content, image_url, display_time, is_active, "order", background_color, text_color, created_at, updated_at`

// SQLRepository persists slides in Postgres or SQLite.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a repo.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Title, &it.Content, &it.ImageURL, &it.DisplayTime, &it.IsActive,
		&it.Order, &it.BackgroundColor, &it.TextColor, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return Item{}, err
	}
	return it, Validate(it)
}

func (r *SQLRepository) List(ctx context.Context, f Filter) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM slideshow_items`
	args := []any{}
	if f.ActiveOnly {
		args = append(args, true)
		query += ` WHERE is_active = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY "order" ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	defer rows.Close()

	var res []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

func (r *SQLRepository) Get(ctx context.Context, id string) (Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM slideshow_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return it, err
}

func (r *SQLRepository) Insert(ctx context.Context, it Item) (Item, error) {
	if err := Validate(it); err != nil {
		return Item{}, err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO slideshow_items (id, title, content, image_url, display_time, is_active, "order", background_color, text_color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, it.ID, it.Title, it.Content, it.ImageURL, it.DisplayTime, it.IsActive, it.Order, it.BackgroundColor, it.TextColor, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return Item{}, fmt.Errorf("insert slide: %w", err)
	}
	return it, nil
}

func (r *SQLRepository) Update(ctx context.Context, it Item) (Item, error) {
	if err := Validate(it); err != nil {
		return Item{}, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE slideshow_items
		SET title = $1, content = $2, image_url = $3, display_time = $4, is_active = $5, "order" = $6,
		    background_color = $7, text_color = $8, updated_at = $9
		WHERE id = $10
	`, it.Title, it.Content, it.ImageURL, it.DisplayTime, it.IsActive, it.Order, it.BackgroundColor, it.TextColor, it.UpdatedAt, it.ID)
	if err != nil {
		return Item{}, fmt.Errorf("update slide: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM slideshow_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slide: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) Reorder(ctx context.Context, orders map[string]int, at time.Time) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reorder slides: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, id := range sortedIDs(orders) {
		res, err := tx.ExecContext(ctx, `UPDATE slideshow_items SET "order" = $1, updated_at = $2 WHERE id = $3`, orders[id], at, id)
		if err != nil {
			return fmt.Errorf("reorder slide %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder slides: %w", err)
	}
	return nil
}

func sortedIDs(orders map[string]int) []string {
	ids := make([]string, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
