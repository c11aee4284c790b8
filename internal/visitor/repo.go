package visitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Filter selects visitors for List. Results are ordered by start time, newest first.
type Filter struct {
	ActiveOnly bool
	Limit      int
}

// Repository is the data-access contract for visitors.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Visitor, error)
	Get(ctx context.Context, id string) (Visitor, error)
	Insert(ctx context.Context, v Visitor) (Visitor, error)
	// CheckOut ends an active visit. It returns ErrAlreadyCheckedOut without
	// changing anything when the visit already ended.
	CheckOut(ctx context.Context, id string, at time.Time) (Visitor, error)
	// CheckOutAll ends every active visit and returns the visitors it ended.
	CheckOutAll(ctx context.Context, at time.Time) ([]Visitor, error)
}

const visitorColumns = `id, name, company, purpose, host, notes, badge_number, start_time, end_time, is_active, created_at, updated_at`

// SQLRepository persists visitors in Postgres or SQLite.
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

func scanVisitor(row scanner) (Visitor, error) {
	var v Visitor
	if err := row.Scan(&v.ID, &v.Name, &v.Company, &v.Purpose, &v.Host, &v.Notes, &v.BadgeNumber,
		&v.StartTime, &v.EndTime, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return Visitor{}, err
	}
	return v, Validate(v)
}

// List returns visitors matching the filter.
func (r *SQLRepository) List(ctx context.Context, f Filter) ([]Visitor, error) {
	query := `SELECT ` + visitorColumns + ` FROM visitors`
	args := []any{}
	if f.ActiveOnly {
		args = append(args, true)
		query += ` WHERE is_active = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY start_time DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var res []Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

// Get returns a single visitor by id.
func (r *SQLRepository) Get(ctx context.Context, id string) (Visitor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+visitorColumns+` FROM visitors WHERE id = $1`, id)
	v, err := scanVisitor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Visitor{}, ErrNotFound
	}
	return v, err
}

// Insert writes a new visitor.
func (r *SQLRepository) Insert(ctx context.Context, v Visitor) (Visitor, error) {
	if err := Validate(v); err != nil {
		return Visitor{}, err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visitors (id, name, company, purpose, host, notes, badge_number, start_time, end_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, v.ID, v.Name, v.Company, v.Purpose, v.Host, v.Notes, v.BadgeNumber, v.StartTime, v.EndTime, v.IsActive, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return Visitor{}, fmt.Errorf("insert visitor: %w", err)
	}
	return v, nil
}

// CheckOut sets end_time and clears the active flag of an active visitor.
func (r *SQLRepository) CheckOut(ctx context.Context, id string, at time.Time) (Visitor, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE visitors
		SET end_time = $1, is_active = $2, updated_at = $3
		WHERE id = $4 AND is_active = $5
	`, at, false, at, id, true)
	if err != nil {
		return Visitor{}, fmt.Errorf("checkout visitor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Visitor{}, fmt.Errorf("checkout visitor: %w", err)
	}

	v, err := r.Get(ctx, id)
	if err != nil {
		return Visitor{}, err
	}
	if n == 0 {
		return v, ErrAlreadyCheckedOut
	}
	return v, nil
}

// CheckOutAll ends every active visit in one transaction. A visitor checked out
// concurrently is skipped and not returned.
func (r *SQLRepository) CheckOutAll(ctx context.Context, at time.Time) (_ []Visitor, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("checkout all visitors: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `SELECT `+visitorColumns+` FROM visitors WHERE is_active = $1 ORDER BY start_time DESC`, true)
	if err != nil {
		return nil, fmt.Errorf("checkout all visitors: %w", err)
	}
	var active []Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		active = append(active, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkout all visitors: %w", err)
	}

	var ended []Visitor
	for _, v := range active {
		res, err := tx.ExecContext(ctx, `
			UPDATE visitors
			SET end_time = $1, is_active = $2, updated_at = $3
			WHERE id = $4 AND is_active = $5
		`, at, false, at, v.ID, true)
		if err != nil {
			return nil, fmt.Errorf("checkout visitor %s: %w", v.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			continue
		}
		end := at
		v.EndTime, v.IsActive, v.UpdatedAt = &end, false, at
		ended = append(ended, v)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("checkout all visitors: %w", err)
	}
	return ended, nil
}
