package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTokenNotFound = errors.New("refresh token not found")
)

// User is an administrator account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken is a stored refresh token, checked on rotation.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
}

// Repository persists admin users and refresh tokens.
type Repository interface {
	UserByEmail(ctx context.Context, email string) (User, error)
	InsertUser(ctx context.Context, u User) error
	SaveRefreshToken(ctx context.Context, t RefreshToken) error
	RefreshToken(ctx context.Context, token string) (RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// SQLRepository stores accounts in Postgres or SQLite.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at FROM admin_users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *SQLRepository) InsertUser(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *SQLRepository) SaveRefreshToken(ctx context.Context, t RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at, revoked)
		VALUES ($1, $2, $3, $4)
	`, t.Token, t.UserID, t.ExpiresAt, t.Revoked)
	return err
}

func (r *SQLRepository) RefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	var t RefreshToken
	err := r.db.QueryRowContext(ctx, `SELECT token, user_id, expires_at, revoked FROM refresh_tokens WHERE token = $1`, token).
		Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.Revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return RefreshToken{}, ErrTokenNotFound
	}
	return t, err
}

// RevokeRefreshToken marks a token revoked.
func (r *SQLRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = $1 WHERE token = $2`, true, token)
	return err
}

// MemoryRepository is used in demo mode.
type MemoryRepository struct {
	mu     sync.Mutex
	users  map[string]User
	tokens map[string]RefreshToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: map[string]User{}, tokens: map[string]RefreshToken{}}
}

func (r *MemoryRepository) UserByEmail(_ context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryRepository) InsertUser(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return fmt.Errorf("insert user: %s exists", u.Email)
	}
	r.users[u.Email] = u
	return nil
}

func (r *MemoryRepository) SaveRefreshToken(_ context.Context, t RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = t
	return nil
}

func (r *MemoryRepository) RefreshToken(_ context.Context, token string) (RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return RefreshToken{}, ErrTokenNotFound
	}
	return t, nil
}

func (r *MemoryRepository) RevokeRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		t.Revoked = true
		r.tokens[token] = t
	}
	return nil
}
