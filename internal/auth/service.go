package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid refresh token")
)

// Options configure token issuing.
type Options struct {
	Issuer     string
	SigningKey string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Service handles admin login and refresh token rotation.
type Service struct {
	repo Repository
	opts Options
	log  zerolog.Logger
}

func NewService(repo Repository, opts Options, log zerolog.Logger) *Service {
	return &Service{repo: repo, opts: opts, log: log.With().Str("component", "auth").Logger()}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// EnsureAdmin creates the admin account when it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, admin API has no accounts")
		return nil
	}
	if _, err := s.repo.UserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.InsertUser(ctx, User{ID: uuid.NewString(), Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}); err != nil {
		return err
	}
	s.log.Info().Str("email", email).Msg("admin account created")
	return nil
}

// Login checks credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.repo.UserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn().Str("email", u.Email).Msg("invalid password")
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issue(ctx, u.ID)
}

// Refresh rotates a refresh token: the old one is revoked and a new pair issued.
func (s *Service) Refresh(ctx context.Context, token string) (TokenPair, error) {
	claims, err := Parse(token, s.opts.SigningKey, s.opts.Issuer)
	if err != nil || claims.Kind != KindRefresh {
		return TokenPair{}, ErrInvalidToken
	}
	stored, err := s.repo.RefreshToken(ctx, token)
	if errors.Is(err, ErrTokenNotFound) {
		return TokenPair{}, ErrInvalidToken
	}
	if err != nil {
		return TokenPair{}, err
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) || stored.UserID != claims.Subject {
		return TokenPair{}, ErrInvalidToken
	}
	if err := s.repo.RevokeRefreshToken(ctx, token); err != nil {
		return TokenPair{}, err
	}
	return s.issue(ctx, stored.UserID)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.repo.RevokeRefreshToken(ctx, token)
}

func (s *Service) issue(ctx context.Context, userID string) (TokenPair, error) {
	pair, err := Issue(userID, RoleAdmin, s.opts.Issuer, s.opts.SigningKey, s.opts.AccessTTL, s.opts.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.repo.SaveRefreshToken(ctx, RefreshToken{Token: pair.RefreshToken, UserID: userID, ExpiresAt: pair.RefreshExp.UTC()}); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
