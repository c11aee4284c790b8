package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"frontdesk/internal/auth"
	"frontdesk/internal/cloudinary"
	"frontdesk/internal/i18n"
	"frontdesk/internal/siteconfig"
	"frontdesk/internal/slideshow"
	"frontdesk/internal/visitor"
)

// Uploader stores images and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, kind cloudinary.Kind, r io.Reader, filename string) (*cloudinary.UploadResult, error)
	UploadDataURL(ctx context.Context, kind cloudinary.Kind, data string) (*cloudinary.UploadResult, error)
}

// Checker reports whether a backing service is reachable.
type Checker interface {
	Healthy(ctx context.Context) bool
}

// Deps are the services the API is built on. Uploads, DB and Redis may be nil.
type Deps struct {
	Visitors *visitor.Service
	Slides   *slideshow.Service
	Site     *siteconfig.Service
	Auth     *auth.Service
	Uploads  Uploader
	DB       Checker
	Redis    Checker
	Log      zerolog.Logger

	// DisplayRefresh is how often the display stream resends visitors.
	DisplayRefresh time.Duration
}

// Handler serves the HTTP API.
type Handler struct {
	visitors *visitor.Service
	slides   *slideshow.Service
	site     *siteconfig.Service
	auth     *auth.Service
	uploads  Uploader
	db       Checker
	redis    Checker
	log      zerolog.Logger
	refresh  time.Duration
}

func New(d Deps) *Handler {
	if d.DisplayRefresh <= 0 {
		d.DisplayRefresh = 30 * time.Second
	}
	return &Handler{
		visitors: d.Visitors,
		slides:   d.Slides,
		site:     d.Site,
		auth:     d.Auth,
		uploads:  d.Uploads,
		db:       d.DB,
		redis:    d.Redis,
		log:      d.Log.With().Str("component", "http").Logger(),
		refresh:  d.DisplayRefresh,
	}
}

func (h *Handler) healthz(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealthy := h.db == nil || h.db.Healthy(ctx)
	redisHealthy := h.redis == nil || h.redis.Healthy(ctx)
	status := http.StatusOK
	if !redisHealthy || !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
}

// notice localizes key for the caller: Accept-Language first, then the settings language.
func (h *Handler) notice(c *gin.Context, key i18n.Key) string {
	fallback := ""
	if st, err := h.site.Settings(c.Request.Context()); err == nil {
		fallback = st.Language
	}
	return i18n.Message(i18n.Negotiate(c.GetHeader("Accept-Language"), fallback), key)
}

func (h *Handler) abort(c *gin.Context, status int, code string, key i18n.Key) {
	c.AbortWithStatusJSON(status, gin.H{"error": h.notice(c, key), "code": code})
}

// fail maps service errors to responses. fallback is the notice for unexpected errors.
func (h *Handler) fail(c *gin.Context, err error, fallback i18n.Key) {
	switch {
	case errors.Is(err, visitor.ErrNameRequired):
		h.abort(c, http.StatusBadRequest, "name_required", i18n.NameRequired)
	case errors.Is(err, visitor.ErrNotFound):
		h.abort(c, http.StatusNotFound, "not_found", i18n.VisitorNotFound)
	case errors.Is(err, visitor.ErrAlreadyCheckedOut):
		h.abort(c, http.StatusConflict, "already_checked_out", i18n.AlreadyCheckedOut)
	case errors.Is(err, slideshow.ErrNotFound):
		h.abort(c, http.StatusNotFound, "not_found", i18n.SlideNotFound)
	case errors.Is(err, slideshow.ErrInvalidInput),
		errors.Is(err, slideshow.ErrInvalidDirection),
		errors.Is(err, siteconfig.ErrInvalidRecord),
		errors.Is(err, cloudinary.ErrUnknownKind):
		_ = c.Error(err)
		h.abort(c, http.StatusBadRequest, "invalid_input", i18n.InvalidInput)
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.abort(c, http.StatusUnauthorized, "invalid_credentials", i18n.InvalidCredentials)
	case errors.Is(err, auth.ErrInvalidToken):
		h.abort(c, http.StatusUnauthorized, "invalid_token", i18n.InvalidToken)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		h.abort(c, http.StatusInternalServerError, "internal", fallback)
	}
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	h.abort(c, http.StatusBadRequest, "invalid_input", i18n.InvalidInput)
}

// location is the settings timezone for stats and exports.
func (h *Handler) location(c *gin.Context) *time.Location {
	return h.site.Location(c.Request.Context())
}

func queryInt(c *gin.Context, name string, def int) int {
	if v := c.Query(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
