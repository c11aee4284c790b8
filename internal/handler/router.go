package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"frontdesk/internal/auth"
	"frontdesk/internal/httpmiddleware"
)

// RouterConfig carries the HTTP-level settings of the API.
type RouterConfig struct {
	CORSOrigins     []string
	RateLimitPerMin int
	JWTSigningKey   string
	JWTIssuer       string
}

// NewRouter mounts every route on a fresh gin engine.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.Logger(h.log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.Metrics())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.Use(httpmiddleware.SecurityHeaders())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.healthz)

	v1 := r.Group("/v1")
	if cfg.RateLimitPerMin > 0 {
		v1.Use(httpmiddleware.NewIPRateLimiter(cfg.RateLimitPerMin).GinMiddleware())
	}
	{
		v1.POST("/visitors", h.checkIn)
		v1.GET("/visitors/active", h.activeVisitors)
		v1.POST("/visitors/:id/checkout", h.checkOut)

		v1.GET("/display", h.display)
		v1.GET("/display/stream", h.displayStream)
		v1.GET("/settings/public", h.publicSettings)
		v1.GET("/layout", h.layout)

		v1.POST("/auth/login", h.login)
		v1.POST("/auth/refresh", h.refreshToken)
		v1.POST("/auth/logout", h.logout)
	}

	admin := v1.Group("/admin", auth.RequireAdmin(cfg.JWTSigningKey, cfg.JWTIssuer))
	{
		admin.GET("/dashboard", h.dashboard)
		admin.GET("/visitors", h.listVisitors)
		admin.GET("/visitors/export", h.exportVisitors)
		admin.POST("/visitors/:id/checkout", h.checkOut)

		admin.GET("/slides", h.listSlides)
		admin.POST("/slides", h.createSlide)
		admin.PUT("/slides/:id", h.updateSlide)
		admin.DELETE("/slides/:id", h.deleteSlide)
		admin.POST("/slides/:id/toggle", h.toggleSlide)
		admin.POST("/slides/:id/move", h.moveSlide)

		admin.GET("/layout", h.layout)
		admin.PUT("/layout", h.saveLayout)
		admin.GET("/settings", h.settings)
		admin.PUT("/settings", h.saveSettings)

		admin.POST("/uploads", h.upload)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": "not_found"})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", httpmiddleware.RequestIDHeader},
		ExposeHeaders: []string{httpmiddleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
