package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"frontdesk/internal/i18n"
	"frontdesk/internal/siteconfig"
)

func (h *Handler) publicSettings(c *gin.Context) {
	st, err := h.site.Settings(c.Request.Context())
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	c.JSON(http.StatusOK, st.Public())
}

func (h *Handler) settings(c *gin.Context) {
	st, err := h.site.Settings(c.Request.Context())
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) saveSettings(c *gin.Context) {
	var st siteconfig.SystemSettings
	if err := c.ShouldBindJSON(&st); err != nil {
		h.badRequest(c, err)
		return
	}
	saved, err := h.site.SaveSettings(c.Request.Context(), st)
	if err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": saved, "message": h.notice(c, i18n.SettingsSaved)})
}

func (h *Handler) layout(c *gin.Context) {
	l, err := h.site.Layout(c.Request.Context())
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) saveLayout(c *gin.Context) {
	var l siteconfig.LayoutConfig
	if err := c.ShouldBindJSON(&l); err != nil {
		h.badRequest(c, err)
		return
	}
	saved, err := h.site.SaveLayout(c.Request.Context(), l)
	if err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"layout": saved, "message": h.notice(c, i18n.LayoutSaved)})
}
