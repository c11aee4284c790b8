package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"frontdesk/internal/i18n"
	"frontdesk/internal/slideshow"
)

func (h *Handler) listSlides(c *gin.Context) {
	items, err := h.slides.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	if items == nil {
		items = []slideshow.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"slides": items})
}

func (h *Handler) createSlide(c *gin.Context) {
	var in slideshow.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	it, err := h.slides.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slide": it, "message": h.notice(c, i18n.SlideSaved)})
}

func (h *Handler) updateSlide(c *gin.Context) {
	var in slideshow.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	it, err := h.slides.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slide": it, "message": h.notice(c, i18n.SlideSaved)})
}

func (h *Handler) deleteSlide(c *gin.Context) {
	if err := h.slides.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.notice(c, i18n.SlideDeleted)})
}

func (h *Handler) toggleSlide(c *gin.Context) {
	it, err := h.slides.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slide": it, "message": h.notice(c, i18n.SlideSaved)})
}

type moveRequest struct {
	Direction slideshow.Direction `json:"direction" binding:"required"`
}

func (h *Handler) moveSlide(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	items, err := h.slides.Move(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slides": items, "message": h.notice(c, i18n.OrderChanged)})
}
