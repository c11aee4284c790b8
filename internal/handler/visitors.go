package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"frontdesk/internal/i18n"
	"frontdesk/internal/visitor"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) checkIn(c *gin.Context) {
	var req visitor.CheckInInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	v, err := h.visitors.CheckIn(c.Request.Context(), req, h.location(c))
	if err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"visitor": v, "message": h.notice(c, i18n.CheckedIn)})
}

func (h *Handler) checkOut(c *gin.Context) {
	v, err := h.visitors.CheckOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, i18n.SaveFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitor": v, "message": h.notice(c, i18n.CheckedOut)})
}

func (h *Handler) activeVisitors(c *gin.Context) {
	visitors, err := h.visitors.Active(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitors": nonNil(visitors)})
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.visitors.Dashboard(c.Request.Context(), h.location(c))
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) listVisitors(c *gin.Context) {
	ctx := c.Request.Context()
	limit := queryInt(c, "limit", 0)
	var (
		visitors []visitor.Visitor
		err      error
	)
	if c.Query("active") == "true" {
		visitors, err = h.visitors.Active(ctx, limit)
	} else {
		visitors, err = h.visitors.List(ctx, limit)
	}
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitors": nonNil(visitors)})
}

func (h *Handler) exportVisitors(c *gin.Context) {
	visitors, err := h.visitors.List(c.Request.Context(), 0)
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	loc := h.location(c)
	var buf bytes.Buffer
	if err := visitor.WriteXLSX(&buf, visitors, loc); err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	name := fmt.Sprintf("besucher-%s.xlsx", time.Now().In(loc).Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func nonNil(v []visitor.Visitor) []visitor.Visitor {
	if v == nil {
		return []visitor.Visitor{}
	}
	return v
}
