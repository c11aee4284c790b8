package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"frontdesk/internal/cloudinary"
	"frontdesk/internal/i18n"
)

type dataURLUpload struct {
	Data string `json:"data" binding:"required"`
	Kind string `json:"kind"`
}

// upload stores a slide, logo or background image. Accepts a multipart "file"
// field or a JSON body carrying a base64 data URL.
func (h *Handler) upload(c *gin.Context) {
	if h.uploads == nil {
		h.abort(c, http.StatusServiceUnavailable, "upload_unavailable", i18n.UploadUnavailable)
		return
	}
	limit := int64(10)
	if st, err := h.site.Settings(c.Request.Context()); err == nil && st.MaxUploadSize > 0 {
		limit = int64(st.MaxUploadSize)
	}
	// data URLs grow by a third when base64 encoded
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit<<20*4/3+4096)

	var (
		result *cloudinary.UploadResult
		err    error
	)
	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			h.uploadReadError(c, ferr)
			return
		}
		defer file.Close()
		kind, kerr := cloudinary.ParseKind(c.Request.FormValue("kind"))
		if kerr != nil {
			h.fail(c, kerr, i18n.UploadFailed)
			return
		}
		if header.Size > limit<<20 {
			h.abort(c, http.StatusRequestEntityTooLarge, "too_large", i18n.UploadTooLarge)
			return
		}
		result, err = h.uploads.Upload(c.Request.Context(), kind, file, header.Filename)
	} else {
		var body dataURLUpload
		if berr := c.ShouldBindJSON(&body); berr != nil {
			h.uploadReadError(c, berr)
			return
		}
		if !strings.HasPrefix(body.Data, "data:image/") {
			h.abort(c, http.StatusBadRequest, "invalid_input", i18n.InvalidInput)
			return
		}
		kind, kerr := cloudinary.ParseKind(body.Kind)
		if kerr != nil {
			h.fail(c, kerr, i18n.UploadFailed)
			return
		}
		result, err = h.uploads.UploadDataURL(c.Request.Context(), kind, body.Data)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("image upload failed")
		h.abort(c, http.StatusBadGateway, "upload_failed", i18n.UploadFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       result.SecureURL,
		"public_id": result.PublicID,
		"width":     result.Width,
		"height":    result.Height,
		"bytes":     result.Bytes,
	})
}

func (h *Handler) uploadReadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.abort(c, http.StatusRequestEntityTooLarge, "too_large", i18n.UploadTooLarge)
		return
	}
	h.badRequest(c, err)
}
