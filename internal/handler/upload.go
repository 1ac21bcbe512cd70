package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"wedding-memories/internal/media"
)

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

const multipartOverhead = 1 << 20

// Upload stores a guest photo and returns its URL.
func (h *Handler) Upload(c *gin.Context) {
	limit := h.maxUploadBytes + multipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || c.Request.ContentLength > limit {
			badRequest(c, h.tooLargeMessage())
			return
		}
		badRequest(c, "No file provided")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		badRequest(c, "Empty file received. Please try again.")
		return
	}
	if header.Size > h.maxUploadBytes {
		badRequest(c, h.tooLargeMessage())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read upload")
		errorJSON(c, http.StatusInternalServerError, "Upload failed. Please try again.")
		return
	}
	if len(data) == 0 {
		badRequest(c, "Empty file received. Please try again.")
		return
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), imageTypes...) {
		h.log.Info().Str("detected", mt.String()).Str("declared", header.Header.Get("Content-Type")).Msg("Rejected upload")
		badRequest(c, "Invalid file type. Please upload an image (JPEG, PNG, GIF, or WebP).")
		return
	}

	up, err := h.photos.Put(c.Request.Context(), data)
	if errors.Is(err, media.ErrInvalidImage) {
		badRequest(c, "Invalid image file. Please try a different photo or take a new one.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Photo upload failed")
		errorJSON(c, http.StatusInternalServerError, "Upload failed. Please try again.")
		return
	}

	up.URL = absoluteURL(h.publicBaseURL, up.URL)
	h.log.Info().Str("public_id", up.PublicID).Str("size", humanize.IBytes(uint64(len(data)))).Msg("Photo uploaded")
	c.JSON(http.StatusOK, up)
}

// absoluteURL resolves a root-relative media URL against the public site
// address so it passes submission intake.
func absoluteURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func (h *Handler) tooLargeMessage() string {
	return "File too large. Maximum size is " + humanize.IBytes(uint64(h.maxUploadBytes)) + "."
}
