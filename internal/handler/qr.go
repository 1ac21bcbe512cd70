package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wedding-memories/internal/qr"
)

const maxTables = 200

// QRCode renders the submission link for a table as PNG.
func (h *Handler) QRCode(c *gin.Context) {
	table, err := tableParam(c)
	if err != nil {
		badRequest(c, "invalid table")
		return
	}
	size := 0
	if raw := c.Query("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			badRequest(c, "invalid size")
			return
		}
	}

	n := 0
	if table != nil {
		n = *table
	}
	code := qr.ForTable(h.publicBaseURL, n)
	png, err := qr.PNG(code.URL, size)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render QR code")
		errorJSON(c, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+code.FileName+`"`)
	c.Data(http.StatusOK, "image/png", png)
}

// QRCodes lists the general code and one code per table.
func (h *Handler) QRCodes(c *gin.Context) {
	tables, err := strconv.Atoi(c.DefaultQuery("tables", "0"))
	if err != nil || tables < 0 || tables > maxTables {
		badRequest(c, "invalid tables")
		return
	}
	c.JSON(http.StatusOK, gin.H{"codes": qr.Batch(h.publicBaseURL, tables, true)})
}
