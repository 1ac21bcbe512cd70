package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/models"
)

// GetMusic always answers 200; any failure falls back to the defaults.
func (h *Handler) GetMusic(c *gin.Context) {
	settings, err := h.store.GetMusicSettings(c.Request.Context())
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			h.log.Warn().Err(err).Msg("Failed to load music settings, using defaults")
		}
		settings = models.DefaultMusicSettings()
	}
	c.JSON(http.StatusOK, settings)
}

type musicRequest struct {
	Password string `json:"password"`
	Enabled  bool   `json:"enabled"`
	URL      string `json:"url"`
	Title    string `json:"title"`
}

func (h *Handler) UpdateMusic(c *gin.Context) {
	var req musicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.gate.Check(req.Password); err != nil {
		unauthorized(c)
		return
	}

	settings := models.MusicSettings{Enabled: req.Enabled, URL: req.URL, Title: req.Title}
	if err := h.store.SaveMusicSettings(c.Request.Context(), settings); err != nil {
		h.log.Error().Err(err).Msg("Failed to save music settings")
		errorJSON(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
