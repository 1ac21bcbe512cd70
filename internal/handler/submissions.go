package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/intake"
	"wedding-memories/internal/models"
)

// CreateSubmission stores a guest blessing and announces it on the feed.
func (h *Handler) CreateSubmission(c *gin.Context) {
	var in intake.SubmissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	valid, err := intake.Submission(in)
	if err != nil {
		msg, _ := validationMessage(err)
		badRequest(c, msg)
		return
	}

	sub, err := h.store.CreateSubmission(c.Request.Context(), valid)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to save submission")
		errorJSON(c, http.StatusInternalServerError, "Failed to save submission")
		return
	}

	if h.wall.Insert(sub) {
		h.feed.Publish(models.ChangeEvent{Type: models.ChangeInsert, New: &sub})
	}
	h.log.Info().Str("id", sub.ID).Str("guest", sub.DisplayName()).Msg("Submission created")
	c.JSON(http.StatusCreated, gin.H{"success": true, "submission": sub})
}

// ListSubmissions serves the blessings wall, optionally for one table.
func (h *Handler) ListSubmissions(c *gin.Context) {
	table, err := tableParam(c)
	if err != nil {
		msg, _ := validationMessage(err)
		badRequest(c, msg)
		return
	}
	if err := h.wall.Reload(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to load submissions")
		errorJSON(c, http.StatusInternalServerError, "Failed to load submissions")
		return
	}
	c.JSON(http.StatusOK, h.wall.View(table))
}

func (h *Handler) AdminSubmissions(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	if err := h.wall.Reload(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to load submissions")
		errorDetails(c, http.StatusInternalServerError, "Failed to load submissions", err)
		return
	}
	c.JSON(http.StatusOK, h.wall.Snapshot())
}

func (h *Handler) DeleteSubmission(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		badRequest(c, "Submission ID required")
		return
	}

	err := h.moderation.DeleteSubmission(c.Request.Context(), id)
	switch apperr.Status(err) {
	case http.StatusOK:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case http.StatusNotFound:
		errorJSON(c, http.StatusNotFound, "Submission not found")
	case http.StatusBadRequest:
		msg, _ := validationMessage(err)
		badRequest(c, msg)
	default:
		h.log.Error().Err(err).Str("id", id).Msg("Failed to delete submission")
		errorDetails(c, http.StatusInternalServerError, "Failed to delete submission", err)
	}
}
