package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/intake"
	"wedding-memories/internal/models"
)

const notifyTimeout = 30 * time.Second

// RecordRSVP validates and stores an RSVP, adds it to the guest list and
// notifies the guest in the background.
func (h *Handler) RecordRSVP(ctx context.Context, in intake.RSVPInput) (models.RSVP, error) {
	valid, err := intake.RSVP(in)
	if err != nil {
		return models.RSVP{}, err
	}
	r, err := h.store.CreateRSVP(ctx, valid)
	if err != nil {
		return models.RSVP{}, apperr.Upstream("create rsvp", err)
	}
	h.guestbook.Insert(r)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		h.notifier.RSVPReceived(ctx, r)
	}()
	return r, nil
}

func (h *Handler) CreateRSVP(c *gin.Context) {
	var in intake.RSVPInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	r, err := h.RecordRSVP(c.Request.Context(), in)
	if msg, ok := validationMessage(err); ok {
		badRequest(c, msg)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create RSVP")
		errorDetails(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	h.log.Info().Str("id", r.ID).Str("attendance", r.Attendance.String()).Int("guests", r.GuestCount).Msg("RSVP created")
	c.JSON(http.StatusOK, gin.H{"success": true, "rsvp": r})
}

// ListRSVPs returns every RSVP with its summary, reloaded from storage.
func (h *Handler) ListRSVPs(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	if err := h.guestbook.Reload(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to load RSVPs")
		errorDetails(c, http.StatusInternalServerError, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, h.guestbook.Snapshot())
}

func (h *Handler) DeleteRSVP(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	id := c.Query("id")
	if id == "" {
		badRequest(c, "RSVP ID required")
		return
	}
	if err := h.moderation.DeleteRSVP(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to delete RSVP")
		errorDetails(c, http.StatusInternalServerError, "Database error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
