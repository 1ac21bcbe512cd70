// Package handler implements the HTTP API.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/auth"
	"wedding-memories/internal/feed"
	"wedding-memories/internal/intake"
	"wedding-memories/internal/media"
	"wedding-memories/internal/models"
	"wedding-memories/internal/moderation"
	"wedding-memories/internal/notify"
	"wedding-memories/internal/stats"
)

// Store is the persistence the handlers write through.
type Store interface {
	CreateSubmission(ctx context.Context, in intake.NewSubmission) (models.Submission, error)
	CreateRSVP(ctx context.Context, in intake.NewRSVP) (models.RSVP, error)
	GetMusicSettings(ctx context.Context) (models.MusicSettings, error)
	SaveMusicSettings(ctx context.Context, m models.MusicSettings) error
	Ping(ctx context.Context) error
}

type Deps struct {
	Store          Store
	Photos         media.Store
	Gate           *auth.Gate
	Wall           *stats.Wall
	Guestbook      *stats.Guestbook
	Moderation     *moderation.Coordinator
	Feed           *feed.Feed
	Notifier       notify.Notifier
	PublicBaseURL  string
	MaxUploadBytes int64
	Log            zerolog.Logger
}

type Handler struct {
	store          Store
	photos         media.Store
	gate           *auth.Gate
	wall           *stats.Wall
	guestbook      *stats.Guestbook
	moderation     *moderation.Coordinator
	feed           *feed.Feed
	notifier       notify.Notifier
	publicBaseURL  string
	maxUploadBytes int64
	log            zerolog.Logger
}

func New(d Deps) *Handler {
	if d.Notifier == nil {
		d.Notifier = notify.Noop{}
	}
	return &Handler{
		store:          d.Store,
		photos:         d.Photos,
		gate:           d.Gate,
		wall:           d.Wall,
		guestbook:      d.Guestbook,
		moderation:     d.Moderation,
		feed:           d.Feed,
		notifier:       d.Notifier,
		publicBaseURL:  d.PublicBaseURL,
		maxUploadBytes: d.MaxUploadBytes,
		log:            d.Log.With().Str("component", "http").Logger(),
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/upload", h.Upload)

		api.GET("/music", h.GetMusic)
		api.POST("/music", h.UpdateMusic)

		api.GET("/rsvp", h.ListRSVPs)
		api.POST("/rsvp", h.CreateRSVP)
		api.DELETE("/rsvp", h.DeleteRSVP)

		api.POST("/submissions", h.CreateSubmission)
		api.GET("/submissions", h.ListSubmissions)

		api.GET("/qr", h.QRCode)
		api.GET("/qr/codes", h.QRCodes)

		api.GET("/feed", h.Feed)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/verify", h.Verify)
		admin.GET("/submissions", h.AdminSubmissions)
		admin.DELETE("/submissions", h.DeleteSubmission)
	}
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type passwordRequest struct {
	Password string `json:"password"`
}

// Verify lets the admin page check a password before showing itself.
func (h *Handler) Verify(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if err := h.gate.Check(req.Password); err != nil {
		unauthorized(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// authorize checks the password query parameter and writes 401 on failure.
func (h *Handler) authorize(c *gin.Context) bool {
	if err := h.gate.Check(c.Query("password")); err != nil {
		unauthorized(c)
		return false
	}
	return true
}

// tableParam reads an optional positive table query parameter.
func tableParam(c *gin.Context) (*int, error) {
	raw := strings.TrimSpace(c.Query("table"))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return nil, apperr.Validation("invalid table")
	}
	return &n, nil
}
