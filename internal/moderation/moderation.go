// Package moderation applies admin deletions to storage and to the live
// projections.
package moderation

import (
	"context"

	"github.com/rs/zerolog"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/media"
	"wedding-memories/internal/models"
	"wedding-memories/internal/stats"
)

// Store is the subset of storage the coordinator needs.
type Store interface {
	GetSubmission(ctx context.Context, id string) (models.Submission, error)
	DeleteSubmission(ctx context.Context, id string) error
	DeleteRSVP(ctx context.Context, id string) error
}

// Publisher announces changes to live readers.
type Publisher interface {
	Publish(ev models.ChangeEvent)
}

type Coordinator struct {
	store     Store
	photos    media.Store
	wall      *stats.Wall
	guestbook *stats.Guestbook
	pub       Publisher
	log       zerolog.Logger
}

func NewCoordinator(store Store, photos media.Store, wall *stats.Wall, guestbook *stats.Guestbook, pub Publisher, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:     store,
		photos:    photos,
		wall:      wall,
		guestbook: guestbook,
		pub:       pub,
		log:       log.With().Str("component", "moderation").Logger(),
	}
}

// DeleteSubmission removes a blessing and its photo. A photo that cannot be
// removed is logged and skipped; a failed row delete leaves the wall as is.
func (c *Coordinator) DeleteSubmission(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("submission id required")
	}

	sub, err := c.store.GetSubmission(ctx, id)
	if err != nil {
		return err
	}

	name := media.FileName(sub.PhotoURL)
	if err := c.photos.Delete(ctx, name); err != nil {
		c.log.Warn().Err(err).Str("id", id).Str("photo", name).Msg("Photo delete failed, removing submission anyway")
	}

	if err := c.store.DeleteSubmission(ctx, id); err != nil {
		return apperr.Upstream("delete submission", err)
	}

	c.wall.Remove(id)
	if c.pub != nil {
		c.pub.Publish(models.ChangeEvent{
			Type:  models.ChangeDelete,
			Table: models.SubmissionsTable,
			OldID: id,
		})
	}
	c.log.Info().Str("id", id).Msg("Submission deleted")
	return nil
}

// DeleteRSVP removes an RSVP and reloads the guest list from storage.
func (c *Coordinator) DeleteRSVP(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("RSVP ID required")
	}
	if err := c.store.DeleteRSVP(ctx, id); err != nil {
		return apperr.Upstream("delete rsvp", err)
	}
	if err := c.guestbook.Reload(ctx); err != nil {
		c.log.Warn().Err(err).Msg("Guestbook reload failed after delete")
		c.guestbook.Remove(id)
	}
	c.log.Info().Str("id", id).Msg("RSVP deleted")
	return nil
}
