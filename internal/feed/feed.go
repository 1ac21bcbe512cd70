package feed

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wedding-memories/internal/models"
)

// Feed publishes submission changes to local clients and, when a relay is
// attached, to the other instances.
type Feed struct {
	hub    *Hub
	relay  *Relay
	origin string
	log    zerolog.Logger
}

func New(hub *Hub, log zerolog.Logger) *Feed {
	return &Feed{
		hub:    hub,
		origin: uuid.NewString(),
		log:    log.With().Str("component", "feed").Logger(),
	}
}

// Origin identifies this instance on the relay.
func (f *Feed) Origin() string { return f.origin }

// Hub returns the local websocket hub.
func (f *Feed) Hub() *Hub { return f.hub }

// AttachRelay forwards every published event to r.
func (f *Feed) AttachRelay(r *Relay) { f.relay = r }

// Publish stamps ev with this instance and delivers it.
func (f *Feed) Publish(ev models.ChangeEvent) {
	ev.Origin = f.origin
	if ev.Table == "" {
		ev.Table = models.SubmissionsTable
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	f.hub.Broadcast(ev)
	if f.relay == nil {
		return
	}
	if err := f.relay.Publish(ev); err != nil {
		f.log.Warn().Err(err).Str("type", string(ev.Type)).Str("id", ev.RecordID()).Msg("Relay publish failed")
	}
}
