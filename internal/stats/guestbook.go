package stats

import (
	"context"
	"sync"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/models"
)

// RSVPSource lists stored RSVPs, newest first.
type RSVPSource interface {
	ListRSVPs(ctx context.Context) ([]models.RSVP, error)
}

// Guestbook is the admin projection of RSVPs.
type Guestbook struct {
	src RSVPSource

	mu      sync.RWMutex
	items   *collection[models.RSVP]
	stats   RSVPStats
	reloads journal[models.RSVP]
}

type GuestbookSnapshot struct {
	RSVPs []models.RSVP `json:"rsvps"`
	Stats RSVPStats     `json:"stats"`
}

func NewGuestbook(src RSVPSource) *Guestbook {
	return &Guestbook{src: src, items: newCollection[models.RSVP]()}
}

// Reload replaces the guestbook with a fresh fetch, keeping the previous
// contents on failure. It merges like Wall.Reload.
func (g *Guestbook) Reload(ctx context.Context) error {
	g.mu.Lock()
	gen := g.reloads.begin()
	g.mu.Unlock()

	rsvps, err := g.src.ListRSVPs(ctx)
	if rsvps == nil {
		rsvps = []models.RSVP{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.reloads.finish(gen, nil, g.items)
		return apperr.Upstream("reload guestbook", err)
	}
	if g.reloads.finish(gen, rsvps, g.items) {
		g.stats = ComputeRSVPStats(g.items.items)
	}
	return nil
}

func (g *Guestbook) Insert(r models.RSVP) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.items.insert(r) {
		return false
	}
	g.reloads.inserted(r)
	g.stats.apply(r, 1)
	return true
}

func (g *Guestbook) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.items.remove(id)
	if ok {
		g.reloads.removed(id)
		g.stats.apply(r, -1)
	}
	return ok
}

func (g *Guestbook) Snapshot() GuestbookSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return GuestbookSnapshot{RSVPs: g.items.snapshot(), Stats: g.stats}
}
