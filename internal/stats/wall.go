package stats

import (
	"context"
	"sync"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/models"
)

// SubmissionSource lists stored blessings, newest first.
// A nil table lists every table.
type SubmissionSource interface {
	ListSubmissions(ctx context.Context, table *int) ([]models.Submission, error)
}

// Wall is the live projection of the blessings wall.
type Wall struct {
	src   SubmissionSource
	table *int

	mu      sync.RWMutex
	items   *collection[models.Submission]
	stats   SubmissionStats
	reloads journal[models.Submission]
}

// WallSnapshot is a consistent copy of a wall.
type WallSnapshot struct {
	Submissions []models.Submission `json:"submissions"`
	Stats       SubmissionStats     `json:"stats"`
	Tables      []int               `json:"tables"`
}

// NewWall creates an empty wall. When table is set, only blessings for that
// table are kept.
func NewWall(src SubmissionSource, table *int) *Wall {
	return &Wall{
		src:   src,
		table: table,
		items: newCollection[models.Submission](),
		stats: ComputeSubmissionStats(nil),
	}
}

// Reload replaces the wall with a fresh fetch. Changes made while the fetch
// runs are kept, and a fetch older than the one already applied is dropped.
// On failure the previous contents are kept.
func (w *Wall) Reload(ctx context.Context) error {
	w.mu.Lock()
	gen := w.reloads.begin()
	w.mu.Unlock()

	subs, err := w.src.ListSubmissions(ctx, w.table)
	if subs == nil {
		subs = []models.Submission{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.reloads.finish(gen, nil, w.items)
		return apperr.Upstream("reload wall", err)
	}
	if w.reloads.finish(gen, subs, w.items) {
		w.stats = ComputeSubmissionStats(w.items.items)
	}
	return nil
}

// Insert adds a blessing. It reports false when the blessing is outside the
// wall's table or already present.
func (w *Wall) Insert(s models.Submission) bool {
	if !s.InTable(w.table) {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.items.insert(s) {
		return false
	}
	w.reloads.inserted(s)
	w.stats.add(s)
	return true
}

// Remove drops a blessing and decrements its counters.
func (w *Wall) Remove(id string) (models.Submission, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.items.remove(id)
	if ok {
		w.reloads.removed(id)
		w.stats.remove(s)
	}
	return s, ok
}

// Apply merges a change-feed event. Deletes from the feed recompute the
// counters over the remaining blessings.
func (w *Wall) Apply(ev models.ChangeEvent) bool {
	switch ev.Type {
	case models.ChangeInsert:
		if ev.New == nil {
			return false
		}
		return w.Insert(*ev.New)
	case models.ChangeDelete:
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, ok := w.items.remove(ev.OldID); !ok {
			return false
		}
		w.reloads.removed(ev.OldID)
		w.stats = ComputeSubmissionStats(w.items.items)
		return true
	}
	return false
}

// Snapshot copies the wall.
func (w *Wall) Snapshot() WallSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st := w.stats.clone()
	return WallSnapshot{
		Submissions: w.items.snapshot(),
		Stats:       st,
		Tables:      st.Tables(),
	}
}

// View copies the blessings of one table. Tables still lists every table
// known to the wall so readers can switch between them.
func (w *Wall) View(table *int) WallSnapshot {
	snap := w.Snapshot()
	if table == nil {
		return snap
	}
	subs := make([]models.Submission, 0)
	for _, s := range snap.Submissions {
		if s.InTable(table) {
			subs = append(subs, s)
		}
	}
	return WallSnapshot{
		Submissions: subs,
		Stats:       ComputeSubmissionStats(subs),
		Tables:      snap.Tables,
	}
}
