package stats

import (
	"sort"
	"time"
)

// keyed is a record with a stable id and a creation time.
type keyed interface {
	Key() string
	Created() time.Time
}

// collection keeps records newest first, at most once per id.
type collection[T keyed] struct {
	items []T
	ids   map[string]struct{}
}

func newCollection[T keyed]() *collection[T] {
	return &collection[T]{ids: make(map[string]struct{})}
}

// before orders by created_at descending, then id descending.
func before[T keyed](a, b T) bool {
	ca, cb := a.Created(), b.Created()
	if !ca.Equal(cb) {
		return ca.After(cb)
	}
	return a.Key() > b.Key()
}

func (c *collection[T]) has(id string) bool {
	_, ok := c.ids[id]
	return ok
}

// insert splices item into position and reports whether it was new.
func (c *collection[T]) insert(item T) bool {
	if c.has(item.Key()) {
		return false
	}
	i := sort.Search(len(c.items), func(i int) bool {
		return before(item, c.items[i])
	})
	var zero T
	c.items = append(c.items, zero)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = item
	c.ids[item.Key()] = struct{}{}
	return true
}

func (c *collection[T]) remove(id string) (T, bool) {
	var zero T
	if !c.has(id) {
		return zero, false
	}
	for i, it := range c.items {
		if it.Key() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			delete(c.ids, id)
			return it, true
		}
	}
	return zero, false
}

// reset replaces the contents, dropping duplicate ids.
func (c *collection[T]) reset(items []T) {
	c.items = make([]T, 0, len(items))
	c.ids = make(map[string]struct{}, len(items))
	for _, it := range items {
		if c.has(it.Key()) {
			continue
		}
		c.ids[it.Key()] = struct{}{}
		c.items = append(c.items, it)
	}
	sort.SliceStable(c.items, func(i, j int) bool {
		return before(c.items[i], c.items[j])
	})
}

func (c *collection[T]) snapshot() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// change is a mutation made while a reload was fetching.
type change[T keyed] struct {
	gen     uint64
	item    T
	removed string
}

// journal lets a reload that fetched outside the lock keep mutations made
// during the fetch, and lets the newest fetch win over older ones. All
// methods are called with the owner's lock held.
type journal[T keyed] struct {
	gen      uint64
	loaded   uint64
	inflight int
	changes  []change[T]
}

// begin starts a reload and returns its generation.
func (j *journal[T]) begin() uint64 {
	j.gen++
	j.inflight++
	return j.gen
}

func (j *journal[T]) inserted(item T) {
	if j.inflight > 0 {
		j.changes = append(j.changes, change[T]{gen: j.gen, item: item})
	}
}

func (j *journal[T]) removed(id string) {
	if j.inflight > 0 {
		j.changes = append(j.changes, change[T]{gen: j.gen, removed: id})
	}
}

// finish ends the reload started at gen. When fetched is non-nil and no
// newer reload has been applied, c is reset to fetched and the changes made
// since gen are replayed on top. It reports whether c was replaced.
func (j *journal[T]) finish(gen uint64, fetched []T, c *collection[T]) bool {
	defer func() {
		j.inflight--
		if j.inflight == 0 {
			j.changes = nil
		}
	}()

	if fetched == nil || gen < j.loaded {
		return false
	}
	c.reset(fetched)
	for _, ch := range j.changes {
		if ch.gen < gen {
			continue
		}
		if ch.removed != "" {
			c.remove(ch.removed)
		} else {
			c.insert(ch.item)
		}
	}
	j.loaded = gen
	return true
}
