package timeline

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for queries against a removed or never-issued
// handle. Handles carry a generation counter, so access through a stale
// handle fails here instead of reading a reused slot.
var ErrNotFound = errors.New("timeline: item not found")

// Handle is a stable reference to one stored item. The zero Handle is
// never valid.
type Handle struct {
	index      int
	generation uint64
}

type slot struct {
	item       Item
	generation uint64
	occupied   bool
}

// Model holds tracks and time-bounded items and answers point-in-time and
// overlap queries. It does not enforce an overlap policy itself; that is a
// scheduling-time decision. All mutation must happen on a single control
// goroutine; renderers consume an immutable snapshot.
type Model struct {
	tracks        map[int]Track
	slots         []slot
	order         []int
	free          []int
	totalDuration float64
}

// NewModel creates a model owning the given tracks.
func NewModel(tracks []Track) (*Model, error) {
	m := &Model{tracks: make(map[int]Track, len(tracks))}
	for _, tr := range tracks {
		if _, dup := m.tracks[tr.Index]; dup {
			return nil, fmt.Errorf("timeline: duplicate track index %d", tr.Index)
		}
		m.tracks[tr.Index] = tr
	}
	return m, nil
}

// Track returns the track at the given index.
func (m *Model) Track(index int) (Track, bool) {
	tr, ok := m.tracks[index]
	return tr, ok
}

// TrackByKind returns the lowest-indexed track of the given kind. Track
// assignment is deterministic: there is no load balancing across multiple
// tracks of the same kind.
func (m *Model) TrackByKind(kind TrackKind) (Track, bool) {
	best := Track{Index: -1}
	for _, tr := range m.tracks {
		if tr.Kind != kind {
			continue
		}
		if best.Index < 0 || tr.Index < best.Index {
			best = tr
		}
	}
	return best, best.Index >= 0
}

// AddItem validates and appends an item, returning its handle.
func (m *Model) AddItem(item Item) (Handle, error) {
	if item.Duration <= 0 {
		return Handle{}, fmt.Errorf("timeline: non-positive duration %g", item.Duration)
	}
	if item.StartTime < 0 {
		return Handle{}, fmt.Errorf("timeline: negative start time %g", item.StartTime)
	}
	if _, ok := m.tracks[item.TrackIndex]; !ok {
		return Handle{}, fmt.Errorf("timeline: unknown track %d", item.TrackIndex)
	}

	var idx int
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		m.slots = append(m.slots, slot{})
		idx = len(m.slots) - 1
	}
	s := &m.slots[idx]
	s.generation++
	s.item = item
	s.occupied = true
	m.order = append(m.order, idx)
	m.recomputeDuration()
	return Handle{index: idx, generation: s.generation}, nil
}

// RemoveItem removes the item behind h. The slot generation is bumped so
// any copy of h fails with ErrNotFound afterwards.
func (m *Model) RemoveItem(h Handle) error {
	s, err := m.lookup(h)
	if err != nil {
		return err
	}
	s.occupied = false
	s.generation++
	s.item = Item{}
	for i, idx := range m.order {
		if idx == h.index {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.free = append(m.free, h.index)
	m.recomputeDuration()
	return nil
}

// Item returns a copy of the stored item.
func (m *Model) Item(h Handle) (Item, error) {
	s, err := m.lookup(h)
	if err != nil {
		return Item{}, err
	}
	return s.item, nil
}

// Handles returns all live handles in insertion order.
func (m *Model) Handles() []Handle {
	out := make([]Handle, 0, len(m.order))
	for _, idx := range m.order {
		out = append(out, Handle{index: idx, generation: m.slots[idx].generation})
	}
	return out
}

// ItemsActiveAt returns handles of enabled items whose closed interval
// [start, end] covers t.
func (m *Model) ItemsActiveAt(t float64) []Handle {
	var out []Handle
	for _, idx := range m.order {
		if m.slots[idx].item.ActiveAt(t) {
			out = append(out, Handle{index: idx, generation: m.slots[idx].generation})
		}
	}
	return out
}

// ItemsOnTrack returns handles of items on the track, in insertion order.
func (m *Model) ItemsOnTrack(trackIndex int) []Handle {
	var out []Handle
	for _, idx := range m.order {
		if m.slots[idx].item.TrackIndex == trackIndex {
			out = append(out, Handle{index: idx, generation: m.slots[idx].generation})
		}
	}
	return out
}

// ItemsOfKind returns handles of items of the given kind, in insertion
// order.
func (m *Model) ItemsOfKind(kind ItemKind) []Handle {
	var out []Handle
	for _, idx := range m.order {
		if m.slots[idx].item.Kind == kind {
			out = append(out, Handle{index: idx, generation: m.slots[idx].generation})
		}
	}
	return out
}

// OverlapsWith returns handles of stored items on the same track whose
// half-open [start, end) interval intersects the candidate's. Note the
// asymmetry with ItemsActiveAt, which uses a closed interval; the original
// behavior is preserved rather than silently unified.
func (m *Model) OverlapsWith(item Item) []Handle {
	var out []Handle
	for _, idx := range m.order {
		if m.slots[idx].item.Overlaps(item) {
			out = append(out, Handle{index: idx, generation: m.slots[idx].generation})
		}
	}
	return out
}

// TotalDuration is the maximum end time over all items, or 0 when empty.
func (m *Model) TotalDuration() float64 {
	return m.totalDuration
}

// Clear removes every item. Existing handles become stale.
func (m *Model) Clear() {
	for i := range m.slots {
		if m.slots[i].occupied {
			m.slots[i].occupied = false
			m.slots[i].generation++
			m.slots[i].item = Item{}
			m.free = append(m.free, i)
		}
	}
	m.order = m.order[:0]
	m.totalDuration = 0
}

func (m *Model) lookup(h Handle) (*slot, error) {
	if h.index < 0 || h.index >= len(m.slots) {
		return nil, ErrNotFound
	}
	s := &m.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Model) recomputeDuration() {
	total := 0.0
	for _, idx := range m.order {
		if end := m.slots[idx].item.EndTime(); end > total {
			total = end
		}
	}
	m.totalDuration = total
}
