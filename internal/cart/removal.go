package cart

import (
	"sort"
	"time"
)

// DefaultRemovalWindow is how long a toggled-out entry stays marked.
const DefaultRemovalWindow = 2 * time.Second

// RemovalMarks tracks entries recently toggled out of a cart. Marks expire on
// their own and never affect cart contents or totals.
type RemovalMarks struct {
	window time.Duration
	until  map[string]time.Time
}

// NewRemovalMarks restores marks from a saved expiry map. A non-positive
// window falls back to DefaultRemovalWindow.
func NewRemovalMarks(window time.Duration, saved map[string]time.Time) *RemovalMarks {
	if window <= 0 {
		window = DefaultRemovalWindow
	}
	m := &RemovalMarks{window: window, until: make(map[string]time.Time, len(saved))}
	for id, t := range saved {
		m.until[id] = t
	}
	return m
}

// Mark flags id as removed at now.
func (m *RemovalMarks) Mark(id string, now time.Time) {
	m.until[id] = now.Add(m.window)
}

// Unmark clears the flag for id.
func (m *RemovalMarks) Unmark(id string) {
	delete(m.until, id)
}

// Active reports whether id is still inside its window at now.
func (m *RemovalMarks) Active(id string, now time.Time) bool {
	t, ok := m.until[id]
	return ok && now.Before(t)
}

// Prune forgets marks that have expired at now.
func (m *RemovalMarks) Prune(now time.Time) {
	for id, t := range m.until {
		if !now.Before(t) {
			delete(m.until, id)
		}
	}
}

// IDs returns the ids still marked at now, sorted.
func (m *RemovalMarks) IDs(now time.Time) []string {
	ids := make([]string, 0, len(m.until))
	for id, t := range m.until {
		if now.Before(t) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns the live marks as an expiry map, or nil when empty.
func (m *RemovalMarks) Snapshot() map[string]time.Time {
	if len(m.until) == 0 {
		return nil
	}
	out := make(map[string]time.Time, len(m.until))
	for id, t := range m.until {
		out[id] = t
	}
	return out
}
