package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemovalMarks_Window(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewRemovalMarks(2*time.Second, nil)

	m.Mark("web-starter", t0)

	assert.True(t, m.Active("web-starter", t0))
	assert.True(t, m.Active("web-starter", t0.Add(1999*time.Millisecond)))
	assert.False(t, m.Active("web-starter", t0.Add(2*time.Second)))
	assert.False(t, m.Active("other", t0))
}

func TestRemovalMarks_UnmarkAndRemark(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewRemovalMarks(2*time.Second, nil)

	m.Mark("a", t0)
	m.Unmark("a")
	assert.False(t, m.Active("a", t0))

	// marking again restarts the window
	m.Mark("a", t0)
	m.Mark("a", t0.Add(time.Second))
	assert.True(t, m.Active("a", t0.Add(2500*time.Millisecond)))
}

func TestRemovalMarks_IDsAndPrune(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewRemovalMarks(2*time.Second, nil)

	m.Mark("b", t0)
	m.Mark("a", t0.Add(time.Second))

	assert.Equal(t, []string{"a", "b"}, m.IDs(t0.Add(500*time.Millisecond)))
	assert.Equal(t, []string{"a"}, m.IDs(t0.Add(2*time.Second)))

	m.Prune(t0.Add(2 * time.Second))
	assert.Len(t, m.Snapshot(), 1)

	m.Prune(t0.Add(time.Minute))
	assert.Nil(t, m.Snapshot())
	assert.Empty(t, m.IDs(t0))
}

func TestRemovalMarks_RestoreFromSnapshot(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewRemovalMarks(0, nil)
	m.Mark("a", t0)

	saved := m.Snapshot()
	restored := NewRemovalMarks(DefaultRemovalWindow, saved)
	restored.Unmark("a")

	assert.Contains(t, saved, "a")
	assert.True(t, NewRemovalMarks(0, saved).Active("a", t0.Add(DefaultRemovalWindow-time.Millisecond)))
}
