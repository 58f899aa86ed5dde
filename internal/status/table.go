package status

import (
	"sync"

	"github.com/kanhucharan/controllermon/internal/domain"
)

// Table is the shared read view of controller state. The monitor loop is the
// only writer; the HTTP API reads at its own cadence. Each Publish replaces
// the whole per-host entry under the lock, so a reader can never see a state
// from one cycle paired with a change time from another.
type Table struct {
	mu      sync.RWMutex
	entries map[string]domain.StatusEntry
}

func NewTable() *Table {
	return &Table{entries: make(map[string]domain.StatusEntry)}
}

// Publish stores the entry for its host, overwriting any previous one.
func (t *Table) Publish(e domain.StatusEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[e.Host] = e
}

// Current returns a point-in-time copy of all entries. The caller owns the
// returned map.
func (t *Table) Current() map[string]domain.StatusEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]domain.StatusEntry, len(t.entries))
	for host, e := range t.entries {
		out[host] = e
	}
	return out
}
