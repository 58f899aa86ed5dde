package history

import (
	"context"
	"sync"

	"github.com/kanhucharan/controllermon/internal/domain"
)

// Memory keeps transition history in process. Used when no database is
// configured, and by tests.
type Memory struct {
	mu   sync.RWMutex
	rows []domain.Transition
}

func NewMemory() *Memory {
	return &Memory{rows: make([]domain.Transition, 0, 128)}
}

func (m *Memory) Record(ctx context.Context, tr domain.Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, tr)
	return nil
}

// Recent returns up to n transitions, newest first.
func (m *Memory) Recent(n int) []domain.Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 || n > len(m.rows) {
		n = len(m.rows)
	}
	out := make([]domain.Transition, 0, n)
	for i := len(m.rows) - 1; i >= len(m.rows)-n; i-- {
		out = append(out, m.rows[i])
	}
	return out
}

var _ Recorder = (*Memory)(nil)
