package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hamed0406/slotwatch/internal/domain"
	"github.com/hamed0406/slotwatch/internal/repo"
)

// Store is the per-run alerted set. The polling loop is its only writer; the
// mutex is there for status API readers.
type Store struct {
	mu     sync.RWMutex
	alerts map[domain.TargetDate]repo.AlertRecord
}

func New() *Store {
	return &Store{alerts: make(map[domain.TargetDate]repo.AlertRecord)}
}

func (m *Store) MarkAlerted(ctx context.Context, rec repo.AlertRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.alerts[rec.Date]; ok {
		return false, nil
	}
	m.alerts[rec.Date] = rec
	return true, nil
}

func (m *Store) IsAlerted(ctx context.Context, d domain.TargetDate) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.alerts[d]
	return ok, nil
}

func (m *Store) List(ctx context.Context) ([]repo.AlertRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]repo.AlertRecord, 0, len(m.alerts))
	for _, r := range m.alerts {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Time().Before(out[j].Date.Time()) })
	return out, nil
}

func (m *Store) Forget(ctx context.Context, d domain.TargetDate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.alerts[d]
	delete(m.alerts, d)
	return ok, nil
}
