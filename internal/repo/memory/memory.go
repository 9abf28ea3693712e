package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
	"github.com/fers4t/kg-uptime-monitor/internal/repo"
)

type Store struct {
	mu   sync.RWMutex
	rows map[domain.TargetID]repo.StatusRow
}

func New() *Store {
	return &Store{rows: make(map[domain.TargetID]repo.StatusRow)}
}

func (m *Store) Upsert(ctx context.Context, row repo.StatusRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[row.TargetID] = row
	return nil
}

func (m *Store) Get(ctx context.Context, id domain.TargetID) (*repo.StatusRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	rr := r
	return &rr, nil
}

func (m *Store) List(ctx context.Context) ([]repo.StatusRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]repo.StatusRow, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetID < out[j].TargetID })
	return out, nil
}
