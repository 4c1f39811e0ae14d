package history

import "sync"

// Mock is an in-memory HistoryService for testing.
type Mock struct {
	mu      sync.Mutex
	records map[string]Record

	RecordFunc func(rec Record) error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{records: make(map[string]Record)}
}

var _ HistoryService = (*Mock)(nil)

func (m *Mock) Record(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordFunc != nil {
		if err := m.RecordFunc(rec); err != nil {
			return err
		}
	}
	if _, ok := m.records[rec.SessionID]; !ok {
		m.records[rec.SessionID] = rec
	}
	return nil
}

func (m *Mock) Has(sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[sessionID]
	return ok, nil
}

func (m *Mock) Get(sessionID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[sessionID]
	if !ok {
		return Record{}, ErrNotRecorded
	}
	return rec, nil
}

func (m *Mock) List(limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		out = append(out, rec)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
