package idempotency

import (
	"context"
	"sync"
	"time"
)

// sweepInterval spaces out the scans that drop expired records.
const sweepInterval = time.Minute

// MemoryStore keeps records in process. Used when no idempotency table is configured.
// Expired records are dropped, the way DynamoDB TTL drops expires_at items.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[string]Record
	ttlWindow time.Duration
	nowFunc   func() time.Time
	lastSweep time.Time
}

func NewMemoryStore(ttlWindow time.Duration) *MemoryStore {
	return &MemoryStore{
		records:   map[string]Record{},
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

func (m *MemoryStore) Begin(ctx context.Context, key string) (*Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	m.sweep(now)
	if rec, ok := m.records[key]; ok && rec.Status != StatusFailed && rec.ExpiresAt > now.Unix() {
		return &rec, false, nil
	}
	rec := Record{
		IdempotencyKey: key,
		Status:         StatusInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(m.ttlWindow).Unix(),
	}
	m.records[key] = rec
	return &rec, true, nil
}

// callers hold m.mu
func (m *MemoryStore) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for key, rec := range m.records {
		if rec.ExpiresAt <= now.Unix() {
			delete(m.records, key)
		}
	}
}

// Len reports how many records are held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *MemoryStore) MarkDone(ctx context.Context, key, orderID string) error {
	return m.update(key, func(r *Record) {
		r.Status = StatusDone
		r.OrderID = orderID
	})
}

func (m *MemoryStore) MarkFailed(ctx context.Context, key, note string) error {
	return m.update(key, func(r *Record) {
		r.Status = StatusFailed
		r.Note = note
	})
}

func (m *MemoryStore) update(key string, fn func(*Record)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok {
		return ErrUnknownKey
	}
	fn(&rec)
	rec.UpdatedAt = m.nowFunc()
	m.records[key] = rec
	return nil
}
