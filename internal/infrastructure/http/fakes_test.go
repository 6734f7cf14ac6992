package httpserver

import (
	"context"
	"sync"
	"time"

	"txboundary/internal/application"
	"txboundary/internal/domain"
	"txboundary/internal/txpolicy"
)

var (
	_ application.OrderRepo        = (*memStore)(nil)
	_ txpolicy.ResourceManager     = (*memStore)(nil)
	_ application.IdempotencyStore = (*memIdem)(nil)
)

// memStore keeps orders written inside a boundary staged until commit.
type memStore struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

type memTx struct {
	s      *memStore
	staged map[string]domain.Order
}

type memTxKey struct{}

func newMemStore() *memStore { return &memStore{orders: map[string]domain.Order{}} }

func (s *memStore) Begin(ctx context.Context) (context.Context, txpolicy.Transaction, error) {
	tx := &memTx{s: s, staged: map[string]domain.Order{}}
	return context.WithValue(ctx, memTxKey{}, tx), tx, nil
}

func (t *memTx) Commit(context.Context) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, o := range t.staged {
		t.s.orders[id] = o
	}
	return nil
}

func (t *memTx) Rollback(context.Context) error { return nil }

func (s *memStore) Save(ctx context.Context, o domain.Order) error {
	if tx, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		tx.staged[o.ID] = o
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	return nil
}

func (s *memStore) UpdateStatus(ctx context.Context, id string, st domain.PayStatus, at time.Time) error {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	o.PayStatus, o.UpdatedAt = st, at
	return s.Save(ctx, o)
}

func (s *memStore) GetByID(ctx context.Context, id string) (domain.Order, error) {
	if tx, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		if o, ok := tx.staged[id]; ok {
			return o, nil
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, application.ErrNotFound
	}
	return o, nil
}

type memIdem struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memIdem) TryReserve(_ context.Context, k string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[k] {
		return false, nil
	}
	m.seen[k] = true
	return true, nil
}

func (m *memIdem) Release(_ context.Context, k string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, k)
	return nil
}
