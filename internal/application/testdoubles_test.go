package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"txboundary/internal/domain"
	"txboundary/internal/txpolicy"
)

// memStore is an order repo whose writes inside a boundary are staged until
// commit, so tests observe the decision the same way a database would.
type memStore struct {
	mu        sync.Mutex
	committed map[string]domain.Order
	commits   int
	rollbacks int
	saveErr   error
	getErr    error
}

type memTx struct {
	s      *memStore
	staged map[string]domain.Order
}

type memTxKey struct{}

var (
	_ txpolicy.ResourceManager = (*memStore)(nil)
	_ OrderRepo                = (*memStore)(nil)
)

func newMemStore() *memStore { return &memStore{committed: map[string]domain.Order{}} }

func (s *memStore) Begin(ctx context.Context) (context.Context, txpolicy.Transaction, error) {
	tx := &memTx{s: s, staged: map[string]domain.Order{}}
	return context.WithValue(ctx, memTxKey{}, tx), tx, nil
}

func (t *memTx) Commit(context.Context) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, o := range t.staged {
		t.s.committed[id] = o
	}
	t.s.commits++
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.rollbacks++
	return nil
}

func txOf(ctx context.Context) *memTx {
	tx, _ := ctx.Value(memTxKey{}).(*memTx)
	return tx
}

func (s *memStore) Save(ctx context.Context, o domain.Order) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if tx := txOf(ctx); tx != nil {
		tx.staged[o.ID] = o
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed[o.ID] = o
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
	if s.getErr != nil && txOf(ctx) == nil {
		return domain.Order{}, s.getErr
	}
	if tx := txOf(ctx); tx != nil {
		if o, ok := tx.staged[id]; ok {
			return o, nil
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.committed[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}

type fakePayments struct{ byUser map[string]error }

func (f *fakePayments) Charge(_ context.Context, o domain.Order) error { return f.byUser[o.Username] }

type fakeIdem struct{ seen map[string]bool }

func (f *fakeIdem) TryReserve(_ context.Context, k string) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[k] {
		return false, nil
	}
	f.seen[k] = true
	return true, nil
}

func (f *fakeIdem) Release(_ context.Context, k string) error {
	delete(f.seen, k)
	return nil
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("order-%d", g.n)
}
