package txpolicy

import "context"

// ResourceManager is the persistence collaborator of a boundary. Begin is
// called once before the unit of work; exactly one of Commit or Rollback is
// called on the returned Transaction afterwards.
//
// The returned context carries the transaction to repositories used by the
// unit of work. Implementations must be comparable (pointer receivers) so
// nested boundaries can recognise their own manager.
type ResourceManager interface {
	Begin(ctx context.Context) (context.Context, Transaction, error)
}

type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// NopManager begins transactions that do nothing on commit or rollback.
type NopManager struct{}

var nop = &NopManager{}

func (*NopManager) Begin(ctx context.Context) (context.Context, Transaction, error) {
	return ctx, nopTx{}, nil
}

type nopTx struct{}

func (nopTx) Commit(context.Context) error   { return nil }
func (nopTx) Rollback(context.Context) error { return nil }
