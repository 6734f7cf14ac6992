package pg

import (
	"context"

	"txboundary/internal/txpolicy"

	"github.com/jackc/pgx/v5"
)

type txKey struct{}

func txFromCtx(ctx context.Context) pgx.Tx {
	if v := ctx.Value(txKey{}); v != nil {
		if tx, ok := v.(pgx.Tx); ok {
			return tx
		}
	}
	return nil
}

var _ txpolicy.ResourceManager = (*TxManager)(nil)

// TxManager begins pgx transactions for boundaries. Repositories built on the
// same DB pick the transaction up from the context.
type TxManager struct {
	db   *DB
	opts pgx.TxOptions
}

func NewTxManager(db *DB) *TxManager { return &TxManager{db: db} }

func NewTxManagerWithOptions(db *DB, opts pgx.TxOptions) *TxManager {
	return &TxManager{db: db, opts: opts}
}

func (m *TxManager) Begin(ctx context.Context) (context.Context, txpolicy.Transaction, error) {
	tx, err := m.db.Pool.BeginTx(ctx, m.opts)
	if err != nil {
		return nil, nil, err
	}
	return context.WithValue(ctx, txKey{}, tx), tx, nil
}
