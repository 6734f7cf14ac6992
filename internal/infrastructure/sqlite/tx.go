package sqlite

import (
	"context"
	"database/sql"

	"txboundary/internal/txpolicy"
)

type txKey struct{}

func txFromCtx(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

var _ txpolicy.ResourceManager = (*TxManager)(nil)

type TxManager struct{ db *DB }

func NewTxManager(db *DB) *TxManager { return &TxManager{db: db} }

// Begin detaches the transaction from ctx cancellation: database/sql would
// otherwise roll it back on its own before the boundary resolves it.
func (m *TxManager) Begin(ctx context.Context) (context.Context, txpolicy.Transaction, error) {
	tx, err := m.db.SQL.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		return nil, nil, err
	}
	return context.WithValue(ctx, txKey{}, tx), sqlTx{tx: tx}, nil
}

// sqlTx adapts *sql.Tx, whose Commit and Rollback take no context.
type sqlTx struct{ tx *sql.Tx }

func (t sqlTx) Commit(context.Context) error   { return t.tx.Commit() }
func (t sqlTx) Rollback(context.Context) error { return t.tx.Rollback() }
