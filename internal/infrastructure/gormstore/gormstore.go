package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"txboundary/internal/txpolicy"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderModel is the gorm mapping of the orders table.
type OrderModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Username  string `gorm:"not null"`
	PayStatus string `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrderModel) TableName() string { return "orders" }

// Config returns the gorm settings shared by every dialector: zap logging and
// UTC timestamps.
func Config(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:  newZapLogger(log),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func OpenPostgres(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), Config(log))
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&OrderModel{}); err != nil {
		return fmt.Errorf("auto-migrate orders: %w", err)
	}
	return nil
}

type txKey struct{}

var _ txpolicy.ResourceManager = (*TxManager)(nil)

// TxManager begins gorm transactions for boundaries.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager { return &TxManager{db: db} }

func (m *TxManager) Begin(ctx context.Context) (context.Context, txpolicy.Transaction, error) {
	// gorm begins through database/sql, which rolls back on ctx cancellation.
	tx := m.db.WithContext(context.WithoutCancel(ctx)).Begin()
	if tx.Error != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return context.WithValue(ctx, txKey{}, tx), &gormTx{tx: tx}, nil
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) Commit(context.Context) error {
	if err := t.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (t *gormTx) Rollback(context.Context) error {
	if err := t.tx.Rollback().Error; err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// conn returns the boundary transaction carried by ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
