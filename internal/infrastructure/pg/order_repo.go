package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"txboundary/internal/application"
	"txboundary/internal/domain"
	"txboundary/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ application.OrderRepo = (*OrderRepo)(nil)

type OrderRepo struct{ db *DB }

func NewOrderRepo(db *DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Save(ctx context.Context, o domain.Order) error {
	const ins = `
        INSERT INTO orders(id, username, pay_status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "order"),
		zap.String("operation", "Save"),
		zap.String("id", o.ID),
		zap.Bool("in_tx", txFromCtx(ctx) != nil),
	)
	log.Debug("sql.exec_start")
	tag, err := r.db.conn(ctx).Exec(ctx, ins, o.ID, o.Username, string(o.PayStatus), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Debug("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, st domain.PayStatus, at time.Time) error {
	const up = `UPDATE orders SET pay_status=$2, updated_at=$3 WHERE id=$1`
	if _, err := uuid.Parse(id); err != nil {
		return application.ErrNotFound
	}
	log := logx.WithFields(ctx).With(
		zap.String("repo", "order"),
		zap.String("operation", "UpdateStatus"),
		zap.String("id", id),
		zap.String("status", string(st)),
	)
	log.Debug("sql.exec_start")
	tag, err := r.db.conn(ctx).Exec(ctx, up, id, string(st), at)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Warn("sql.exec_no_rows")
		return application.ErrNotFound
	}
	log.Debug("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	const q = `
        SELECT id::text, username, pay_status, created_at, updated_at
        FROM orders WHERE id=$1`
	// ids are UUIDs; anything else cannot exist and would fail the uuid cast
	if _, err := uuid.Parse(id); err != nil {
		return domain.Order{}, application.ErrNotFound
	}
	var out domain.Order
	var status string
	err := r.db.conn(ctx).QueryRow(ctx, q, id).Scan(&out.ID, &out.Username, &status, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, application.ErrNotFound
	}
	if err != nil {
		logx.WithFields(ctx).Error("sql.query_failed",
			zap.String("repo", "order"),
			zap.String("operation", "GetByID"),
			zap.Error(err),
		)
		return domain.Order{}, err
	}
	st, ok := domain.ParsePayStatus(status)
	if !ok {
		return domain.Order{}, fmt.Errorf("get order %s: %w %q", id, domain.ErrUnknownStatus, status)
	}
	out.PayStatus = st
	return out, nil
}
