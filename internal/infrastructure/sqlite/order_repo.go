package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"txboundary/internal/application"
	"txboundary/internal/domain"
)

var _ application.OrderRepo = (*OrderRepo)(nil)

type OrderRepo struct{ db *DB }

func NewOrderRepo(db *DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Save(ctx context.Context, o domain.Order) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `
INSERT INTO orders (id, username, pay_status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Username, string(o.PayStatus), formatTime(o.CreatedAt), formatTime(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, st domain.PayStatus, at time.Time) error {
	res, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE orders SET pay_status = ?, updated_at = ? WHERE id = ?`,
		string(st), formatTime(at), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	var (
		out                  domain.Order
		status               string
		createdAt, updatedAt string
	)
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT id, username, pay_status, created_at, updated_at FROM orders WHERE id = ?`, id).
		Scan(&out.ID, &out.Username, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, application.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	st, ok := domain.ParsePayStatus(status)
	if !ok {
		return domain.Order{}, fmt.Errorf("get order %s: %w %q", id, domain.ErrUnknownStatus, status)
	}
	out.PayStatus = st
	if out.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Order{}, err
	}
	if out.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
