package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"txboundary/internal/application"
	"txboundary/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ application.OrderRepo = (*OrderRepo)(nil)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Save(ctx context.Context, o domain.Order) error {
	m := OrderModel{
		ID:        o.ID,
		Username:  o.Username,
		PayStatus: string(o.PayStatus),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	return conn(ctx, r.db).Create(&m).Error
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, st domain.PayStatus, at time.Time) error {
	res := conn(ctx, r.db).Model(&OrderModel{}).Where("id = ?", id).
		Updates(map[string]any{"pay_status": string(st), "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	// ids are UUIDs; anything else cannot exist and would fail the uuid cast on postgres
	if _, err := uuid.Parse(id); err != nil {
		return domain.Order{}, application.ErrNotFound
	}
	var m OrderModel
	err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Order{}, application.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	st, ok := domain.ParsePayStatus(m.PayStatus)
	if !ok {
		return domain.Order{}, fmt.Errorf("get order %s: %w %q", id, domain.ErrUnknownStatus, m.PayStatus)
	}
	return domain.Order{
		ID:        m.ID,
		Username:  m.Username,
		PayStatus: st,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
