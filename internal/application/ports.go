package application

import (
	"context"
	"time"

	"txboundary/internal/domain"
)

// OrderRepo persists orders. Implementations must use the transaction carried
// by ctx when one is present, so writes follow the boundary's decision.
type OrderRepo interface {
	Save(ctx context.Context, o domain.Order) error
	UpdateStatus(ctx context.Context, id string, st domain.PayStatus, at time.Time) error
	GetByID(ctx context.Context, id string) (domain.Order, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, o domain.Order) error
}
