package payment

import (
	"context"

	"txboundary/internal/application"
	"txboundary/internal/domain"
)

// Usernames that make the fake gateway fail.
const (
	UserSystemFailure  = "exception"
	UserNotEnoughMoney = "insufficient"
)

// Ensure Fake implements application.PaymentGateway.
var _ application.PaymentGateway = (*Fake)(nil)

// Fake charges every order except those placed by the marker usernames.
type Fake struct{}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Charge(_ context.Context, o domain.Order) error {
	switch o.Username {
	case UserSystemFailure:
		return domain.ErrSystem
	case UserNotEnoughMoney:
		return domain.ErrNotEnoughMoney
	default:
		return nil
	}
}
