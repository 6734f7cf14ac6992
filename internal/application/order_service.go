package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"txboundary/internal/domain"
	"txboundary/internal/txpolicy"

	"go.uber.org/zap"
)

const BoundaryPlaceOrder = "order.place"

type OrderService struct {
	orders    OrderRepo
	payments  PaymentGateway
	idem      IdempotencyStore
	tx        txpolicy.ResourceManager
	overrides PolicyOverrides
	log       *zap.Logger
	clock     Clock
	idgen     IDGen

	place *txpolicy.Boundary
}

type Option func(*OrderService)

func WithClock(c Clock) Option                  { return func(s *OrderService) { s.clock = c } }
func WithIDGen(g IDGen) Option                  { return func(s *OrderService) { s.idgen = g } }
func WithIdempotency(i IdempotencyStore) Option { return func(s *OrderService) { s.idem = i } }
func WithLogger(l *zap.Logger) Option           { return func(s *OrderService) { s.log = l } }
func WithPolicyOverrides(o PolicyOverrides) Option {
	return func(s *OrderService) { s.overrides = o }
}

func NewOrderService(tx txpolicy.ResourceManager, orders OrderRepo, payments PaymentGateway, opts ...Option) *OrderService {
	s := &OrderService{
		orders:   orders,
		payments: payments,
		tx:       tx,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.idgen == nil {
		s.idgen = defaultIDGen{}
	}
	if s.idem == nil {
		s.idem = NoopIdempotency{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.place = txpolicy.New(s.tx,
		txpolicy.WithName(BoundaryPlaceOrder),
		txpolicy.WithPolicy(s.overrides.apply(BoundaryPlaceOrder, txpolicy.NewPolicy())),
		txpolicy.WithLogger(s.log),
	)
	return s
}

// PlaceResult is what the caller learns about one order placement.
// Order is set only when the boundary committed.
type PlaceResult struct {
	Order   domain.Order
	Outcome txpolicy.Outcome
}

// PlaceOrder saves a new order and charges it inside one boundary.
//
// A payment system failure rolls the order back. Not enough money is a
// recoverable failure: the order is committed as waiting and
// domain.ErrNotEnoughMoney is still returned. Callers inspect
// PlaceResult.Outcome to tell the two apart.
func (s *OrderService) PlaceOrder(ctx context.Context, username string, idem *string) (PlaceResult, error) {
	username = strings.TrimSpace(username)
	if !domain.ValidateUsername(username) {
		return PlaceResult{}, fmt.Errorf("%w: %w", ErrBadRequest, domain.ErrInvalidUsername)
	}
	idemKey := ""
	if idem != nil && *idem != "" {
		idemKey = "order:" + *idem
		ok, err := s.idem.TryReserve(ctx, idemKey)
		if err != nil {
			return PlaceResult{}, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !ok {
			return PlaceResult{}, ErrDuplicateRequest
		}
	}

	now := s.clock.Now()
	order := domain.Order{
		ID:        s.idgen.NewID(),
		Username:  username,
		PayStatus: domain.PayStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	out, err := s.place.Run(ctx, func(ctx context.Context) error {
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}
		payErr := s.payments.Charge(ctx, order)
		switch {
		case errors.Is(payErr, domain.ErrNotEnoughMoney):
			order.PayStatus = domain.PayStatusWaiting
		case payErr != nil:
			return payErr
		default:
			order.PayStatus = domain.PayStatusComplete
		}
		order.UpdatedAt = s.clock.Now()
		if err := s.orders.UpdateStatus(ctx, order.ID, order.PayStatus, order.UpdatedAt); err != nil {
			return err
		}
		return payErr
	})

	res := PlaceResult{Outcome: out}
	if out.Committed() && out.ResolveErr == nil {
		res.Order = order
	} else if idemKey != "" {
		// nothing was kept; let the client retry with the same key
		if rerr := s.idem.Release(ctx, idemKey); rerr != nil {
			s.log.Warn("idempotency.release_failed", zap.String("key", idemKey), zap.Error(rerr))
		}
	}
	return res, err
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}
