package domain

import (
	"errors"

	"txboundary/internal/txpolicy"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidUsername = errors.New("invalid username")
	ErrUnknownStatus   = errors.New("unknown pay status")
)

// Payment failures. ErrSystem means the payment system itself broke and
// nothing written for the order can be trusted. ErrNotEnoughMoney is a
// business outcome: the order is kept as waiting so the customer can pay
// another way.
var (
	ErrSystem         = txpolicy.NewUnrecoverable("system", "payment system failure")
	ErrNotEnoughMoney = txpolicy.NewRecoverable("not_enough_money", "not enough money")
)
