package application

import (
	"errors"
	"fmt"

	"txboundary/internal/domain"
)

var ErrNotFound = domain.ErrNotFound
var ErrConflict = errors.New("conflict")
var ErrBadRequest = errors.New("bad request")

var (
	ErrDuplicateRequest = fmt.Errorf("duplicate request: %w", ErrConflict)
	ErrUnknownScenario  = fmt.Errorf("unknown scenario: %w", ErrBadRequest)
)
