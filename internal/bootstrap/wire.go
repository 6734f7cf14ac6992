//go:build wireinject

package bootstrap

import (
	"context"

	"txboundary/internal/application"
	httpserver "txboundary/internal/infrastructure/http"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvidePolicyOverrides,
	ProvideStorage,
	ProvideIdempotency,
	ProvidePaymentGateway,
	ProvideOrderService,
	ProvideRollbackDemo,
)

// InitAPI builds the HTTP server and its cleanup.
func InitAPI(ctx context.Context) (*httpserver.Server, func(), error) {
	wire.Build(
		infraSet,
		ProvideServer,
	)
	return nil, nil, nil
}

// InitOrderService builds the order service for command-line use.
func InitOrderService(ctx context.Context) (*application.OrderService, func(), error) {
	wire.Build(infraSet)
	return nil, nil, nil
}
