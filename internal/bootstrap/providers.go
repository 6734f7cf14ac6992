package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"txboundary/internal/application"
	"txboundary/internal/config"
	"txboundary/internal/infrastructure/gormstore"
	httpserver "txboundary/internal/infrastructure/http"
	"txboundary/internal/infrastructure/logx"
	"txboundary/internal/infrastructure/payment"
	"txboundary/internal/infrastructure/pg"
	redisstore "txboundary/internal/infrastructure/redis"
	"txboundary/internal/infrastructure/sqlite"
	"txboundary/internal/txpolicy"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required for STORAGE=pg and STORAGE=gorm")

// Storage is one persistence backend: the resource manager boundaries run
// on and the repositories that join its transactions.
type Storage struct {
	Tx     txpolicy.ResourceManager
	Orders application.OrderRepo
	Ping   func(ctx context.Context) error
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvidePolicyOverrides(cfg config.Config) (application.PolicyOverrides, error) {
	p, err := config.LoadPolicies(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	return application.PolicyOverrides(p), nil
}

func ProvideStorage(ctx context.Context, log *zap.Logger, cfg config.Config) (Storage, func(), error) {
	switch cfg.Storage {
	case "pg":
		if cfg.DatabaseURL == "" {
			return Storage{}, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Storage{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Storage{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Storage{Tx: pg.NewTxManager(db), Orders: pg.NewOrderRepo(db), Ping: db.Ping}, cleanup, nil

	case "gorm":
		if cfg.DatabaseURL == "" {
			return Storage{}, func() {}, ErrMissingDBURL
		}
		gdb, err := gormstore.OpenPostgres(cfg.DatabaseURL, log)
		if err != nil {
			return Storage{}, func() {}, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return Storage{}, func() {}, fmt.Errorf("gorm sql handle: %w", err)
		}
		if err := gormstore.Migrate(gdb); err != nil {
			_ = sqlDB.Close()
			return Storage{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing gorm")
			_ = sqlDB.Close()
		}
		return Storage{Tx: gormstore.NewTxManager(gdb), Orders: gormstore.NewOrderRepo(gdb), Ping: sqlDB.PingContext}, cleanup, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return Storage{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing sqlite")
			_ = db.Close()
		}
		return Storage{Tx: sqlite.NewTxManager(db), Orders: sqlite.NewOrderRepo(db), Ping: db.Ping}, cleanup, nil

	default:
		return Storage{}, func() {}, fmt.Errorf("unsupported STORAGE=%q", cfg.Storage)
	}
}

func ProvideIdempotency(cfg config.Config) (application.IdempotencyStore, func(), error) {
	switch cfg.IdempotencyBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return redisstore.New(client, cfg.RedisTTL), func() { _ = client.Close() }, nil
	case "", "none":
		return application.NoopIdempotency{}, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported IDEMPOTENCY_BACKEND=%q", cfg.IdempotencyBackend)
	}
}

func ProvidePaymentGateway() application.PaymentGateway { return payment.NewFake() }

func ProvideOrderService(st Storage, pay application.PaymentGateway, idem application.IdempotencyStore, overrides application.PolicyOverrides, log *zap.Logger) *application.OrderService {
	return application.NewOrderService(st.Tx, st.Orders, pay,
		application.WithIdempotency(idem),
		application.WithPolicyOverrides(overrides),
		application.WithLogger(log),
	)
}

func ProvideRollbackDemo(st Storage, log *zap.Logger, overrides application.PolicyOverrides) *application.RollbackDemo {
	return application.NewRollbackDemo(st.Tx, st.Orders, log, overrides)
}

func ProvideServer(svc *application.OrderService, demo *application.RollbackDemo, st Storage) *httpserver.Server {
	srv := httpserver.NewServer(svc, demo)
	srv.SetReadyCheck(st.Ping)
	return srv
}
