package application

import (
	"context"
	"errors"
	"fmt"

	"txboundary/internal/domain"
	"txboundary/internal/txpolicy"

	"go.uber.org/zap"
)

const (
	ScenarioRuntime     = "runtime"
	ScenarioChecked     = "checked"
	ScenarioRollbackFor = "rollback-for"
	ScenarioSuccess     = "success"
)

// ErrRuntimeDemo declares no classification and therefore rolls back.
var ErrRuntimeDemo = errors.New("demo runtime failure")

// DemoFailure is a recoverable failure type. Only the rollback-for scenario
// lists it in its forced-rollback set.
type DemoFailure struct{ Scenario string }

func (e *DemoFailure) Error() string                           { return "demo failure in " + e.Scenario }
func (e *DemoFailure) Classification() txpolicy.Classification { return txpolicy.Recoverable }
func (e *DemoFailure) FailureCode() string                     { return "demo_failure" }

// DemoResult reports a scenario run and whether its write survived.
type DemoResult struct {
	Scenario  string
	Outcome   txpolicy.Outcome
	Err       error
	OrderID   string
	Persisted bool
}

// RollbackDemo runs one boundary per scenario. Each unit of work writes an
// order and then terminates the way its scenario names.
type RollbackDemo struct {
	orders     OrderRepo
	idgen      IDGen
	clock      Clock
	log        *zap.Logger
	boundaries map[string]*txpolicy.Boundary
}

func NewRollbackDemo(tx txpolicy.ResourceManager, orders OrderRepo, log *zap.Logger, overrides PolicyOverrides) *RollbackDemo {
	if log == nil {
		log = zap.NewNop()
	}
	policies := map[string]txpolicy.Policy{
		ScenarioRuntime:     txpolicy.NewPolicy(),
		ScenarioChecked:     txpolicy.NewPolicy(),
		ScenarioRollbackFor: txpolicy.NewPolicy(txpolicy.RollbackOnType[*DemoFailure]()),
		ScenarioSuccess:     txpolicy.NewPolicy(),
	}
	d := &RollbackDemo{
		orders:     orders,
		idgen:      defaultIDGen{},
		clock:      realClock{},
		log:        log,
		boundaries: make(map[string]*txpolicy.Boundary, len(policies)),
	}
	for name, p := range policies {
		bname := "demo." + name
		d.boundaries[name] = txpolicy.New(tx,
			txpolicy.WithName(bname),
			txpolicy.WithPolicy(overrides.apply(bname, p)),
			txpolicy.WithLogger(log),
		)
	}
	return d
}

func Scenarios() []string {
	return []string{ScenarioRuntime, ScenarioChecked, ScenarioRollbackFor, ScenarioSuccess}
}

func (d *RollbackDemo) RuntimeFailure(ctx context.Context) (DemoResult, error) {
	return d.Run(ctx, ScenarioRuntime)
}

func (d *RollbackDemo) CheckedFailure(ctx context.Context) (DemoResult, error) {
	return d.Run(ctx, ScenarioChecked)
}

func (d *RollbackDemo) RollbackFor(ctx context.Context) (DemoResult, error) {
	return d.Run(ctx, ScenarioRollbackFor)
}

func (d *RollbackDemo) Success(ctx context.Context) (DemoResult, error) {
	return d.Run(ctx, ScenarioSuccess)
}

// Run executes scenario. The returned error is the scenario's own failure,
// exactly as the boundary propagated it, or a lookup error.
func (d *RollbackDemo) Run(ctx context.Context, scenario string) (DemoResult, error) {
	b, ok := d.boundaries[scenario]
	if !ok {
		return DemoResult{}, ErrUnknownScenario
	}
	now := d.clock.Now()
	order := domain.Order{
		ID:        d.idgen.NewID(),
		Username:  "demo-" + scenario,
		PayStatus: domain.PayStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	out, err := b.Run(ctx, func(ctx context.Context) error {
		if err := d.orders.Save(ctx, order); err != nil {
			return err
		}
		switch scenario {
		case ScenarioRuntime:
			return ErrRuntimeDemo
		case ScenarioChecked, ScenarioRollbackFor:
			return &DemoFailure{Scenario: scenario}
		}
		return nil
	})

	res := DemoResult{Scenario: scenario, Outcome: out, Err: err, OrderID: order.ID}
	_, gerr := d.orders.GetByID(ctx, order.ID)
	switch {
	case gerr == nil:
		res.Persisted = true
	case errors.Is(gerr, domain.ErrNotFound):
	case err == nil:
		return res, fmt.Errorf("check persisted order: %w", gerr)
	default:
		// keep the scenario's own failure; Persisted is unknown here
		d.log.Warn("demo.persisted_check_failed",
			zap.String("scenario", scenario),
			zap.String("order_id", order.ID),
			zap.Error(gerr),
		)
	}
	return res, err
}
