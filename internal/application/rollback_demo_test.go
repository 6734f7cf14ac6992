package application

import (
	"context"
	"errors"
	"testing"

	"txboundary/internal/txpolicy"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRollbackDemo_Scenarios(t *testing.T) {
	t.Parallel()
	cases := []struct {
		scenario  string
		decision  txpolicy.Decision
		persisted bool
		wantErr   bool
	}{
		{ScenarioRuntime, txpolicy.RolledBack, false, true},
		{ScenarioChecked, txpolicy.Committed, true, true},
		{ScenarioRollbackFor, txpolicy.RolledBack, false, true},
		{ScenarioSuccess, txpolicy.Committed, true, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.scenario, func(t *testing.T) {
			t.Parallel()
			store := newMemStore()
			demo := NewRollbackDemo(store, store, nil, nil)

			res, err := demo.Run(context.Background(), c.scenario)
			require.Equal(t, c.decision, res.Outcome.Decision)
			require.Equal(t, c.persisted, res.Persisted)
			if c.wantErr {
				require.Error(t, err)
				require.Same(t, res.Outcome.Failure, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRollbackDemo_FailureKinds(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	demo := NewRollbackDemo(store, store, nil, nil)

	_, err := demo.RuntimeFailure(context.Background())
	require.ErrorIs(t, err, ErrRuntimeDemo)

	_, err = demo.CheckedFailure(context.Background())
	var df *DemoFailure
	require.True(t, errors.As(err, &df))
	require.Equal(t, ScenarioChecked, df.Scenario)

	_, err = demo.RollbackFor(context.Background())
	require.True(t, errors.As(err, &df))
	require.Equal(t, ScenarioRollbackFor, df.Scenario)
}

func TestRollbackDemo_OverrideAppliesToChecked(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	demo := NewRollbackDemo(store, store, nil, PolicyOverrides{
		"demo." + ScenarioChecked: {"demo_failure"},
	})
	res, err := demo.CheckedFailure(context.Background())
	require.Error(t, err)
	require.True(t, res.Outcome.RolledBack())
	require.False(t, res.Persisted)
}

func TestRollbackDemo_UnknownScenario(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	demo := NewRollbackDemo(store, store, nil, nil)
	_, err := demo.Run(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownScenario)
	require.ErrorIs(t, err, ErrBadRequest)
}

func TestRollbackDemo_PersistedCheckFailureIsLogged(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.getErr = errors.New("connection reset")
	core, logs := observer.New(zap.WarnLevel)
	demo := NewRollbackDemo(store, store, zap.New(core), nil)

	res, err := demo.RuntimeFailure(context.Background())
	require.Same(t, ErrRuntimeDemo, err)
	require.False(t, res.Persisted)
	entries := logs.FilterMessage("demo.persisted_check_failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, ScenarioRuntime, entries[0].ContextMap()["scenario"])

	_, err = demo.Success(context.Background())
	require.ErrorIs(t, err, store.getErr)
}
