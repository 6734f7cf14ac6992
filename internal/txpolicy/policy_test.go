package txpolicy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want Classification
	}{
		{"untagged", errRuntime, Unrecoverable},
		{"recoverable sentinel", errChecked, Recoverable},
		{"wrapped recoverable", fmt.Errorf("charge: %w", errChecked), Recoverable},
		{"typed recoverable", &myFailure{reason: "x"}, Recoverable},
		{"typed unrecoverable", fatalFailure{}, Unrecoverable},
		{"unrecoverable failure", NewUnrecoverable("system", "boom"), Unrecoverable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, Classify(c.err))
		})
	}
}

func TestPolicy_Decide(t *testing.T) {
	t.Parallel()
	forced := NewPolicy(RollbackOn(errChecked))
	cases := []struct {
		name   string
		policy Policy
		err    error
		want   Decision
	}{
		{"normal completion", Policy{}, nil, Committed},
		{"normal completion ignores policy", forced, nil, Committed},
		{"unrecoverable, empty policy", Policy{}, errRuntime, RolledBack},
		{"recoverable, empty policy", Policy{}, errChecked, Committed},
		{"recoverable, forced", forced, errChecked, RolledBack},
		{"wrapped recoverable, forced", forced, fmt.Errorf("ctx: %w", errChecked), RolledBack},
		{"unrecoverable, other forced", forced, errRuntime, RolledBack},
		{"other recoverable, not forced", forced, &myFailure{}, Committed},
		{"forced by type", NewPolicy(RollbackOnType[*myFailure]()), &myFailure{reason: "y"}, RolledBack},
		{"forced by code", NewPolicy(RollbackOnCode("checked")), errChecked, RolledBack},
		{"code mismatch", NewPolicy(RollbackOnCode("other")), errChecked, Committed},
		{"untagged error by identity", NewPolicy(RollbackOn(errRuntime)), errRuntime, RolledBack},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, c.policy.Decide(c.err))
		})
	}
}

func TestPolicy_WithDoesNotMutate(t *testing.T) {
	t.Parallel()
	base := NewPolicy()
	extended := base.With(RollbackOn(errChecked))

	require.Equal(t, 0, base.Len())
	require.Equal(t, 1, extended.Len())
	require.Equal(t, Committed, base.Decide(errChecked))
	require.Equal(t, RolledBack, extended.Decide(errChecked))
}

func TestPolicy_NewPolicyCopiesRules(t *testing.T) {
	t.Parallel()
	rules := []Rule{RollbackOn(errChecked)}
	p := NewPolicy(rules...)
	rules[0] = RollbackOnCode("nothing")
	require.Equal(t, RolledBack, p.Decide(errChecked))
}

func TestRollbackOn_IgnoresNil(t *testing.T) {
	t.Parallel()
	p := NewPolicy(RollbackOn(nil, errChecked))
	require.Equal(t, RolledBack, p.Decide(errChecked))
	require.False(t, p.ForcesRollback(errors.New("unrelated")))
}

func TestPolicy_String(t *testing.T) {
	t.Parallel()
	require.Equal(t, "policy{}", Policy{}.String())
	require.Contains(t, NewPolicy(RollbackOnCode("a", "b")).String(), "code(a,b)")
}
