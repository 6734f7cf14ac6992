package txpolicy

import (
	"fmt"
	"time"
)

// Decision is the commit-or-rollback result of one boundary.
type Decision int

const (
	Committed Decision = iota + 1
	RolledBack
)

func (d Decision) String() string {
	switch d {
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "undecided"
	}
}

// State is the lifecycle of a single boundary run.
type State int

const (
	NotStarted State = iota
	Executing
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Executing:
		return "executing"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) Terminal() bool { return s == StateCommitted || s == StateRolledBack }

func stateFor(d Decision) State {
	if d == Committed {
		return StateCommitted
	}
	return StateRolledBack
}

// Outcome describes how one boundary run terminated.
//
// Failure is the exact error returned by the unit of work; the engine never
// wraps it. A Committed outcome may carry a non-nil Failure: recoverable
// failures commit by default.
type Outcome struct {
	Boundary   string
	Decision   Decision
	Failure    error
	Panic      any
	ResolveErr error
	Joined     bool
	Duration   time.Duration
}

func (o Outcome) Committed() bool  { return o.Decision == Committed }
func (o Outcome) RolledBack() bool { return o.Decision == RolledBack }
