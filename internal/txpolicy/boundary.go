package txpolicy

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	ErrBegin    = errors.New("txpolicy: begin transaction")
	ErrCommit   = errors.New("txpolicy: commit transaction")
	ErrRollback = errors.New("txpolicy: rollback transaction")
	ErrNilWork  = errors.New("txpolicy: nil unit of work")
	// ErrUnexpectedRollback is returned by an outer boundary whose work
	// succeeded but which had to roll back because a joined inner boundary
	// decided RolledBack.
	ErrUnexpectedRollback = errors.New("txpolicy: transaction rolled back because it was marked rollback-only")
)

// Work is a unit of work. It runs exactly once per boundary, synchronously,
// with the transaction-carrying context returned by the ResourceManager.
type Work func(ctx context.Context) error

// Boundary is a named, reusable transaction boundary with a fixed policy.
// A Boundary holds no per-run state and may be used from several goroutines.
type Boundary struct {
	name     string
	manager  ResourceManager
	policy   Policy
	log      *zap.Logger
	observer func(Outcome)
}

type Option func(*Boundary)

func WithName(name string) Option          { return func(b *Boundary) { b.name = name } }
func WithPolicy(p Policy) Option           { return func(b *Boundary) { b.policy = NewPolicy(p.rules...) } }
func WithLogger(l *zap.Logger) Option      { return func(b *Boundary) { b.log = l } }
func WithObserver(fn func(Outcome)) Option { return func(b *Boundary) { b.observer = fn } }

func New(manager ResourceManager, opts ...Option) *Boundary {
	b := &Boundary{name: "boundary", manager: manager}
	for _, opt := range opts {
		opt(b)
	}
	if b.manager == nil {
		b.manager = nop
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b
}

func (b *Boundary) Name() string   { return b.name }
func (b *Boundary) Policy() Policy { return b.policy }

// Run executes work inside a one-off boundary on manager with policy.
func Run(ctx context.Context, manager ResourceManager, policy Policy, work Work) (Outcome, error) {
	return New(manager, WithPolicy(policy)).Run(ctx, work)
}

// Run begins a transaction, invokes work once and then commits or rolls back
// according to the policy.
//
// The returned error is the exact error returned by work, never wrapped. Note
// that a Recoverable failure outside the forced-rollback set is returned
// together with a Committed outcome: callers must check the outcome, not only
// the error, to know whether the work's writes were kept.
//
// When work succeeds but commit fails, the returned error wraps ErrCommit. A
// panic in work rolls back and is re-raised with the original value.
//
// Inside an active boundary of the same manager, Run joins it instead of
// beginning a new transaction; see join.
func (b *Boundary) Run(ctx context.Context, work Work) (Outcome, error) {
	if work == nil {
		return Outcome{Boundary: b.name, Decision: RolledBack, ResolveErr: ErrNilWork}, ErrNilWork
	}
	if outer := activeScope(ctx, b.manager); outer != nil {
		return b.join(ctx, outer, work)
	}
	return b.run(ctx, work)
}

func (b *Boundary) run(ctx context.Context, work Work) (Outcome, error) {
	start := time.Now()
	log := b.log.With(zap.String("boundary", b.name))
	out := Outcome{Boundary: b.name}
	exec := &execution{}

	txCtx, tx, err := b.manager.Begin(ctx)
	if err != nil {
		out.Decision = RolledBack
		out.ResolveErr = fmt.Errorf("%w: %w", ErrBegin, err)
		out.Duration = time.Since(start)
		log.Error("boundary.begin_failed", zap.Error(err))
		b.notify(out)
		return out, out.ResolveErr
	}
	exec.transition(Executing)
	resolveCtx := context.WithoutCancel(ctx)
	sc := &scope{manager: b.manager, parent: scopeFrom(txCtx)}
	txCtx = context.WithValue(txCtx, scopeKey{}, sc)
	defer func() {
		// work left via runtime.Goexit: nothing was decided, release the transaction.
		if exec.state == Executing {
			_ = tx.Rollback(resolveCtx)
			sc.done.Store(true)
			log.Warn("boundary.abandoned")
		}
	}()

	pval, panicked, failure := invoke(txCtx, work)

	decision := b.policy.Decide(failure)
	if panicked {
		decision = RolledBack
	}
	unexpected := decision == Committed && sc.rollbackOnly.Load()
	if unexpected {
		decision = RolledBack
	}

	var resolveErr error
	if decision == Committed {
		if err := tx.Commit(resolveCtx); err != nil {
			resolveErr = fmt.Errorf("%w: %w", ErrCommit, err)
		}
	} else if err := tx.Rollback(resolveCtx); err != nil {
		resolveErr = fmt.Errorf("%w: %w", ErrRollback, err)
	}
	exec.transition(stateFor(decision))
	sc.done.Store(true)
	if unexpected && failure == nil {
		resolveErr = errors.Join(ErrUnexpectedRollback, resolveErr)
	}

	out.Decision = decision
	out.Failure = failure
	out.Panic = pval
	out.ResolveErr = resolveErr
	out.Duration = time.Since(start)
	b.logOutcome(log, out)
	b.notify(out)

	if panicked {
		panic(pval)
	}
	if failure != nil {
		return out, failure
	}
	return out, resolveErr
}

// join runs work inside an outer boundary of the same manager. The joined
// boundary never begins, commits or rolls back; a RolledBack decision marks
// the outer boundary rollback-only.
func (b *Boundary) join(ctx context.Context, outer *scope, work Work) (Outcome, error) {
	start := time.Now()
	pval, panicked, failure := invoke(ctx, work)
	decision := b.policy.Decide(failure)
	if panicked {
		decision = RolledBack
	}
	if decision == RolledBack {
		outer.rollbackOnly.Store(true)
	}
	out := Outcome{
		Boundary: b.name,
		Decision: decision,
		Failure:  failure,
		Panic:    pval,
		Joined:   true,
		Duration: time.Since(start),
	}
	b.log.Debug("boundary.joined",
		zap.String("boundary", b.name),
		zap.String("decision", decision.String()),
		zap.Bool("rollback_only", decision == RolledBack),
	)
	b.notify(out)
	if panicked {
		panic(pval)
	}
	return out, failure
}

func invoke(ctx context.Context, work Work) (pval any, panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			pval, panicked = r, true
		}
	}()
	return nil, false, work(ctx)
}

func (b *Boundary) logOutcome(log *zap.Logger, out Outcome) {
	fields := []zap.Field{
		zap.String("decision", out.Decision.String()),
		zap.Duration("duration", out.Duration),
	}
	if out.Failure != nil {
		fields = append(fields,
			zap.NamedError("failure", out.Failure),
			zap.String("classification", Classify(out.Failure).String()),
			zap.Bool("forced", b.policy.ForcesRollback(out.Failure)),
		)
	}
	if out.Panic != nil {
		fields = append(fields, zap.Any("panic", out.Panic))
	}
	switch {
	case out.ResolveErr != nil:
		log.Error("boundary.resolve_failed", append(fields, zap.Error(out.ResolveErr))...)
	case out.Decision == Committed:
		log.Info("boundary.commit", fields...)
	default:
		log.Info("boundary.rollback", fields...)
	}
}

func (b *Boundary) notify(out Outcome) {
	if b.observer != nil {
		b.observer(out)
	}
}

type execution struct{ state State }

func (e *execution) transition(to State) {
	ok := false
	switch e.state {
	case NotStarted:
		ok = to == Executing
	case Executing:
		ok = to.Terminal()
	}
	if !ok {
		panic(fmt.Sprintf("txpolicy: invalid transition %s -> %s", e.state, to))
	}
	e.state = to
}

type scopeKey struct{}

type scope struct {
	manager      ResourceManager
	parent       *scope
	rollbackOnly atomic.Bool
	// done is set once the transaction is resolved; a context kept past that
	// point must not join it.
	done atomic.Bool
}

func scopeFrom(ctx context.Context) *scope {
	s, _ := ctx.Value(scopeKey{}).(*scope)
	return s
}

func activeScope(ctx context.Context, m ResourceManager) *scope {
	for s := scopeFrom(ctx); s != nil; s = s.parent {
		if s.manager == m && !s.done.Load() {
			return s
		}
	}
	return nil
}

// InBoundary reports whether ctx belongs to an active boundary on manager.
func InBoundary(ctx context.Context, manager ResourceManager) bool {
	return activeScope(ctx, manager) != nil
}
