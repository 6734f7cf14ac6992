package txpolicy

import (
	"context"
	"errors"
	"sync"
)

type recordingManager struct {
	mu            sync.Mutex
	calls         []string
	beginErr      error
	commitErr     error
	rollbackErr   error
	resolveCtxErr error
}

type recordingTx struct{ m *recordingManager }

func (m *recordingManager) record(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, s)
}

func (m *recordingManager) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *recordingManager) Begin(ctx context.Context) (context.Context, Transaction, error) {
	m.record("begin")
	if m.beginErr != nil {
		return nil, nil, m.beginErr
	}
	return ctx, &recordingTx{m: m}, nil
}

func (t *recordingTx) Commit(ctx context.Context) error {
	t.m.record("commit")
	t.m.mu.Lock()
	t.m.resolveCtxErr = ctx.Err()
	t.m.mu.Unlock()
	return t.m.commitErr
}

func (t *recordingTx) Rollback(context.Context) error {
	t.m.record("rollback")
	return t.m.rollbackErr
}

var (
	errRuntime = errors.New("runtime failure")
	errChecked = NewRecoverable("checked", "checked failure")
)

type myFailure struct{ reason string }

func (e *myFailure) Error() string                  { return "my failure: " + e.reason }
func (e *myFailure) Classification() Classification { return Recoverable }

type fatalFailure struct{}

func (fatalFailure) Error() string                  { return "fatal" }
func (fatalFailure) Classification() Classification { return Unrecoverable }
