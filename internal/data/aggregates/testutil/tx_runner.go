package testutil

import (
	"context"
	"sync"

	"github.com/nedgladstone/cardball/internal/data/aggregates"
	"github.com/nedgladstone/cardball/internal/platform/dbctx"
)

// InjectedTxRunner wraps Inner (or runs bodies without a transaction when Inner is nil)
// and injects failures around the body. An injected commit failure is returned from
// inside the inner transaction, so a real database rolls back.
type InjectedTxRunner struct {
	Inner aggregates.TxRunner

	mu sync.Mutex

	FailBegin  error
	FailCommit error
	// FailCommitTimes limits FailCommit to the first N transactions. Zero means every one.
	FailCommitTimes int

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failCommit := r.FailCommit
	if failCommit != nil && r.FailCommitTimes > 0 && r.BeginCalls > r.FailCommitTimes {
		failCommit = nil
	}
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	if err != nil {
		r.RollbackCalls++
	} else {
		r.CommitCalls++
	}
	r.mu.Unlock()
	return err
}
