package seating

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrCommitFailed matches every *CommitError via errors.Is.
var ErrCommitFailed = errors.New("seating: commit failed")

// CommitError reports a batch write that did not fully land.  The store
// may hold some of the new values; the snapshot has already been dropped
// so the next read shows whatever actually persisted.
type CommitError struct {
	Action    Action
	Requested int
	Updated   int
	Failed    int
	Err       error // first underlying error, nil for count mismatches only
}

func (e *CommitError) Error() string {
	msg := fmt.Sprintf("%s: %d of %d registrations were not updated; sign in again and retry", e.Action, e.Failed, e.Requested)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommitError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommitFailed}
	}
	return []error{ErrCommitFailed, e.Err}
}

// writeResult is what a write strategy reports back to commit.
type writeResult struct {
	updated int
	failed  int
	err     error
}

// writeEach fans out one UpdateByID per assignment, bounded by the
// service concurrency.  Every request settles before it returns; an
// error on one row does not cancel the others.
func (s *Service) writeEach(ctx context.Context, updates []Assignment) writeResult {
	var (
		g       errgroup.Group
		updated atomic.Int64
		failed  atomic.Int64
		once    sync.Once
		first   error
	)
	g.SetLimit(s.concurrency)
	for _, u := range updates {
		u := u
		g.Go(func() error {
			n, err := s.store.UpdateByID(ctx, u.ID, u.TableNo, u.SeatZone)
			if err != nil {
				failed.Add(1)
				once.Do(func() { first = fmt.Errorf("update %s: %w", u.ID, err) })
				return nil
			}
			if n != 1 {
				failed.Add(1)
			}
			updated.Add(n)
			return nil
		})
	}
	_ = g.Wait()
	return writeResult{updated: int(updated.Load()), failed: int(failed.Load()), err: first}
}

// writeCleared clears every id in one UpdateByIDSet request.  A short
// affected-row count marks the missing rows as failed.
func (s *Service) writeCleared(ctx context.Context, updates []Assignment) writeResult {
	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
	}
	n, err := s.store.UpdateByIDSet(ctx, ids)
	if err != nil {
		return writeResult{failed: len(ids), err: fmt.Errorf("clear %d registrations: %w", len(ids), err)}
	}
	res := writeResult{updated: int(n)}
	if res.updated < len(ids) {
		res.failed = len(ids) - res.updated
	}
	return res
}

type writeFunc func(context.Context, []Assignment) writeResult

// commit runs the optimistic-write-verify-reconcile sequence shared by
// every seating action:
//
//  1. patch the snapshot so readers see the new layout immediately,
//  2. write to the store,
//  3. accept only if every row reports exactly one affected row,
//  4. drop the snapshot either way so the next read comes from the store.
//
// Writes are not cancelled when ctx is; a request that goes away mid
// commit still lands its writes and still reconciles the snapshot.
func (s *Service) commit(ctx context.Context, run *run, updates []Assignment, write writeFunc) (Outcome, error) {
	ctx = context.WithoutCancel(ctx)
	log := s.logFor(ctx).With(run.fields()...)

	if err := s.snap.Apply(ctx, updates); err != nil {
		log.Warn("optimistic snapshot update failed", zap.Error(err))
	}

	res := write(ctx, updates)
	out := Outcome{
		Action:    run.action,
		RunID:     run.id,
		Requested: len(updates),
		Updated:   res.updated,
	}

	failed := res.failed
	if mismatch := len(updates) - res.updated; failed == 0 && mismatch != 0 {
		// more rows than requested is as wrong as fewer
		failed = max(mismatch, -mismatch)
	}

	if err := s.snap.Invalidate(ctx); err != nil {
		log.Error("snapshot invalidation failed", zap.Error(err))
	}

	if failed > 0 {
		cerr := &CommitError{
			Action:    run.action,
			Requested: len(updates),
			Updated:   res.updated,
			Failed:    failed,
			Err:       res.err,
		}
		s.audit(ctx, run, out, StatusFailed)
		log.Warn("seating commit failed", fieldsForFailure(cerr)...)
		return out, cerr
	}

	s.audit(ctx, run, out, StatusCommitted)
	log.Info("seating commit succeeded", fieldsForOutcome(out)...)
	return out, nil
}
