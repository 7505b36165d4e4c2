package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for runs and items.
//
// Status-changing methods guard on the expected current status in SQL; a
// guard miss surfaces as ErrInvalidStateTransition so concurrent transitions
// cannot race past the state machine. Items for approved/exported runs are
// append-only from the engine's perspective.
type PayrollRepository interface {
	// Runs
	CreateRun(ctx context.Context, run Run) (Run, error)
	GetRunByID(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, int64, error)

	// draft → calculated, with aggregated totals.
	MarkCalculated(ctx context.Context, runID string, totals RunTotals, at time.Time) error
	// calculated → approved, recording who and when.
	MarkApproved(ctx context.Context, runID string, approverID string, at time.Time) error
	// approved → exported.
	MarkExported(ctx context.Context, runID string, at time.Time) error
	// draft|calculated → cancelled; items are kept but marked superseded.
	MarkCancelled(ctx context.Context, runID string, at time.Time) error
	// calculated → draft; deletes all items and zeroes totals so the run is
	// recalculated from scratch, never patched in place.
	ReopenRun(ctx context.Context, runID string) error

	// Items
	CreateItem(ctx context.Context, item Item) (Item, error)
	ListItemsByRunID(ctx context.Context, runID string) ([]Item, error)
	DeleteItemsByRunID(ctx context.Context, runID string) error
}
