package availability

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// CheckRun is one debounced validation pass.
//
// A run is superseded the moment a newer run starts; it must then discard
// its results. Cancellation is cooperative: the flag is checked after each
// batch and before publishing. The run context is cancelled at the same
// time so store calls that honour it can return early.
type CheckRun struct {
	ID                  string
	Generation          uint64
	Date                string
	ExcludeAssignmentID string
	Resources           []model.Resource

	cancelled atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewCheckRun creates a run over a private copy of resources
func NewCheckRun(parent context.Context, generation uint64, resources []model.Resource, date, excludeAssignmentID string) *CheckRun {
	ctx, cancel := context.WithCancel(parent)
	return &CheckRun{
		ID:                  uuid.New().String(),
		Generation:          generation,
		Date:                date,
		ExcludeAssignmentID: excludeAssignmentID,
		Resources:           slices.Clone(resources),
		ctx:                 ctx,
		cancel:              cancel,
	}
}

// Cancel marks the run superseded. Safe to call more than once.
func (r *CheckRun) Cancel() {
	r.cancelled.Store(true)
	r.cancel()
}

// release frees the run context once the run has finished
func (r *CheckRun) release() {
	r.cancel()
}

// Cancelled reports whether the run has been superseded
func (r *CheckRun) Cancelled() bool {
	return r.cancelled.Load()
}

// Context is cancelled when the run is
func (r *CheckRun) Context() context.Context {
	return r.ctx
}

// Query builds the conflict query for one of the run's resources
func (r *CheckRun) Query(resource model.Resource) model.ConflictQuery {
	return model.ConflictQuery{
		ResourceID:          resource.ID,
		Date:                r.Date,
		ExcludeAssignmentID: r.ExcludeAssignmentID,
	}
}

// Batches partitions the run's resources into consecutive slices of at most size
func (r *CheckRun) Batches(size int) [][]model.Resource {
	if size < 1 {
		size = 1
	}
	return slices.Collect(slices.Chunk(r.Resources, size))
}
