package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

const (
	// DefaultDebounce is the quiet period before a run issues its first probe
	DefaultDebounce = 800 * time.Millisecond
	// DefaultBatchSize bounds the number of probes in flight at once
	DefaultBatchSize = 5
)

var errRunSuperseded = errors.New("check run superseded")

// Prober checks one resource on one date. Implementations must not fail;
// see Probe for the fail-open implementation.
type Prober interface {
	CheckOne(ctx context.Context, query model.ConflictQuery) model.ConflictResult
}

// Checker evaluates crew availability for a target date and publishes the
// result as a StatusMap.
//
// Evaluate returns immediately. Each call supersedes the previous run,
// waits for the debounce window, then probes resources in sequential
// batches of at most batchSize concurrent probes. The published map is only
// replaced, as a whole, when a run completes without being superseded.
type Checker struct {
	prober    Prober
	logger    *zap.Logger
	metrics   *Metrics
	debounce  time.Duration
	batchSize int
	baseCtx   context.Context

	mu         sync.Mutex // guards current, generation, timer, closed
	current    *CheckRun
	generation uint64
	timer      *time.Timer
	closed     bool

	status   atomic.Pointer[model.StatusMap]
	checking atomic.Bool

	subscribers      *xsync.Map[uint64, *statusSubscriber]
	nextSubscriberID atomic.Uint64

	wg sync.WaitGroup
}

// CheckerOption configures a Checker
type CheckerOption func(*Checker)

// WithDebounce overrides DefaultDebounce
func WithDebounce(d time.Duration) CheckerOption {
	return func(c *Checker) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithBatchSize overrides DefaultBatchSize
func WithBatchSize(n int) CheckerOption {
	return func(c *Checker) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithCheckerMetrics sets the metrics collectors
func WithCheckerMetrics(m *Metrics) CheckerOption {
	return func(c *Checker) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithBaseContext sets the parent context of every run
func WithBaseContext(ctx context.Context) CheckerOption {
	return func(c *Checker) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// NewChecker creates a checker that probes through prober
func NewChecker(prober Prober, logger *zap.Logger, opts ...CheckerOption) *Checker {
	c := &Checker{
		prober:      prober,
		logger:      logger,
		metrics:     NewMetrics(nil),
		debounce:    DefaultDebounce,
		batchSize:   DefaultBatchSize,
		baseCtx:     context.Background(),
		subscribers: xsync.NewMap[uint64, *statusSubscriber](),
	}
	for _, opt := range opts {
		opt(c)
	}

	empty := model.StatusMap{}
	c.status.Store(&empty)

	return c
}

// Evaluate schedules an availability check of resources on date.
//
// An empty date or resource list clears the published map without issuing
// any probe. Resources added or removed while a run is in flight are handled
// by calling Evaluate again; runs are never patched.
func (c *Checker) Evaluate(resources []model.Resource, date string, excludeAssignmentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.supersedeLocked()

	if date == "" || len(resources) == 0 {
		c.logger.Debug("Nothing to check, clearing availability status",
			zap.String("date", date),
			zap.Int("resources", len(resources)))
		c.publishLocked(model.StatusMap{})
		return
	}

	c.generation++
	run := NewCheckRun(c.baseCtx, c.generation, resources, date, excludeAssignmentID)
	c.current = run
	c.checking.Store(true)
	c.metrics.RunsStarted.Inc()

	c.logger.Debug("Scheduled availability check",
		zap.String("run_id", run.ID),
		zap.Uint64("generation", run.Generation),
		zap.String("date", date),
		zap.Int("resources", len(run.Resources)),
		zap.Duration("debounce", c.debounce))

	c.wg.Add(1)
	c.timer = time.AfterFunc(c.debounce, func() {
		defer c.wg.Done()
		c.execute(run)
	})
}

// supersedeLocked stops a pending debounce and cancels the current run
func (c *Checker) supersedeLocked() {
	if c.timer != nil {
		if c.timer.Stop() {
			// The run never started, so its callback will not call Done
			c.wg.Done()
		}
		c.timer = nil
	}

	if c.current != nil {
		c.logger.Debug("Superseding availability check",
			zap.String("run_id", c.current.ID),
			zap.Uint64("generation", c.current.Generation))
		c.current.Cancel()
		c.metrics.RunsCancelled.Inc()
		c.current = nil
	}
}

func (c *Checker) execute(run *CheckRun) {
	started := time.Now()

	defer run.release()
	defer func() {
		if r := recover(); r != nil {
			c.fail(run, fmt.Errorf("panic during availability run: %v", r))
		}
	}()

	results, err := c.runBatches(run)
	if errors.Is(err, errRunSuperseded) {
		c.logger.Debug("Discarding superseded availability run",
			zap.String("run_id", run.ID),
			zap.Uint64("generation", run.Generation))
		return
	}
	if err != nil {
		c.fail(run, err)
		return
	}

	if !c.publishRun(run, results) {
		c.logger.Debug("Availability run superseded before publish",
			zap.String("run_id", run.ID),
			zap.Uint64("generation", run.Generation))
		return
	}

	c.metrics.RunsPublished.Inc()
	c.metrics.RunDuration.Observe(time.Since(started).Seconds())

	c.logger.Debug("Published availability status",
		zap.String("run_id", run.ID),
		zap.Uint64("generation", run.Generation),
		zap.String("date", run.Date),
		zap.Int("resources", len(results)),
		zap.Int("unavailable", len(results.Unavailable())),
		zap.Duration("elapsed", time.Since(started)))
}

// runBatches probes the run's resources batch by batch. All probes of a
// batch settle before the next batch starts.
func (c *Checker) runBatches(run *CheckRun) (model.StatusMap, error) {
	if run.Cancelled() {
		return nil, errRunSuperseded
	}

	results := make(model.StatusMap, len(run.Resources))
	var resultsMu sync.Mutex

	for i, batch := range run.Batches(c.batchSize) {
		var g errgroup.Group

		for _, resource := range batch {
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("probe for resource %s panicked: %v", resource.ID, r)
					}
				}()

				result := c.prober.CheckOne(run.Context(), run.Query(resource))

				resultsMu.Lock()
				results[resource.ID] = result
				resultsMu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("failed to check batch %d: %w", i, err)
		}

		if run.Cancelled() {
			return nil, errRunSuperseded
		}

		c.logger.Debug("Availability batch complete",
			zap.String("run_id", run.ID),
			zap.Int("batch", i),
			zap.Int("size", len(batch)))
	}

	return results, nil
}

// fail publishes an empty map for run; checking is best-effort
func (c *Checker) fail(run *CheckRun, err error) {
	c.logger.Error("Availability run failed, publishing empty status",
		zap.String("run_id", run.ID),
		zap.Uint64("generation", run.Generation),
		zap.Error(err))

	if c.publishRun(run, model.StatusMap{}) {
		c.metrics.RunsFailed.Inc()
	}
}

// publishRun swaps in status if run is still the current run
func (c *Checker) publishRun(run *CheckRun, status model.StatusMap) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if run.Cancelled() || c.current != run {
		return false
	}

	c.current = nil
	c.timer = nil
	c.publishLocked(status)
	return true
}

func (c *Checker) publishLocked(status model.StatusMap) {
	c.status.Store(&status)
	c.checking.Store(false)

	c.subscribers.Range(func(_ uint64, sub *statusSubscriber) bool {
		sub.trySend(status.Clone())
		return true
	})
}

// Status returns a copy of the published status map.
// During Checking() no particular entry is guaranteed to exist.
func (c *Checker) Status() model.StatusMap {
	return (*c.status.Load()).Clone()
}

// Checking reports whether a run is waiting for its debounce or probing
func (c *Checker) Checking() bool {
	return c.checking.Load()
}

// Generation returns the generation of the most recently started run
func (c *Checker) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Subscribe returns a channel receiving every status map published after
// the call, and a function that unsubscribes and closes the channel.
// After Close the channel is returned already closed.
func (c *Checker) Subscribe() (<-chan model.StatusMap, func()) {
	sub := newStatusSubscriber()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	id := c.nextSubscriberID.Add(1)
	c.subscribers.Store(id, sub)
	c.mu.Unlock()

	unsubscribe := func() {
		if s, ok := c.subscribers.LoadAndDelete(id); ok {
			s.close()
		}
	}

	return sub.ch, unsubscribe
}

// Close cancels any pending or in-flight run, waits for it to stop and
// closes all subscriber channels. Later Evaluate calls are ignored.
func (c *Checker) Close() {
	c.mu.Lock()
	c.closed = true
	c.supersedeLocked()
	c.checking.Store(false)
	c.mu.Unlock()

	c.wg.Wait()

	c.subscribers.Range(func(id uint64, sub *statusSubscriber) bool {
		c.subscribers.Delete(id)
		sub.close()
		return true
	})
}
