package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// AvailabilityStore answers single-resource, single-date conflict queries
type AvailabilityStore interface {
	ValidateResourceAvailability(ctx context.Context, query model.ConflictQuery) (model.ConflictResult, error)
}

// Probe performs one availability check against the assignment store.
// It never returns an error: every failure becomes an "available" result.
type Probe struct {
	store   AvailabilityStore
	limiter *rate.Limiter
	timeout time.Duration
	metrics *Metrics
	logger  *zap.Logger
}

// ProbeOption configures a Probe
type ProbeOption func(*Probe)

// WithRateLimit throttles outbound checks. perSec <= 0 disables throttling.
func WithRateLimit(perSec float64, burst int) ProbeOption {
	return func(p *Probe) {
		if perSec <= 0 {
			p.limiter = nil
			return
		}
		p.limiter = rate.NewLimiter(rate.Limit(perSec), max(burst, 1))
	}
}

// WithProbeTimeout bounds each store round trip. d <= 0 means no bound.
func WithProbeTimeout(d time.Duration) ProbeOption {
	return func(p *Probe) {
		p.timeout = d
	}
}

// WithProbeMetrics sets the metrics collectors
func WithProbeMetrics(m *Metrics) ProbeOption {
	return func(p *Probe) {
		if m != nil {
			p.metrics = m
		}
	}
}

// NewProbe creates a probe over the given store
func NewProbe(store AvailabilityStore, logger *zap.Logger, opts ...ProbeOption) *Probe {
	p := &Probe{
		store:   store,
		metrics: NewMetrics(nil),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckOne checks a single resource on a single date
func (p *Probe) CheckOne(ctx context.Context, query model.ConflictQuery) model.ConflictResult {
	p.metrics.ProbesIssued.Inc()

	result, err := p.query(ctx, query)
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		p.logger.Debug("Availability check abandoned by caller",
			zap.String("resource_id", query.ResourceID),
			zap.String("date", query.Date))
		return model.Available()
	}
	if err != nil {
		return p.failOpen(query, err)
	}

	return result
}

// query issues the store call and reports every failure as an error,
// including panics and results that break the ConflictResult invariant
func (p *Probe) query(ctx context.Context, query model.ConflictQuery) (result model.ConflictResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("store panicked: %v", r)
		}
	}()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return model.ConflictResult{}, fmt.Errorf("failed to acquire probe slot: %w", err)
		}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result, err = p.store.ValidateResourceAvailability(ctx, query)
	if err != nil {
		return model.ConflictResult{}, fmt.Errorf("failed to validate resource availability: %w", err)
	}

	if err := result.Validate(); err != nil {
		return model.ConflictResult{}, fmt.Errorf("store returned an unusable result: %w", err)
	}

	return result, nil
}

// failOpen is the single place where a probe failure becomes a result
func (p *Probe) failOpen(query model.ConflictQuery, err error) model.ConflictResult {
	p.metrics.ProbeFailures.Inc()
	p.logger.Warn("Availability check failed, treating resource as available",
		zap.String("resource_id", query.ResourceID),
		zap.String("date", query.Date),
		zap.String("exclude_assignment_id", query.ExcludeAssignmentID),
		zap.Error(err))
	return model.Available()
}
