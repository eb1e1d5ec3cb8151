package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

type storeFunc func(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error)

func (f storeFunc) ValidateResourceAvailability(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error) {
	return f(ctx, q)
}

func TestProbe_CheckOne_ReturnsStoreResult(t *testing.T) {
	store := &fakeStore{conflicts: map[string]model.ConflictResult{
		"B": model.Conflicting("asg-4", "IMM-004"),
	}}
	probe := NewProbe(store, zap.NewNop())

	query := model.ConflictQuery{ResourceID: "B", Date: "2024-06-10", ExcludeAssignmentID: "asg-9"}
	result := probe.CheckOne(context.Background(), query)

	assert.Equal(t, model.Conflicting("asg-4", "IMM-004"), result)
	require.Len(t, store.Calls(), 1)
	assert.Equal(t, query, store.Calls()[0])
}

func TestProbe_CheckOne_FailsOpen(t *testing.T) {
	tests := []struct {
		name  string
		store storeFunc
	}{
		{
			name: "store error",
			store: func(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error) {
				return model.ConflictResult{}, errors.New("connection refused")
			},
		},
		{
			name: "store panic",
			store: func(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error) {
				panic("nil row")
			},
		},
		{
			name: "conflict without assignment",
			store: func(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error) {
				return model.ConflictResult{IsAvailable: false}, nil
			},
		},
		{
			name: "conflict without code",
			store: func(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error) {
				return model.ConflictResult{IsAvailable: false, ConflictingAssignmentID: "asg-1"}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			reg := prometheus.NewRegistry()
			probe := NewProbe(tt.store, zap.New(core), WithProbeMetrics(NewMetrics(reg)))

			result := probe.CheckOne(context.Background(), model.ConflictQuery{ResourceID: "A", Date: "2024-06-10"})

			assert.True(t, result.IsAvailable)
			assert.Empty(t, result.ConflictingAssignmentID)

			entries := logs.FilterMessage("Availability check failed, treating resource as available").All()
			require.Len(t, entries, 1)
			assert.Equal(t, "A", entries[0].ContextMap()["resource_id"])
			assert.Equal(t, "2024-06-10", entries[0].ContextMap()["date"])

			assert.Equal(t, 1.0, counterValue(t, reg, "breus_availability_probes_total"))
			assert.Equal(t, 1.0, counterValue(t, reg, "breus_availability_probe_failures_total"))
		})
	}
}

func TestProbe_CheckOne_TimeoutFailsOpen(t *testing.T) {
	store := storeFunc(func(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error) {
		<-ctx.Done()
		return model.ConflictResult{}, ctx.Err()
	})
	probe := NewProbe(store, zap.NewNop(), WithProbeTimeout(10*time.Millisecond))

	result := probe.CheckOne(context.Background(), model.ConflictQuery{ResourceID: "A", Date: "2024-06-10"})

	assert.Equal(t, model.Available(), result)
}

func TestProbe_CheckOne_RateLimitWaitFailsOpen(t *testing.T) {
	store := &fakeStore{}
	probe := NewProbe(store, zap.NewNop(), WithRateLimit(0.001, 1))

	first := probe.CheckOne(context.Background(), model.ConflictQuery{ResourceID: "A", Date: "2024-06-10"})
	assert.True(t, first.IsAvailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	second := probe.CheckOne(ctx, model.ConflictQuery{ResourceID: "B", Date: "2024-06-10"})

	assert.True(t, second.IsAvailable)
	assert.Len(t, store.Calls(), 1, "throttled probe should not reach the store")
}

func TestProbe_CheckOne_CallerCancellationIsNotAFailure(t *testing.T) {
	started := make(chan struct{})
	store := storeFunc(func(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error) {
		close(started)
		<-ctx.Done()
		return model.ConflictResult{}, ctx.Err()
	})
	core, logs := observer.New(zapcore.WarnLevel)
	reg := prometheus.NewRegistry()
	probe := NewProbe(store, zap.New(core), WithProbeMetrics(NewMetrics(reg)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	result := probe.CheckOne(ctx, model.ConflictQuery{ResourceID: "A", Date: "2024-06-10"})

	assert.Equal(t, model.Available(), result)
	assert.Zero(t, logs.Len())
	assert.Equal(t, 1.0, counterValue(t, reg, "breus_availability_probes_total"))
	assert.Equal(t, 0.0, counterValue(t, reg, "breus_availability_probe_failures_total"))
}

func TestWithRateLimit_ZeroDisablesLimiter(t *testing.T) {
	probe := NewProbe(&fakeStore{}, zap.NewNop(), WithRateLimit(0, 5))
	assert.Nil(t, probe.limiter)
}
