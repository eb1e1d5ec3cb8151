package availability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// fakeStore records every query and tracks how many are in flight
type fakeStore struct {
	delay     time.Duration
	conflicts map[string]model.ConflictResult
	errs      map[string]error

	mu               sync.Mutex
	calls            []model.ConflictQuery
	completedAtStart []int
	completed        int
	inFlight         int
	maxInFlight      int
}

func (f *fakeStore) ValidateResourceAvailability(ctx context.Context, q model.ConflictQuery) (model.ConflictResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.completedAtStart = append(f.completedAtStart, f.completed)
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.completed++
	f.mu.Unlock()

	if err := f.errs[q.ResourceID]; err != nil {
		return model.ConflictResult{}, err
	}
	if r, ok := f.conflicts[q.ResourceID]; ok {
		return r, nil
	}
	return model.Available(), nil
}

func (f *fakeStore) Calls() []model.ConflictQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.ConflictQuery, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeStore) CallsForDate(date string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Date == date {
			n++
		}
	}
	return n
}

func (f *fakeStore) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func (f *fakeStore) CompletedAtStart() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.completedAtStart))
	copy(out, f.completedAtStart)
	return out
}

func crews(ids ...string) []model.Resource {
	resources := make([]model.Resource, 0, len(ids))
	for _, id := range ids {
		resources = append(resources, model.Resource{ID: id, Name: "Cuadrilla " + id, Kind: model.ResourceKindCrew})
	}
	return resources
}

func awaitStatus(t *testing.T, ch <-chan model.StatusMap) model.StatusMap {
	t.Helper()
	select {
	case status, ok := <-ch:
		require.True(t, ok, "subscription closed before a status was published")
		return status
	case <-time.After(3 * time.Second):
		require.FailNow(t, "timed out waiting for a published status")
		return nil
	}
}

func assertNoPublish(t *testing.T, ch <-chan model.StatusMap, wait time.Duration) {
	t.Helper()
	select {
	case status := <-ch:
		require.Failf(t, "unexpected publish", "got %v", status)
	case <-time.After(wait):
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.NotEmpty(t, mf.GetMetric())
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}
