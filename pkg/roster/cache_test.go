package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

type countingSource struct {
	resources []model.Resource
	err       error
	calls     int
}

func (s *countingSource) ListRoster(ctx context.Context, role model.Role) ([]model.Resource, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Resource
	for _, r := range s.resources {
		if role == "" || r.Role == role {
			out = append(out, r)
		}
	}
	return out, nil
}

func testRoster() []model.Resource {
	return []model.Resource{
		{ID: "ana", Name: "Ana", Kind: model.ResourceKindPerson, Role: model.RoleDiver},
		{ID: "bruno", Name: "Bruno", Kind: model.ResourceKindPerson, Role: model.RoleSupervisor},
	}
}

func TestCachedSource_CachesPerRole(t *testing.T) {
	source := &countingSource{resources: testRoster()}
	cached := NewCachedSource(source, time.Minute, zap.NewNop())

	for range 3 {
		divers, err := cached.ListRoster(context.Background(), model.RoleDiver)
		require.NoError(t, err)
		require.Len(t, divers, 1)
		assert.Equal(t, "ana", divers[0].ID)
	}
	assert.Equal(t, 1, source.calls)

	all, err := cached.ListRoster(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, source.calls)
}

func TestCachedSource_ReturnsCopies(t *testing.T) {
	source := &countingSource{resources: testRoster()}
	cached := NewCachedSource(source, time.Minute, zap.NewNop())

	first, err := cached.ListRoster(context.Background(), "")
	require.NoError(t, err)
	first[0].Name = "changed"

	second, err := cached.ListRoster(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", second[0].Name)
}

func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	source := &countingSource{err: errors.New("quota exceeded")}
	cached := NewCachedSource(source, time.Minute, zap.NewNop())

	_, err := cached.ListRoster(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, source.err)

	source.err = nil
	source.resources = testRoster()

	roster, err := cached.ListRoster(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, roster, 2)
	assert.Equal(t, 2, source.calls)
}

func TestCachedSource_Expiry(t *testing.T) {
	source := &countingSource{resources: testRoster()}
	cached := NewCachedSource(source, 20*time.Millisecond, zap.NewNop())

	_, err := cached.ListRoster(context.Background(), "")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = cached.ListRoster(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedSource_Invalidate(t *testing.T) {
	source := &countingSource{resources: testRoster()}
	cached := NewCachedSource(source, time.Minute, zap.NewNop())

	_, _ = cached.ListRoster(context.Background(), "")
	cached.Invalidate()
	_, _ = cached.ListRoster(context.Background(), "")

	assert.Equal(t, 2, source.calls)
}

func TestWithCache(t *testing.T) {
	source := &countingSource{}

	assert.Same(t, Source(source), WithCache(source, 0, zap.NewNop()))
	assert.IsType(t, &CachedSource{}, WithCache(source, time.Second, zap.NewNop()))
}
