package weather

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathermcp/weather-mcp/internal/cache"
)

// fakeProvider counts calls and serves canned reports or a fixed error.
type fakeProvider struct {
	calls atomic.Int32
	err   error
}

func (p *fakeProvider) Current(ctx context.Context, city string, unit Unit) (*Report, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return &Report{City: city, Unit: unit}, nil
}

func newTestService(t *testing.T, p Provider) *Service {
	t.Helper()
	c, err := cache.New[*Report](cache.Config{Capacity: 10, TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return NewService(p, c)
}

func TestServiceCachesReports(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(t, p)
	ctx := context.Background()

	first, err := svc.Get(ctx, "London", UnitCentigrade)
	require.NoError(t, err)

	// Differently-cased and padded requests share the entry.
	second, err := svc.Get(ctx, "  london ", UnitCentigrade)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), p.calls.Load())

	// A different unit is a different entry.
	_, err = svc.Get(ctx, "London", UnitKelvin)
	require.NoError(t, err)
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestServiceValidation(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(t, p)
	ctx := context.Background()

	_, err := svc.Get(ctx, "", UnitCentigrade)
	assert.ErrorIs(t, err, ErrEmptyCity)

	_, err = svc.Get(ctx, "   ", UnitCentigrade)
	assert.ErrorIs(t, err, ErrEmptyCity)

	_, err = svc.Get(ctx, strings.Repeat("x", MaxCityLen+1), UnitCentigrade)
	assert.ErrorIs(t, err, ErrCityTooLong)

	assert.Equal(t, int32(0), p.calls.Load(), "invalid requests never reach the provider")
}

func TestServiceDoesNotCacheFailures(t *testing.T) {
	p := &fakeProvider{err: errors.New("provider down")}
	svc := newTestService(t, p)
	ctx := context.Background()

	_, err := svc.Get(ctx, "London", UnitCentigrade)
	require.Error(t, err)

	p.err = nil
	rep, err := svc.Get(ctx, "London", UnitCentigrade)
	require.NoError(t, err)
	assert.Equal(t, "London", rep.City)
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestServiceStats(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(t, p)
	ctx := context.Background()

	_, _ = svc.Get(ctx, "London", UnitCentigrade)
	_, _ = svc.Get(ctx, "London", UnitCentigrade)

	st := svc.Stats()
	assert.Equal(t, 1, st.Entries)
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
}
