package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/oauth2"

	"github.com/teemow/calgrid/internal/google"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	s := NewSessionStore(time.Hour, metrics, nil)
	t.Cleanup(s.Stop)

	now := fixedNow
	s.now = func() time.Time { return now }
	ctx := context.Background()

	a := s.Create(ctx, &oauth2.Token{AccessToken: "a"}, &google.Profile{Email: "a@example.com"}, &stubEvents{})
	b := s.Create(ctx, &oauth2.Token{AccessToken: "b"}, nil, &stubEvents{})
	require.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, fixedNow.Add(time.Hour), a.ExpiresAt)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, int64(2), activeSessions(t, reader))

	got, ok := s.Get(ctx, a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	s.Delete(ctx, b.ID)
	s.Delete(ctx, "unknown")
	_, ok = s.Get(ctx, b.ID)
	assert.False(t, ok)
	assert.Equal(t, int64(1), activeSessions(t, reader))

	now = fixedNow.Add(time.Hour)
	_, ok = s.Get(ctx, a.ID)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
	assert.Equal(t, int64(0), activeSessions(t, reader))
}

func TestSessionStore_Sweep(t *testing.T) {
	s := NewSessionStore(time.Hour, nil, nil)
	t.Cleanup(s.Stop)

	now := fixedNow
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.Create(ctx, nil, nil, nil)
	now = fixedNow.Add(30 * time.Minute)
	fresh := s.Create(ctx, nil, nil, nil)

	now = fixedNow.Add(61 * time.Minute)
	assert.Equal(t, 1, s.sweep())
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get(ctx, fresh.ID)
	assert.True(t, ok)
}

func TestSessionStore_StopTwice(t *testing.T) {
	s := NewSessionStore(time.Minute, nil, nil)
	s.Stop()
	s.Stop()
}

func activeSessions(t *testing.T, reader interface {
	Collect(context.Context, *metricdata.ResourceMetrics) error
}) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "active_sessions" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}
