package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/crmbridge/matchgate/internal/adapters/matchprovider"
	"github.com/crmbridge/matchgate/internal/domain"
	"github.com/crmbridge/matchgate/internal/health"
	"github.com/stretchr/testify/require"
)

type mockedMatcher struct {
	lock sync.Mutex

	healthReport matchprovider.HealthReport
	healthErr    error
	healthCalls  int

	preloadErr   error
	preloadCalls int
}

func (m *mockedMatcher) MatchBatch(ctx context.Context, customer domain.Customer, employees []domain.Employee) ([]matchprovider.Match, error) {
	panic("should not be called")
}

func (m *mockedMatcher) CheckHealth(ctx context.Context) (matchprovider.HealthReport, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.healthCalls++
	return m.healthReport, m.healthErr
}

func (m *mockedMatcher) Preload(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.preloadCalls++
	return m.preloadErr
}

func (m *mockedMatcher) setHealth(report matchprovider.HealthReport, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.healthReport = report
	m.healthErr = err
}

func TestGate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("initial state is unknown and not usable", func(t *testing.T) {
		t.Parallel()
		gate := health.NewGate(&mockedMatcher{})

		require.Equal(t, health.StateUnknown, gate.State())
		require.False(t, gate.IsUsable())
	})

	t.Run("successful probe with loaded model reaches ready", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthReport: matchprovider.HealthReport{Healthy: true, ModelLoaded: true}}
		gate := health.NewGate(matcher)

		require.Equal(t, health.StateReady, gate.Probe(ctx))
		require.True(t, gate.IsUsable())
	})

	t.Run("healthy probe with model still loading reaches model_loading", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthReport: matchprovider.HealthReport{Healthy: true, ModelLoaded: false}}
		gate := health.NewGate(matcher)

		require.Equal(t, health.StateModelLoading, gate.Probe(ctx))
		require.False(t, gate.IsUsable(), "model_loading must not be usable")
	})

	t.Run("failed probe reaches unavailable", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthErr: errors.New("connection refused")}
		gate := health.NewGate(matcher)

		require.Equal(t, health.StateUnavailable, gate.Probe(ctx))
		require.False(t, gate.IsUsable())
	})

	t.Run("unhealthy report reaches unavailable", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthReport: matchprovider.HealthReport{Healthy: false, ModelLoaded: true}}
		gate := health.NewGate(matcher)

		require.Equal(t, health.StateUnavailable, gate.Probe(ctx))
	})

	t.Run("unavailable gate re-probes and can recover", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthErr: errors.New("connection refused")}
		gate := health.NewGate(matcher)

		require.Equal(t, health.StateUnavailable, gate.Probe(ctx))

		matcher.setHealth(matchprovider.HealthReport{Healthy: true, ModelLoaded: true}, nil)
		require.Equal(t, health.StateReady, gate.Probe(ctx))
		require.True(t, gate.IsUsable())
	})

	t.Run("model_loading gate re-probes until the model is loaded", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthReport: matchprovider.HealthReport{Healthy: true, ModelLoaded: false}}
		gate := health.NewGate(matcher)

		require.Equal(t, health.StateModelLoading, gate.Probe(ctx))
		require.Equal(t, health.StateModelLoading, gate.Probe(ctx))

		matcher.setHealth(matchprovider.HealthReport{Healthy: true, ModelLoaded: true}, nil)
		require.Equal(t, health.StateReady, gate.Probe(ctx))
	})

	t.Run("ready is sticky: probes skip the network", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthReport: matchprovider.HealthReport{Healthy: true, ModelLoaded: true}}
		gate := health.NewGate(matcher)

		require.Equal(t, health.StateReady, gate.Probe(ctx))
		require.Equal(t, 1, matcher.healthCalls)

		// Even a now-failing backend is not consulted while ready
		matcher.setHealth(matchprovider.HealthReport{}, errors.New("down"))
		require.Equal(t, health.StateReady, gate.Probe(ctx))
		require.Equal(t, 1, matcher.healthCalls)
	})

	t.Run("mark failure demotes ready and the next probe re-checks", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthReport: matchprovider.HealthReport{Healthy: true, ModelLoaded: true}}
		gate := health.NewGate(matcher)

		require.Equal(t, health.StateReady, gate.Probe(ctx))

		gate.MarkFailure()
		require.Equal(t, health.StateUnavailable, gate.State())
		require.False(t, gate.IsUsable())

		require.Equal(t, health.StateReady, gate.Probe(ctx))
		require.Equal(t, 2, matcher.healthCalls)
	})

	t.Run("preload ignores failures", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{preloadErr: errors.New("cold start")}
		gate := health.NewGate(matcher)

		gate.Preload(ctx)
		require.Equal(t, 1, matcher.preloadCalls)
		require.Equal(t, health.StateUnknown, gate.State(), "preload must not touch gate state")
	})

	t.Run("concurrent probes never leave a torn state", func(t *testing.T) {
		t.Parallel()
		matcher := &mockedMatcher{healthReport: matchprovider.HealthReport{Healthy: true, ModelLoaded: true}}
		gate := health.NewGate(matcher)

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				gate.Probe(ctx)
			}()
		}
		wg.Wait()

		require.Equal(t, health.StateReady, gate.State())
	})
}
