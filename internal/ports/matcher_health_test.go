package ports_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/crmbridge/matchgate/internal/adapters/matchprovider"
	"github.com/crmbridge/matchgate/internal/domain"
	"github.com/crmbridge/matchgate/internal/health"
	"github.com/crmbridge/matchgate/internal/ports"
	"github.com/stretchr/testify/require"
)

type staticMatcher struct {
	report matchprovider.HealthReport
	err    error
}

func (m *staticMatcher) MatchBatch(ctx context.Context, customer domain.Customer, employees []domain.Employee) ([]matchprovider.Match, error) {
	panic("should not be called")
}

func (m *staticMatcher) CheckHealth(ctx context.Context) (matchprovider.HealthReport, error) {
	return m.report, m.err
}

func (m *staticMatcher) Preload(ctx context.Context) error {
	return nil
}

func TestMakeMatcherHealthHandler(t *testing.T) {
	t.Parallel()

	allowedOrigins, err := ports.NewDomainSuffixes(dashboardDomainSuffix)
	require.NoError(t, err)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	getState := func(t *testing.T, matcher matchprovider.MatcherAPI) (string, bool) {
		t.Helper()
		handler := ports.MakeMatcherHealthHandler(health.NewGate(matcher), allowedOrigins, logger, noopMiddleware)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/matcher/health", nil)
		handler(w, r)

		resp := w.Result()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var response struct {
			State  string `json:"state"`
			Usable bool   `json:"usable"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
		return response.State, response.Usable
	}

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		state, usable := getState(t, &staticMatcher{report: matchprovider.HealthReport{Healthy: true, ModelLoaded: true}})
		require.Equal(t, "ready", state)
		require.True(t, usable)
	})

	t.Run("model loading", func(t *testing.T) {
		t.Parallel()
		state, usable := getState(t, &staticMatcher{report: matchprovider.HealthReport{Healthy: true, ModelLoaded: false}})
		require.Equal(t, "model_loading", state)
		require.False(t, usable)
	})

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()
		state, usable := getState(t, &staticMatcher{err: errors.New("connection refused")})
		require.Equal(t, "unavailable", state)
		require.False(t, usable)
	})
}
