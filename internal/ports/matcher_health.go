package ports

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/crmbridge/matchgate/internal/health"
	"github.com/crmbridge/matchgate/internal/logging"
)

// MakeMatcherHealthHandler exposes the gate state for the dashboard, which
// shows "estimated matches" while the remote matcher is not usable.
func MakeMatcherHealthHandler(
	gate *health.Gate,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("matcher_health"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		BuildCORSMiddleware(allowedOrigins),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		state := gate.Probe(r.Context())

		response, err := json.Marshal(struct {
			State  string `json:"state"`
			Usable bool   `json:"usable"`
		}{
			State:  string(state),
			Usable: state == health.StateReady,
		})
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(response)
	}

	return middleware(handler)
}
