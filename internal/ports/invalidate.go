package ports

import (
	"log/slog"
	"net/http"

	"github.com/crmbridge/matchgate/internal/app"
	"github.com/crmbridge/matchgate/internal/logging"
	"github.com/crmbridge/matchgate/internal/reporting"
)

// The dashboard calls these after editing a customer or employee record so
// stale matches are not served from the pairwise cache.

func MakeInvalidateCustomerHandler(
	invalidate app.InvalidateCustomerMatches,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("invalidate_customer"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("invalidate_customer"),
		BuildCORSMiddleware(allowedOrigins),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		customerID := r.PathValue("id")
		if customerID == "" {
			http.Error(w, "missing customer id", http.StatusBadRequest)
			return
		}

		invalidate(r.Context(), customerID)

		w.WriteHeader(http.StatusNoContent)
	}

	return middleware(handler)
}

func MakeInvalidateEmployeeHandler(
	invalidate app.InvalidateEmployeeMatches,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("invalidate_employee"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("invalidate_employee"),
		BuildCORSMiddleware(allowedOrigins),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		employeeID := r.PathValue("id")
		if employeeID == "" {
			http.Error(w, "missing employee id", http.StatusBadRequest)
			return
		}

		invalidate(r.Context(), employeeID)

		w.WriteHeader(http.StatusNoContent)
	}

	return middleware(handler)
}
