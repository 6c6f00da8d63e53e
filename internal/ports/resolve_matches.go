package ports

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/crmbridge/matchgate/internal/app"
	"github.com/crmbridge/matchgate/internal/domain"
	"github.com/crmbridge/matchgate/internal/logging"
	"github.com/crmbridge/matchgate/internal/ratelimiting"
	"github.com/crmbridge/matchgate/internal/reporting"
)

func MakeResolveMatchesHandler(
	resolveMatches app.ResolveMatches,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(8),
		ratelimiting.BurstSize(480),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)
	userIDLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(2),
		ratelimiting.BurstSize(120),
	)
	userIDRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		// NOTE: Rate limiting based on user controlled value
		userIDLimiter,
		ratelimiting.UserIDKeyFunc,
	)

	onLimitExceeded := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit exceeded"}`))
	}

	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("resolve_matches"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("resolve_matches"),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, onLimitExceeded),
		NewRateLimitMiddleware(userIDRateLimiter, onLimitExceeded),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		request := struct {
			Customer   *customerDTO  `json:"customer"`
			Candidates []employeeDTO `json:"candidates"`
		}{}
		if err := json.Unmarshal(body, &request); err != nil {
			http.Error(w, "failed to parse request body", http.StatusBadRequest)
			return
		}
		if request.Customer == nil {
			http.Error(w, "missing customer", http.StatusBadRequest)
			return
		}

		userID := r.Header.Get("X-User-Id")
		ctx = reporting.SetUserIDInContext(ctx, userID)

		customer := customerFromDTO(*request.Customer)
		candidates := make([]domain.Employee, 0, len(request.Candidates))
		for _, candidate := range request.Candidates {
			candidates = append(candidates, employeeFromDTO(candidate))
		}

		ctx = logging.AddMetaToContext(ctx,
			slog.String("customerId", customer.ID),
			slog.Int("candidates", len(candidates)),
		)
		ctx = reporting.AddExtrasToContext(ctx,
			map[string]string{
				"customerId": customer.ID,
			},
		)

		// Degradation is signaled via source/confidence, never as an error
		results := resolveMatches(ctx, customer, candidates)

		matches := make([]matchDTO, 0, len(results))
		for _, result := range results {
			matches = append(matches, matchToDTO(result))
		}

		response, err := json.Marshal(struct {
			Matches []matchDTO `json:"matches"`
		}{Matches: matches})
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to marshal resolve response: %w", err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"internal server error"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(response)
	}

	return middleware(handler)
}
