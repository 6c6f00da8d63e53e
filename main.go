package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/crmbridge/matchgate/internal/adapters/cache"
	"github.com/crmbridge/matchgate/internal/adapters/matchprovider"
	"github.com/crmbridge/matchgate/internal/app"
	"github.com/crmbridge/matchgate/internal/config"
	"github.com/crmbridge/matchgate/internal/domain"
	"github.com/crmbridge/matchgate/internal/health"
	"github.com/crmbridge/matchgate/internal/logging"
	"github.com/crmbridge/matchgate/internal/ports"
	"github.com/crmbridge/matchgate/internal/reporting"
	"github.com/crmbridge/matchgate/internal/telemetry"
	"github.com/google/uuid"
)

// TODO: Put in config
const DASHBOARD_DOMAIN_SUFFIX = "crmbridge.app"

func main() {
	instanceID := uuid.New().String()
	logger := slog.New(logging.NewTracingLogHandler(slog.NewJSONHandler(os.Stdout, nil))).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	conf, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", conf.NonSensitiveString())

	ctx := context.Background()

	otelShutdown, err := telemetry.SetupOTelSDK(ctx, "matchgate")
	if err != nil {
		fail("Failed to set up OpenTelemetry", "error", err.Error())
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
		}
	}()

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}
	matcher, err := matchprovider.NewMatcherAPIOrMock(conf, httpClient)
	if err != nil {
		fail("Failed to initialize matcher API", "error", err.Error())
	}
	logger.Info("Initialized matcher API")

	gate := health.NewGate(matcher)
	// Nudge a cold model into loading without blocking startup
	go gate.Preload(logging.AddToContext(ctx, logger.With("component", "preload")))

	pairStore := cache.NewTTLStore[domain.MatchResult](conf.PairCacheTTL(), conf.PairCacheMaxEntries())

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(conf)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	allowedOrigins, err := ports.NewDomainSuffixes(DASHBOARD_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	resolveMatches := app.BuildResolveMatches(pairStore, matcher, gate)
	invalidateCustomer := app.BuildInvalidateCustomerMatches(pairStore)
	invalidateEmployee := app.BuildInvalidateEmployeeMatches(pairStore)

	http.HandleFunc(
		"OPTIONS /v1/matches/resolve",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/matches/resolve",
		ports.MakeResolveMatchesHandler(
			resolveMatches,
			allowedOrigins,
			logger.With("port", "resolvematches"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"GET /v1/matcher/health",
		ports.MakeMatcherHealthHandler(
			gate,
			allowedOrigins,
			logger.With("port", "matcherhealth"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/customers/{id}/invalidate",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/customers/{id}/invalidate",
		ports.MakeInvalidateCustomerHandler(
			invalidateCustomer,
			allowedOrigins,
			logger.With("port", "invalidatecustomer"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/employees/{id}/invalidate",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/employees/{id}/invalidate",
		ports.MakeInvalidateEmployeeHandler(
			invalidateEmployee,
			allowedOrigins,
			logger.With("port", "invalidateemployee"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", conf.Port()), nil)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
