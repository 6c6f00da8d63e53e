package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type appMetricsCollection struct {
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	fallbacks   metric.Int64Counter
}

var metrics appMetricsCollection

func init() {
	const name = "matchgate/app"
	meter := otel.Meter(name)

	cacheHits, err := meter.Int64Counter(
		"app/pair_cache_hits",
		metric.WithDescription("Customer/employee pairs served from the pairwise cache"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create cache hit metric: %w", err))
	}

	cacheMisses, err := meter.Int64Counter(
		"app/pair_cache_misses",
		metric.WithDescription("Customer/employee pairs not found in the pairwise cache"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create cache miss metric: %w", err))
	}

	fallbacks, err := meter.Int64Counter(
		"app/fallback_scores",
		metric.WithDescription("Pairs scored by the local fallback instead of the remote matcher"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create fallback metric: %w", err))
	}

	metrics = appMetricsCollection{
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		fallbacks:   fallbacks,
	}
}

func recordCacheLookups(ctx context.Context, hits, misses int) {
	metrics.cacheHits.Add(ctx, int64(hits))
	metrics.cacheMisses.Add(ctx, int64(misses))
}

func recordFallbacks(ctx context.Context, pairs int) {
	metrics.fallbacks.Add(ctx, int64(pairs))
}
