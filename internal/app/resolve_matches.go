package app

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/crmbridge/matchgate/internal/adapters/cache"
	"github.com/crmbridge/matchgate/internal/adapters/matchprovider"
	"github.com/crmbridge/matchgate/internal/cachekey"
	"github.com/crmbridge/matchgate/internal/domain"
	"github.com/crmbridge/matchgate/internal/health"
	"github.com/crmbridge/matchgate/internal/logging"
	"github.com/crmbridge/matchgate/internal/reporting"
)

// ResolveMatches scores every candidate employee against the customer and
// returns the full list ordered by score, highest first. It never fails:
// when the remote matcher cannot be used the misses are scored locally and
// tagged SourceFallback.
type ResolveMatches func(ctx context.Context, customer domain.Customer, candidates []domain.Employee) []domain.MatchResult

type matcherGate interface {
	IsUsable() bool
	Probe(ctx context.Context) health.State
	MarkFailure()
}

type pendingMatch struct {
	index    int
	key      string
	employee domain.Employee
}

func BuildResolveMatches(
	pairStore cache.Store[domain.MatchResult],
	matcher matchprovider.MatcherAPI,
	gate matcherGate,
) ResolveMatches {
	return func(ctx context.Context, customer domain.Customer, candidates []domain.Employee) []domain.MatchResult {
		logger := logging.FromContext(ctx)

		if len(candidates) == 0 {
			return []domain.MatchResult{}
		}

		results := make([]domain.MatchResult, len(candidates))
		misses := make([]pendingMatch, 0, len(candidates))
		for i, candidate := range candidates {
			key := cachekey.Pair(customer, candidate)
			if cached, ok := pairStore.Get(key); ok {
				cached.Source = domain.SourceCache
				results[i] = cached
				continue
			}
			misses = append(misses, pendingMatch{index: i, key: key, employee: candidate})
		}

		logger.InfoContext(ctx, "Resolving matches", "candidates", len(candidates), "cacheHits", len(candidates)-len(misses), "cacheMisses", len(misses))
		recordCacheLookups(ctx, len(candidates)-len(misses), len(misses))

		if len(misses) > 0 {
			if !resolveRemotely(ctx, pairStore, matcher, gate, customer, misses, results) {
				resolveWithFallback(ctx, customer, misses, results)
			}
		}

		// Stable sort: ties keep input candidate order
		sort.SliceStable(results, func(i, j int) bool {
			a, b := results[i].Score, results[j].Score
			if math.IsNaN(a) {
				return false
			}
			if math.IsNaN(b) {
				return true
			}
			return a > b
		})

		return results
	}
}

// resolveRemotely sends the uncached pairs to the matcher in a single round
// trip and fills in the corresponding results. It reports whether every miss
// was resolved; on any failure the caller falls back locally.
func resolveRemotely(
	ctx context.Context,
	pairStore cache.Store[domain.MatchResult],
	matcher matchprovider.MatcherAPI,
	gate matcherGate,
	customer domain.Customer,
	misses []pendingMatch,
	results []domain.MatchResult,
) bool {
	if !gate.IsUsable() && gate.Probe(ctx) != health.StateReady {
		return false
	}

	employees := make([]domain.Employee, 0, len(misses))
	for _, miss := range misses {
		employees = append(employees, miss.employee)
	}

	matches, err := matcher.MatchBatch(ctx, customer, employees)
	if err != nil {
		gate.MarkFailure()
		reporting.Report(ctx, fmt.Errorf("match batch failed, degrading to fallback: %w", err))
		return false
	}

	matchByEmployeeID := make(map[string]matchprovider.Match, len(matches))
	for _, match := range matches {
		matchByEmployeeID[match.EmployeeID] = match
	}

	for _, miss := range misses {
		match, ok := matchByEmployeeID[miss.employee.ID]
		if !ok || miss.employee.ID == "" {
			// Pairs the matcher did not score degrade individually
			results[miss.index] = fallbackResult(customer, miss.employee)
			continue
		}

		result := domain.MatchResult{
			Employee:   miss.employee,
			Score:      match.Score,
			Confidence: match.Confidence,
			Source:     domain.SourceRemote,
		}
		results[miss.index] = result
		pairStore.Set(miss.key, result)
	}

	return true
}

// resolveWithFallback scores the misses locally. Fallback results are
// deliberately not cached: they are cheap to recompute and caching them
// would mask the remote matcher becoming available again.
func resolveWithFallback(ctx context.Context, customer domain.Customer, misses []pendingMatch, results []domain.MatchResult) {
	logging.FromContext(ctx).InfoContext(ctx, "Matcher not usable, scoring locally", "pairs", len(misses))
	recordFallbacks(ctx, len(misses))

	for _, miss := range misses {
		results[miss.index] = fallbackResult(customer, miss.employee)
	}
}

func fallbackResult(customer domain.Customer, employee domain.Employee) domain.MatchResult {
	similarity := domain.TextSimilarity(customer.MatchText(), employee.MatchText())
	return domain.MatchResult{
		Employee:   employee,
		Score:      similarity.Score,
		Confidence: similarity.Confidence,
		Source:     domain.SourceFallback,
	}
}
