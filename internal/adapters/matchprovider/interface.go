package matchprovider

import (
	"context"

	"github.com/crmbridge/matchgate/internal/domain"
)

// Match is one scored customer/employee pair as reported by the remote
// matcher. The employee is referenced by id; the caller owns the records.
type Match struct {
	EmployeeID string
	Score      float64
	Confidence domain.Confidence
}

// HealthReport is the decoded result of one reachability probe.
type HealthReport struct {
	Healthy     bool
	ModelLoaded bool
}

type MatcherAPI interface {
	// MatchBatch scores the given employees against the customer in a single
	// round trip.
	//
	// Raises domain.ErrTemporarilyUnavailable on transport failure, a
	// non-success status, or a malformed payload. The call may be retried
	// later.
	MatchBatch(ctx context.Context, customer domain.Customer, employees []domain.Employee) ([]Match, error)

	// CheckHealth performs one reachability probe against the matcher.
	CheckHealth(ctx context.Context) (HealthReport, error)

	// Preload nudges a cold model into loading. Callers ignore the result.
	Preload(ctx context.Context) error
}
