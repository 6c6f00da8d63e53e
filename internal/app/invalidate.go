package app

import (
	"context"
	"strings"

	"github.com/crmbridge/matchgate/internal/adapters/cache"
	"github.com/crmbridge/matchgate/internal/domain"
	"github.com/crmbridge/matchgate/internal/logging"
)

// InvalidateCustomerMatches drops every cached pairwise match involving the
// customer. Called after any write to the customer record so stale matches
// are not served. Stores composing one logical cache are invalidated
// explicitly and independently.
type InvalidateCustomerMatches func(ctx context.Context, customerID string)

// InvalidateEmployeeMatches is the employee-side counterpart.
type InvalidateEmployeeMatches func(ctx context.Context, employeeID string)

func BuildInvalidateCustomerMatches(stores ...cache.Store[domain.MatchResult]) InvalidateCustomerMatches {
	return func(ctx context.Context, customerID string) {
		prefix := "id:" + customerID + "|"
		for _, store := range stores {
			store.DeleteMatching(func(key string) bool {
				return strings.HasPrefix(key, prefix)
			})
		}
		logging.FromContext(ctx).InfoContext(ctx, "Invalidated customer matches", "customerId", customerID)
	}
}

func BuildInvalidateEmployeeMatches(stores ...cache.Store[domain.MatchResult]) InvalidateEmployeeMatches {
	return func(ctx context.Context, employeeID string) {
		suffix := "|id:" + employeeID
		for _, store := range stores {
			store.DeleteMatching(func(key string) bool {
				return strings.HasSuffix(key, suffix)
			})
		}
		logging.FromContext(ctx).InfoContext(ctx, "Invalidated employee matches", "employeeId", employeeID)
	}
}
