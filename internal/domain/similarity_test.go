package domain_test

import (
	"testing"

	"github.com/crmbridge/matchgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSimilarity(t *testing.T) {
	t.Parallel()

	t.Run("identical texts have similarity 1", func(t *testing.T) {
		t.Parallel()
		result := domain.TextSimilarity("banking finance analyst", "banking finance analyst")
		require.InDelta(t, 1.0, result.Score, 1e-9)
		require.Equal(t, domain.ConfidenceHigh, result.Confidence)
	})

	t.Run("disjoint texts have similarity 0", func(t *testing.T) {
		t.Parallel()
		result := domain.TextSimilarity("banking finance", "graphic design")
		require.InDelta(t, 0.0, result.Score, 1e-9)
		require.Equal(t, domain.ConfidenceVeryLow, result.Confidence)
	})

	t.Run("empty text yields zero with very low confidence", func(t *testing.T) {
		t.Parallel()
		for _, texts := range [][2]string{
			{"", "banking"},
			{"banking", ""},
			{"", ""},
			{"a of it", "banking"}, // only words of length <= 2
		} {
			result := domain.TextSimilarity(texts[0], texts[1])
			assert.Equal(t, 0.0, result.Score)
			assert.Equal(t, domain.ConfidenceVeryLow, result.Confidence)
		}
	})

	t.Run("case and punctuation are ignored", func(t *testing.T) {
		t.Parallel()
		result := domain.TextSimilarity("Banking, Finance!", "banking finance")
		require.InDelta(t, 1.0, result.Score, 1e-9)
	})

	t.Run("short words are ignored", func(t *testing.T) {
		t.Parallel()
		withNoise := domain.TextSimilarity("banking at an analyst", "banking analyst in a")
		clean := domain.TextSimilarity("banking analyst", "banking analyst")
		require.Equal(t, clean.Score, withNoise.Score)
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		t.Parallel()
		first := domain.TextSimilarity("finance customer onboarding", "banking analyst experienced in finance")
		for range 10 {
			again := domain.TextSimilarity("finance customer onboarding", "banking analyst experienced in finance")
			require.Equal(t, first, again)
		}
	})

	t.Run("domain vocabulary overlap outranks unrelated role", func(t *testing.T) {
		t.Parallel()
		customer := "finance"
		banker := domain.TextSimilarity(customer, "banking analyst with finance background")
		designer := domain.TextSimilarity(customer, "graphic designer")
		require.Greater(t, banker.Score, designer.Score)
	})

	t.Run("partial overlap buckets", func(t *testing.T) {
		t.Parallel()
		// 2 shared tokens of 3 total -> 2/3 -> high
		result := domain.TextSimilarity("banking finance", "banking finance design")
		require.InDelta(t, 2.0/3.0, result.Score, 1e-9)
		require.Equal(t, domain.ConfidenceHigh, result.Confidence)

		// 1 shared of 4 -> 0.25 -> low
		result = domain.TextSimilarity("banking finance", "banking design strategy")
		require.InDelta(t, 0.25, result.Score, 1e-9)
		require.Equal(t, domain.ConfidenceLow, result.Confidence)
	})
}

func TestConfidenceFromScore(t *testing.T) {
	t.Parallel()

	cases := map[float64]domain.Confidence{
		0.0:  domain.ConfidenceVeryLow,
		0.19: domain.ConfidenceVeryLow,
		0.2:  domain.ConfidenceLow,
		0.39: domain.ConfidenceLow,
		0.4:  domain.ConfidenceMedium,
		0.59: domain.ConfidenceMedium,
		0.6:  domain.ConfidenceHigh,
		1.0:  domain.ConfidenceHigh,
	}
	for score, expected := range cases {
		assert.Equal(t, expected, domain.ConfidenceFromScore(score), "score %f", score)
	}
}

func TestMatchText(t *testing.T) {
	t.Parallel()

	t.Run("customer projection", func(t *testing.T) {
		t.Parallel()
		customer := domain.Customer{
			Name:        "Acme",
			Industry:    "finance",
			Description: "retail banking",
		}
		require.Equal(t, "Acme finance retail banking", customer.MatchText())
	})

	t.Run("employee projection includes skills", func(t *testing.T) {
		t.Parallel()
		employee := domain.Employee{
			Role:       "analyst",
			Department: "banking",
			Skills:     []string{"risk", "compliance"},
			Bio:        "ten years in finance",
		}
		require.Equal(t, "analyst banking risk compliance ten years in finance", employee.MatchText())
	})
}
