package domain

import "strings"

type Confidence string

const (
	ConfidenceVeryLow Confidence = "very_low"
	ConfidenceLow     Confidence = "low"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceHigh    Confidence = "high"
)

type Similarity struct {
	Score      float64
	Confidence Confidence
}

// TextSimilarity computes the Jaccard index over the lower-cased words
// (length > 2) of the two texts. It is the local substitute for the remote
// matcher and must stay deterministic.
func TextSimilarity(textA, textB string) Similarity {
	tokensA := tokenize(textA)
	tokensB := tokenize(textB)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return Similarity{Score: 0, Confidence: ConfidenceVeryLow}
	}

	intersection := 0
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection

	score := float64(intersection) / float64(union)

	return Similarity{Score: score, Confidence: ConfidenceFromScore(score)}
}

// ConfidenceFromScore buckets a similarity score into a confidence level.
func ConfidenceFromScore(score float64) Confidence {
	switch {
	case score >= 0.6:
		return ConfidenceHigh
	case score >= 0.4:
		return ConfidenceMedium
	case score >= 0.2:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if len(word) > 2 {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}
