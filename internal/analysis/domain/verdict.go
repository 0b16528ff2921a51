// Package domain holds the types produced by record analysis.
package domain

import (
	dnsdomain "nathanbeddoewebdev/dnsweeper/internal/dns/domain"
)

// SafeToDeleteThreshold is the confidence at or above which a garbage record
// is recommended for deletion rather than review.
const SafeToDeleteThreshold = 0.8

// Recommendation is the action suggested for a record.
type Recommendation string

const (
	RecommendationKeep         Recommendation = "keep"
	RecommendationReviewNeeded Recommendation = "review_needed"
	RecommendationSafeToDelete Recommendation = "safe_to_delete"
)

// RecommendationFor maps an evaluation outcome to a recommendation.
func RecommendationFor(isGarbage bool, confidence float64) Recommendation {
	switch {
	case !isGarbage:
		return RecommendationKeep
	case confidence >= SafeToDeleteThreshold:
		return RecommendationSafeToDelete
	default:
		return RecommendationReviewNeeded
	}
}

// CheckVerdict is the outcome of a single check against a single record.
type CheckVerdict struct {
	IsGarbage  bool           `json:"isGarbage"`
	Reason     string         `json:"reason,omitempty"`
	Confidence float64        `json:"confidence"`
	Suggestion string         `json:"suggestion,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// Clean is the verdict for a check that found nothing wrong.
func Clean() CheckVerdict {
	return CheckVerdict{}
}

// Garbage builds a garbage verdict.
func Garbage(reason string, confidence float64, details map[string]any) CheckVerdict {
	return CheckVerdict{IsGarbage: true, Reason: reason, Confidence: confidence, Details: details}
}

// RecordEvaluation is the merged result of every check for one record.
type RecordEvaluation struct {
	Record         dnsdomain.Record `json:"record"`
	IsGarbage      bool             `json:"isGarbage"`
	Reason         string           `json:"reason"`
	Confidence     float64          `json:"confidence"`
	CheckResults   []CheckVerdict   `json:"checkResults"`
	Recommendation Recommendation   `json:"recommendation"`
}
