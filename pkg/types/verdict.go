// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Confidence qualifies how certain the validator is that a flagged answer is
// genuinely incomplete. It is non-decreasing as more independent checks fail.
// Per prd005-validation R4.1-R4.3.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// CompletenessVerdict is the result of validating one candidate answer.
// Computed once per answer; callers may re-run after edits.
// Per prd005-validation R1.1-R1.4.
type CompletenessVerdict struct {
	// IsComplete reports that no completeness check fired. This is the
	// success signal; Confidence only qualifies failures.
	IsComplete bool `json:"is_complete" yaml:"is_complete"`

	// IsTruncated reports that at least one structural truncation check
	// fired (text cut off mid-construct).
	IsTruncated bool `json:"is_truncated" yaml:"is_truncated"`

	// MissingElements names each failed check in evaluation order.
	MissingElements []string `json:"missing_elements" yaml:"missing_elements"`

	// Confidence is low when no checks fired, medium when only isolated
	// missing-keyword checks fired, and high when any framework conflict or
	// unbalanced-construct check fired.
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}
