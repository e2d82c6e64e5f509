// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate inspects drafted regulatory answers for completeness. It
// runs structural truncation checks and query-type-gated domain checklists
// as one uniform rule list, and reports a verdict with a confidence tier and
// the specific missing elements.
// Implements: prd005-validation (R1-R5);
//
//	docs/ARCHITECTURE § Validation.
package validate

import (
	"strings"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// severity grades a finding for confidence aggregation. Hard findings
// (framework conflicts, unbalanced constructs) push confidence to high on
// their own; missing-keyword findings only reach medium.
type severity int

const (
	severityMissing severity = iota
	severityStructural
	severityHard
)

// finding is one failed completeness check.
type finding struct {
	message    string
	severity   severity
	truncation bool
}

const (
	defaultLongAnswerThreshold = 3000
	defaultConclusionWindow    = 1500
	defaultMinTimetableDates   = 6
)

// Validator evaluates candidate answers against the completeness rules. It
// is pure and has no suspension points; Validate can run synchronously.
type Validator struct {
	cfg types.ValidationConfig
}

// New builds a validator, applying defaults for unset thresholds.
func New(cfg types.ValidationConfig) *Validator {
	if cfg.LongAnswerThreshold <= 0 {
		cfg.LongAnswerThreshold = defaultLongAnswerThreshold
	}
	if cfg.ConclusionWindow <= 0 {
		cfg.ConclusionWindow = defaultConclusionWindow
	}
	if cfg.MinTimetableDates <= 0 {
		cfg.MinTimetableDates = defaultMinTimetableDates
	}
	return &Validator{cfg: cfg}
}

// Validate runs the two-tier check suite over a drafted answer (R1.1-R1.4).
// Tier A covers domain-agnostic truncation heuristics; Tier B covers the
// domain checklist for the given query type. An empty answer short-circuits
// to a failed verdict.
func (v *Validator) Validate(answer string, queryType types.QueryType) types.CompletenessVerdict {
	if strings.TrimSpace(answer) == "" {
		return types.CompletenessVerdict{
			IsComplete:      false,
			MissingElements: []string{"empty response"},
			Confidence:      types.ConfidenceHigh,
		}
	}

	var findings []finding
	findings = append(findings, v.truncationFindings(answer)...)
	findings = append(findings, v.checklistFindings(answer, queryType)...)

	verdict := types.CompletenessVerdict{
		IsComplete: len(findings) == 0,
		Confidence: aggregateConfidence(findings),
	}
	for _, f := range findings {
		verdict.MissingElements = append(verdict.MissingElements, f.message)
		if f.truncation {
			verdict.IsTruncated = true
		}
	}
	return verdict
}

// aggregateConfidence derives the confidence tier from the evaluated finding
// list (R4.1-R4.3). Absence of failures is not evidence of completeness, so
// the success state stays at low.
func aggregateConfidence(findings []finding) types.Confidence {
	if len(findings) == 0 {
		return types.ConfidenceLow
	}
	for _, f := range findings {
		if f.severity == severityHard {
			return types.ConfidenceHigh
		}
	}
	return types.ConfidenceMedium
}
