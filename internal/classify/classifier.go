// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify inspects raw regulatory queries and emits classification
// signals and domain-salient terms for the retrieval pipeline. All functions
// are pure, deterministic, and case-insensitive; there is no I/O.
// Implements: prd001-classification (R1-R4);
//
//	docs/ARCHITECTURE § Classification.
package classify

import (
	"regexp"
	"strings"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// chapterRulePattern matches "chapter N rule M" references, with an optional
// comma between the chapter and rule tokens.
var chapterRulePattern = regexp.MustCompile(`(?i)\bchapter\s+(\d{1,2}[a-z]?)\s*,?\s*rule\s+(\d{1,3}(?:\.\d{1,3})?[a-z]?)\b`)

// rulePattern matches bare "rule N.NN[A]" references.
var rulePattern = regexp.MustCompile(`(?i)\brule\s+(\d{1,3}(?:\.\d{1,3})?[a-z]?)\b`)

// ruleTokenGrammar is the strict grammar a captured chapter or rule token
// must satisfy before a match is accepted: digits, an optional dotted minor
// number, and an optional single letter suffix. Captures that fail this
// grammar are discarded, not propagated (R3.3).
var ruleTokenGrammar = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3})?[a-zA-Z]?$`)

// generalOfferMarkers identify general/mandatory-offer questions under
// takeover-type rules.
var generalOfferMarkers = []string{
	"general offer",
	"mandatory offer",
	"rule 26",
	"takeovers code",
	"takeover offer",
	"voluntary offer",
}

// tradingArrangementMarkers identify trading-arrangement questions.
var tradingArrangementMarkers = []string{
	"trading arrangement",
	"parallel trading",
	"odd lot",
	"temporary counter",
}

// corporateActionMarkers maps detection substrings to the corporate action
// they identify. Ordered so that more specific phrases win.
var corporateActionMarkers = []struct {
	marker string
	action types.CorporateActionType
}{
	{"rights issue", types.ActionRightsIssue},
	{"open offer", types.ActionOpenOffer},
	{"share consolidation", types.ActionShareConsolidation},
	{"consolidation of shares", types.ActionShareConsolidation},
	{"share subdivision", types.ActionShareConsolidation},
	{"board lot", types.ActionBoardLotChange},
	{"change of company name", types.ActionCompanyNameChange},
	{"company name change", types.ActionCompanyNameChange},
}

// Classify inspects a raw query string and emits the boolean and enum signals
// the orchestrator dispatches on (R1.1-R1.5). Signals compose: a whitewash
// query is always also a general-offer query.
func Classify(query string) types.QuerySignals {
	lower := strings.ToLower(query)

	signals := types.QuerySignals{
		IsWhitewash:   strings.Contains(lower, "whitewash"),
		RuleReference: extractRuleReference(query),
	}

	signals.IsGeneralOffer = signals.IsWhitewash || containsAny(lower, generalOfferMarkers)
	signals.IsTradingArrangement = containsAny(lower, tradingArrangementMarkers)

	for _, m := range corporateActionMarkers {
		if strings.Contains(lower, m.marker) {
			signals.IsCorporateAction = true
			signals.CorporateActionType = m.action
			break
		}
	}

	signals.FinancialTerms = ExtractTerms(query)
	return signals
}

// extractRuleReference pulls a normalized rule number out of the query.
// "chapter N rule M" takes precedence over a bare "rule N.NN[A]" token; both
// capture forms are validated against ruleTokenGrammar before acceptance, and
// malformed captures yield an empty reference (R3.1-R3.3).
func extractRuleReference(query string) string {
	if m := chapterRulePattern.FindStringSubmatch(query); m != nil {
		chapter, rule := m[1], m[2]
		if ruleTokenGrammar.MatchString(chapter) && ruleTokenGrammar.MatchString(rule) {
			// "chapter 7 rule 19A" → "7.19A"; a rule token that already
			// carries its chapter prefix ("chapter 7 rule 7.19A") is kept as-is.
			if strings.Contains(rule, ".") {
				return normalizeRuleToken(rule)
			}
			return normalizeRuleToken(chapter) + "." + normalizeRuleToken(rule)
		}
	}

	if m := rulePattern.FindStringSubmatch(query); m != nil {
		if ruleTokenGrammar.MatchString(m[1]) {
			return normalizeRuleToken(m[1])
		}
	}

	return ""
}

// normalizeRuleToken upper-cases the optional letter suffix so "7.19a" and
// "7.19A" compare equal.
func normalizeRuleToken(token string) string {
	return strings.ToUpper(token)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
