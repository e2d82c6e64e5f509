// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"strings"
	"time"

	"github.com/yinhse00/SmartFinAI-sub003/internal/classify"
	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// fallbackScenario describes one high-stakes query shape that the corpus
// frequently under-serves. When a scenario applies to the query and no merged
// result satisfies its predicate, the canonical entry is appended. The same
// predicate guards re-injection, which makes the operation idempotent (R5.4).
type fallbackScenario struct {
	name      string
	applies   func(query string, signals types.QuerySignals) bool
	satisfied func(e types.RegulatoryEntry) bool
	entry     types.RegulatoryEntry
}

var fallbackScenarios = []fallbackScenario{
	{
		name: "whitewash-dealing-restrictions",
		applies: func(_ string, s types.QuerySignals) bool {
			return s.IsWhitewash
		},
		satisfied: func(e types.RegulatoryEntry) bool {
			return containsAllFold(e.Content, "dealing", "whitewash")
		},
		entry: types.RegulatoryEntry{
			ID:       "fallback-whitewash-dealing",
			Title:    "Whitewash Waiver Dealing Restrictions",
			Category: types.CategoryTakeoverRules,
			Source:   "Takeovers Code",
			Section:  "Schedule VI",
			Content: "A whitewash waiver will not normally be granted, and if granted " +
				"will be invalidated, if the potential controlling shareholders or any " +
				"person acting in concert with them have dealt in the securities of the " +
				"company in the period between the announcement of the relevant " +
				"transaction and the completion of the subscription. The Executive must " +
				"be consulted before any dealing takes place. Disqualifying transactions " +
				"in the six months prior to the announcement may also cause the whitewash " +
				"waiver to be refused.",
			LastUpdated: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			Status:      types.StatusActive,
		},
	},
	{
		name: "rights-issue-aggregation",
		applies: func(_ string, s types.QuerySignals) bool {
			return s.CorporateActionType == types.ActionRightsIssue
		},
		satisfied: func(e types.RegulatoryEntry) bool {
			return containsAllFold(e.Content, "rights issue", "aggregat")
		},
		entry: types.RegulatoryEntry{
			ID:       "fallback-rights-issue-aggregation",
			Title:    "Rights Issue Aggregation Threshold",
			Category: types.CategoryPrimaryRules,
			Source:   "Main Board Listing Rules",
			Section:  "Rule 7.19A",
			Content: "Under Rule 7.19A(1), a rights issue must be made conditional on " +
				"approval by shareholders in general meeting if the proposed rights issue " +
				"would, when aggregated with any other rights issues or open offers " +
				"announced by the issuer within the previous 12 months, increase the " +
				"number of issued shares or the market capitalisation by more than 50%. " +
				"Any controlling shareholders and their associates, or where there are no " +
				"controlling shareholders, directors and the chief executive, must abstain " +
				"from voting in favour.",
			LastUpdated: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			Status:      types.StatusActive,
		},
	},
	{
		name: "general-offer-timetable",
		applies: func(query string, s types.QuerySignals) bool {
			return s.IsGeneralOffer &&
				(classify.HasTimetableTerm(s.FinancialTerms) ||
					strings.Contains(strings.ToLower(query), "timetable"))
		},
		satisfied: func(e types.RegulatoryEntry) bool {
			return containsAllFold(e.Content, "offer", "timetable")
		},
		entry: types.RegulatoryEntry{
			ID:       "fallback-general-offer-timetable",
			Title:    "General Offer Timetable",
			Category: types.CategoryTakeoverRules,
			Source:   "Takeovers Code",
			Section:  "Rule 15",
			Content: "The general offer timetable runs from the posting of the offer " +
				"document on Day 0. The offer must initially be open for acceptance for " +
				"at least 21 days. An offer may not become or be declared unconditional " +
				"as to acceptances after Day 60, and all other conditions must be " +
				"fulfilled within 21 days of the offer becoming unconditional as to " +
				"acceptances. Consideration must be posted within 7 business days of the " +
				"later of the date the offer becomes unconditional and the date of " +
				"acceptance.",
			LastUpdated: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			Status:      types.StatusActive,
		},
	},
}

// InjectFallbacks appends canonical hand-authored entries for recognized
// scenarios that the merged result set does not already cover (R5.1-R5.4).
// Re-running on an already-augmented set is a no-op.
func InjectFallbacks(results []types.RegulatoryEntry, query string, signals types.QuerySignals) []types.RegulatoryEntry {
	augmented := results
	for _, sc := range fallbackScenarios {
		if !sc.applies(query, signals) {
			continue
		}
		covered := false
		for _, e := range augmented {
			if sc.satisfied(e) {
				covered = true
				break
			}
		}
		if !covered {
			augmented = append(augmented, sc.entry)
		}
	}
	return augmented
}

// containsAllFold reports whether s contains every substring,
// case-insensitively.
func containsAllFold(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if !strings.Contains(lower, strings.ToLower(sub)) {
			return false
		}
	}
	return true
}
