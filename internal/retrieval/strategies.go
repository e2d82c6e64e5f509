// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"strings"

	"github.com/yinhse00/SmartFinAI-sub003/internal/classify"
	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// continuingObligationMarkers flag queries about post-listing compliance,
// which are served by the FAQ/guidance corpus.
var continuingObligationMarkers = []string{
	"continuing obligation",
	"ongoing obligation",
	"compliance",
	"faq",
	"frequently asked",
}

// BuildStrategies assembles the strategy sequence for a query in fixed
// priority order (R2.1):
//
//  1. rule-number exact lookup (authoritative, when a reference was extracted)
//  2. category-scoped search chosen by query type
//  3. specialized lookups gated by classification flags
//  4. keyword fallback scoped to the chosen category
//
// The unscoped cross-category fallback is appended by the orchestrator only
// when everything above came back empty.
func BuildStrategies(query string, signals types.QuerySignals) []Strategy {
	category := chooseCategory(signals)
	lower := strings.ToLower(query)

	var strategies []Strategy

	if signals.RuleReference != "" {
		strategies = append(strategies, &ruleNumberStrategy{ref: signals.RuleReference})
	}

	strategies = append(strategies, &categoryStrategy{
		name:     "category-search",
		query:    query,
		category: category,
	})

	if signals.IsCorporateAction {
		strategies = append(strategies, &titleStrategy{
			name:  "trading-arrangements",
			title: "trading arrangement",
		})
	}
	for _, m := range continuingObligationMarkers {
		if strings.Contains(lower, m) {
			strategies = append(strategies, &categoryStrategy{
				name:     "faq-guidance",
				query:    query,
				category: types.CategoryGuidance,
			})
			break
		}
	}
	if classify.HasTimetableTerm(signals.FinancialTerms) {
		strategies = append(strategies, &titleStrategy{
			name:  "timetable-documents",
			title: "timetable",
		})
	}

	strategies = append(strategies, &keywordStrategy{
		terms:    signals.FinancialTerms,
		category: category,
	})

	return strategies
}

// chooseCategory picks the primary search scope: takeover rules for
// general-offer and whitewash questions, listing rules otherwise (R2.2).
func chooseCategory(signals types.QuerySignals) types.Category {
	if signals.IsGeneralOffer || signals.IsWhitewash {
		return types.CategoryTakeoverRules
	}
	return types.CategoryPrimaryRules
}

// --- rule-number lookup ---

// ruleNumberStrategy performs the authoritative exact lookup for an
// extracted rule reference. Store hits are filtered down to entries that
// actually carry the reference in their title, section, or content, so a
// broad full-text match never counts as authoritative.
type ruleNumberStrategy struct {
	ref string
}

func (s *ruleNumberStrategy) Name() string        { return "rule-number-lookup" }
func (s *ruleNumberStrategy) Authoritative() bool { return true }

func (s *ruleNumberStrategy) Search(ctx context.Context, store Searcher) ([]types.RegulatoryEntry, error) {
	candidates, err := store.SearchAcrossCategories(ctx, "rule "+s.ref)
	if err != nil {
		return nil, err
	}

	ref := strings.ToLower(s.ref)
	var exact []types.RegulatoryEntry
	for _, e := range candidates {
		if strings.Contains(strings.ToLower(e.Section), ref) ||
			strings.Contains(strings.ToLower(e.Title), ref) ||
			strings.Contains(strings.ToLower(e.Content), ref) {
			exact = append(exact, e)
		}
	}
	return exact, nil
}

// --- category-scoped search ---

type categoryStrategy struct {
	name     string
	query    string
	category types.Category
}

func (s *categoryStrategy) Name() string        { return s.name }
func (s *categoryStrategy) Authoritative() bool { return false }

func (s *categoryStrategy) Search(ctx context.Context, store Searcher) ([]types.RegulatoryEntry, error) {
	return store.Search(ctx, s.query, s.category)
}

// --- title search ---

type titleStrategy struct {
	name  string
	title string
}

func (s *titleStrategy) Name() string        { return s.name }
func (s *titleStrategy) Authoritative() bool { return false }

func (s *titleStrategy) Search(ctx context.Context, store Searcher) ([]types.RegulatoryEntry, error) {
	return store.SearchByTitle(ctx, s.title)
}

// --- keyword fallback ---

type keywordStrategy struct {
	terms    []string
	category types.Category
}

func (s *keywordStrategy) Name() string        { return "keyword-fallback" }
func (s *keywordStrategy) Authoritative() bool { return false }

func (s *keywordStrategy) Search(ctx context.Context, store Searcher) ([]types.RegulatoryEntry, error) {
	if len(s.terms) == 0 {
		return nil, nil
	}
	return store.Search(ctx, strings.Join(s.terms, " "), s.category)
}

// --- unscoped cross-category fallback ---

type crossCategoryStrategy struct {
	query string
	terms []string
}

func (s *crossCategoryStrategy) Name() string        { return "cross-category-fallback" }
func (s *crossCategoryStrategy) Authoritative() bool { return false }

func (s *crossCategoryStrategy) Search(ctx context.Context, store Searcher) ([]types.RegulatoryEntry, error) {
	query := s.query
	if len(s.terms) > 0 {
		query = strings.Join(s.terms, " ")
	}
	return store.SearchAcrossCategories(ctx, query)
}
