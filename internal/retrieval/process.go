// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"sort"
	"strings"

	"github.com/yinhse00/SmartFinAI-sub003/internal/classify"
	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// Relevance score weights (prd003-ranking R2.1-R2.4).
const (
	titleTermWeight       = 3
	contentTermWeight     = 1
	categoryBonus         = 2
	timetableTitleBoost   = 5
	timetableContentBoost = 2
)

// Process deduplicates the merged raw results and orders them by relevance
// (R1-R3). Deduplication keeps the first occurrence per (title, source) key;
// the sort is stable so entries with equal scores retain their pre-sort
// relative order, which keeps retrieval byte-deterministic.
func Process(results []types.RegulatoryEntry, terms []string) []types.RegulatoryEntry {
	deduped := Dedupe(results)

	scored := make([]scoredEntry, len(deduped))
	for i, e := range deduped {
		scored[i] = scoredEntry{entry: e, score: relevanceScore(e, terms)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := make([]types.RegulatoryEntry, len(scored))
	for i, s := range scored {
		ranked[i] = s.entry
	}
	return ranked
}

type scoredEntry struct {
	entry types.RegulatoryEntry
	score int
}

// Dedupe removes duplicate entries by (title, source), preserving input
// order among survivors (R1.1). Two entries with the same key are the same
// candidate regardless of ID.
func Dedupe(results []types.RegulatoryEntry) []types.RegulatoryEntry {
	seen := make(map[string]bool, len(results))
	var deduped []types.RegulatoryEntry
	for _, e := range results {
		key := e.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, e)
	}
	return deduped
}

// relevanceScore combines term hits, a category bonus, and the
// query-type-specific timetable boost (R2.1-R2.4). A term counts once per
// field it appears in, not once per occurrence.
func relevanceScore(e types.RegulatoryEntry, terms []string) int {
	title := strings.ToLower(e.Title)
	content := strings.ToLower(e.Content)

	score := 0
	for _, term := range terms {
		t := strings.ToLower(term)
		if strings.Contains(title, t) {
			score += titleTermWeight
		}
		if strings.Contains(content, t) {
			score += contentTermWeight
		}
	}

	switch e.Category {
	case types.CategoryPrimaryRules, types.CategoryTakeoverRules:
		score += categoryBonus
	}

	if classify.HasTimetableTerm(terms) {
		if strings.Contains(title, "timetable") {
			score += timetableTitleBoost
		}
		if strings.Contains(content, "timetable") {
			score += timetableContentBoost
		}
	}

	return score
}
