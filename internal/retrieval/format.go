// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"fmt"
	"strings"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// NotFoundSentinel is the fixed context string returned when every search
// stage came back empty (R5.3).
const NotFoundSentinel = "No relevant regulatory provisions were found in the knowledge base."

// blockSeparator joins per-entry citation blocks in the formatted context.
const blockSeparator = "\n\n---\n\n"

// flagshipDocuments are titles whose presence in the selection is worth
// calling out in the reasoning.
var flagshipDocuments = []string{
	"guide on trading arrangements",
	"general offer timetable",
	"rights issue aggregation threshold",
}

// Format renders the ranked entries into the single context string handed to
// the answer generator, plus a short justification for the selection
// (R4.1-R4.3). Each entry renders as a citation block
//
//	[<title> | <source>]:
//	<content>
//
// and the reasoning is derived only from aggregate statistics over the
// entries actually present, so it can never fabricate a citation.
func Format(entries []types.RegulatoryEntry, signals types.QuerySignals) (string, string) {
	if len(entries) == 0 {
		return NotFoundSentinel, "No supporting material matched the query; the knowledge base may not cover this topic."
	}

	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = fmt.Sprintf("[%s | %s]:\n%s", e.Title, e.Source, e.Content)
	}

	return strings.Join(blocks, blockSeparator), reasoning(entries, signals)
}

// reasoning summarizes why these entries were selected: result count,
// dominant category, an authoritative rule-number match if one is present,
// and any flagship document in the selection.
func reasoning(entries []types.RegulatoryEntry, signals types.QuerySignals) string {
	var b strings.Builder

	noun := "entries"
	if len(entries) == 1 {
		noun = "entry"
	}
	fmt.Fprintf(&b, "Selected %d %s", len(entries), noun)

	if dominant := dominantCategory(entries); dominant != "" {
		fmt.Fprintf(&b, ", mostly %s", dominant)
	}
	b.WriteString(".")

	if signals.RuleReference != "" {
		for _, e := range entries {
			if containsAllFold(e.Section+" "+e.Title+" "+e.Content, signals.RuleReference) {
				fmt.Fprintf(&b, " Includes an authoritative match for rule %s.", signals.RuleReference)
				break
			}
		}
	}

	for _, e := range entries {
		title := strings.ToLower(e.Title)
		for _, flagship := range flagshipDocuments {
			if strings.Contains(title, flagship) {
				fmt.Fprintf(&b, " Includes %q.", e.Title)
				return b.String()
			}
		}
	}

	return b.String()
}

// dominantCategory returns the category covering a strict majority of the
// entries, or empty when no category dominates.
func dominantCategory(entries []types.RegulatoryEntry) types.Category {
	counts := make(map[types.Category]int)
	for _, e := range entries {
		counts[e.Category]++
	}
	for cat, n := range counts {
		if n*2 > len(entries) {
			return cat
		}
	}
	return ""
}
