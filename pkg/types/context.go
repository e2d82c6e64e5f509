// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RankedContext is the output of the retrieval pipeline: the deduplicated,
// relevance-ordered entries plus the rendered context handed to the answer
// generator. Per prd002-retrieval R5.1-R5.3, prd003-ranking R1-R3.
type RankedContext struct {
	// Entries is the ordered entry sequence, highest relevance first,
	// deduplicated by (title, source).
	Entries []RegulatoryEntry `json:"entries" yaml:"entries"`

	// FormattedContext is the single context string built from per-entry
	// citation blocks. When no search stage returned anything it holds the
	// fixed not-found sentinel.
	FormattedContext string `json:"formatted_context" yaml:"formatted_context"`

	// Reasoning is a short human-readable justification for the selection,
	// generated from aggregate statistics over Entries. It never cites an
	// entry that is not present in Entries.
	Reasoning string `json:"reasoning" yaml:"reasoning"`
}

// Answer is the composed output of the ask flow: the generated text, the
// context it was grounded on, and the completeness verdict for that text.
// Per prd006-answering R3.1.
type Answer struct {
	Query   string              `json:"query" yaml:"query"`
	Text    string              `json:"text" yaml:"text"`
	Context RankedContext       `json:"context" yaml:"context"`
	Verdict CompletenessVerdict `json:"verdict" yaml:"verdict"`
}
