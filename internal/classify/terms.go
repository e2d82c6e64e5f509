// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"regexp"
	"strings"
)

// vocabulary is the fixed domain term list, ordered by salience. Extraction
// preserves this order so that downstream ranking weighs specific corporate
// actions and rule names ahead of generic regulatory words (R4.1).
var vocabulary = []string{
	"rights issue",
	"open offer",
	"whitewash",
	"general offer",
	"mandatory offer",
	"share consolidation",
	"board lot",
	"company name",
	"nil-paid rights",
	"ex-rights",
	"record date",
	"book closure",
	"trading arrangement",
	"parallel trading",
	"odd lot",
	"timetable",
	"aggregation",
	"aggregate",
	"connected transaction",
	"notifiable transaction",
	"takeovers code",
	"listing rules",
	"dealing",
	"concert parties",
	"acceptance",
	"underwriting",
	"prospectus",
	"excess application",
	"materiality threshold",
	"disclosure",
	"circular",
	"independent shareholders",
	"dilution",
}

// aggregationMarkers signal the rolling-aggregation concept for capital
// raisings even when the governing rule is not named.
var aggregationMarkers = []string{
	"aggregat",
	"within 12 months",
	"12-month",
	"50%",
	"50 per cent",
}

// datePattern matches calendar-date-like tokens: "12 May", "May 12",
// "2026-05-12", and "12/5" or "12/5/2026" forms.
var datePattern = regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)\b` +
	`|\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b` +
	`|\b\d{4}-\d{2}-\d{2}\b` +
	`|\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)

// ExtractTerms derives the ordered set of domain-salient terms from a query
// (R4.1-R4.4). Beyond direct vocabulary hits it synthesizes derived terms:
// an aggregation concept combined with a rights issue appends the governing
// rule token "7.19A", and calendar-date-like tokens append "timetable". A
// query matching nothing in the vocabulary yields the raw query as its own
// single term, never an empty result.
func ExtractTerms(query string) []string {
	lower := strings.ToLower(query)

	var terms []string
	seen := make(map[string]bool)
	appendTerm := func(t string) {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	for _, v := range vocabulary {
		if strings.Contains(lower, v) {
			appendTerm(v)
		}
	}

	if containsAny(lower, aggregationMarkers) && strings.Contains(lower, "rights issue") {
		appendTerm("7.19A")
	}

	if datePattern.MatchString(query) {
		appendTerm("timetable")
	}

	if len(terms) == 0 {
		return []string{query}
	}
	return terms
}

// HasTimetableTerm reports whether the extracted term set carries a
// timetable or schedule flavor, which gates the timetable strategies and
// ranking boosts.
func HasTimetableTerm(terms []string) bool {
	for _, t := range terms {
		if t == "timetable" || t == "schedule" {
			return true
		}
	}
	return false
}
