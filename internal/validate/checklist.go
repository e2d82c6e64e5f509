// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// rightsIssueElements are the mechanics a complete rights issue answer must
// cover (R3.1). Each entry is a label plus the markers that satisfy it.
var rightsIssueElements = []struct {
	label   string
	markers []string
}{
	{"ex-rights date", []string{"ex-rights", "ex rights"}},
	{"nil-paid rights trading period", []string{"nil-paid", "nil paid"}},
	{"record date", []string{"record date"}},
	{"acceptance and payment", []string{"acceptance"}},
	{"payment date", []string{"payment"}},
	{"trading period", []string{"trading period", "commence", "dealing"}},
}

// listingVocabulary marks an answer as grounded in the listing rules
// framework.
var listingVocabulary = []string{
	"listing rules",
	"listing rule",
	"chapter 7",
	"rule 7.",
	"chapter 13",
	"main board",
	"gem",
}

// takeoverVocabulary marks an answer as grounded in the takeovers code
// framework. Open offer answers must never lean on these (R3.3).
var takeoverVocabulary = []string{
	"takeovers code",
	"code on takeovers",
	"mandatory offer",
	"mandatory general offer",
	"rule 26",
	"concert part",
	"whitewash",
	"offer period",
}

// conclusionMarkers signal that a long answer wraps up rather than stops.
var conclusionMarkers = []string{
	"in summary",
	"in conclusion",
	"to conclude",
	"key differences",
	"key takeaway",
	"overall",
	"therefore",
	"accordingly",
}

// negationMarkers, combined with a nil-paid mention, satisfy the open offer
// requirement to state that no nil-paid rights are traded.
var negationMarkers = []string{"no ", "not ", "without ", "unlike ", "absence"}

// answerDatePattern matches the date spellings counted toward the timetable
// requirement. Kept aligned with the query-side date detection.
var answerDatePattern = regexp.MustCompile(`(?i)\b(?:\d{1,2}\s+)?(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+\d{1,4}\b|\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b|\bday\s+\d{1,3}\b|\bt\s*[+-]\s*\d{1,3}\b`)

// checklistFindings runs the Tier B domain checklist for the query type
// (R3.1-R3.5), plus the long-answer conclusion check which applies to every
// type.
func (v *Validator) checklistFindings(text string, queryType types.QueryType) []finding {
	lower := strings.ToLower(text)

	var findings []finding
	switch queryType {
	case types.QueryRightsIssue:
		findings = v.rightsIssueFindings(lower)
	case types.QueryOpenOffer:
		findings = v.openOfferFindings(lower)
	case types.QueryTakeoverOffer:
		findings = v.takeoverFindings(lower)
	case types.QueryWhitewash:
		findings = v.whitewashFindings(lower)
	case types.QueryTradingArrangement, types.QueryGeneral:
		// No type-specific checklist; truncation checks still apply.
	}

	if f, missing := v.conclusionFinding(text); missing {
		findings = append(findings, f)
	}
	return findings
}

// rightsIssueFindings demands the full timetable mechanics: every element of
// the checklist, enough distinct dates, and an actual table when a timetable
// is presented (R3.1).
func (v *Validator) rightsIssueFindings(lower string) []finding {
	var findings []finding
	for _, element := range rightsIssueElements {
		if !containsAny(lower, element.markers) {
			findings = append(findings, finding{
				message:  "rights issue answer missing " + element.label,
				severity: severityMissing,
			})
		}
	}

	if strings.Contains(lower, "timetable") {
		if n := countDistinctDates(lower); n < v.cfg.MinTimetableDates {
			findings = append(findings, finding{
				message: fmt.Sprintf("timetable lists %d dates, expected at least %d",
					n, v.cfg.MinTimetableDates),
				severity: severityStructural,
			})
		}
		if len(tableBlocks(lower)) == 0 {
			findings = append(findings, finding{
				message:  "timetable is not presented as a delimited table",
				severity: severityMissing,
			})
		}
	}
	return findings
}

// openOfferFindings enforces the listing-rules framing: the answer must state
// that no nil-paid rights trade, must use listing vocabulary, and must not
// drift into takeovers code vocabulary (R3.2-R3.3). A framework conflict is a
// hard finding because it means the answer is about the wrong regime.
func (v *Validator) openOfferFindings(lower string) []finding {
	var findings []finding

	nilPaid := strings.Contains(lower, "nil-paid") || strings.Contains(lower, "nil paid")
	if !nilPaid || !containsAny(lower, negationMarkers) {
		findings = append(findings, finding{
			message:  "open offer answer must state that no nil-paid rights are traded",
			severity: severityMissing,
		})
	}

	if !containsAny(lower, listingVocabulary) {
		findings = append(findings, finding{
			message:  "open offer answer does not reference the listing rules framework",
			severity: severityMissing,
		})
	}

	for _, term := range takeoverVocabulary {
		if strings.Contains(lower, term) {
			findings = append(findings, finding{
				message:  fmt.Sprintf("open offer answer conflates frameworks: references %q from the takeovers code", term),
				severity: severityHard,
			})
		}
	}
	return findings
}

// takeoverFindings mirrors the open offer check from the other side of the
// framework boundary: takeovers code vocabulary is required, listing chapter
// vocabulary is a hard conflict (R3.4).
func (v *Validator) takeoverFindings(lower string) []finding {
	var findings []finding

	if !containsAny(lower, takeoverVocabulary) {
		findings = append(findings, finding{
			message:  "offer answer does not reference the takeovers code framework",
			severity: severityMissing,
		})
	}

	for _, term := range []string{"chapter 7", "rule 7.", "nil-paid"} {
		if strings.Contains(lower, term) {
			findings = append(findings, finding{
				message:  fmt.Sprintf("offer answer conflates frameworks: references %q from the listing rules", term),
				severity: severityHard,
			})
		}
	}
	return findings
}

// whitewashFindings layers the dealing-restriction requirement on top of the
// takeover framework checks (R3.5).
func (v *Validator) whitewashFindings(lower string) []finding {
	findings := v.takeoverFindings(lower)

	if !strings.Contains(lower, "waiver") {
		findings = append(findings, finding{
			message:  "whitewash answer does not mention the waiver",
			severity: severityMissing,
		})
	}
	if !strings.Contains(lower, "dealing") {
		findings = append(findings, finding{
			message:  "whitewash answer does not cover dealing restrictions",
			severity: severityMissing,
		})
	}
	return findings
}

// conclusionFinding checks that a long answer closes with some form of
// summary inside the tail window (R3.6).
func (v *Validator) conclusionFinding(text string) (finding, bool) {
	if len(text) < v.cfg.LongAnswerThreshold {
		return finding{}, false
	}
	tail := text
	if len(tail) > v.cfg.ConclusionWindow {
		tail = tail[len(tail)-v.cfg.ConclusionWindow:]
	}
	if containsAny(strings.ToLower(tail), conclusionMarkers) {
		return finding{}, false
	}
	return finding{
		message:  "long answer has no concluding section",
		severity: severityStructural,
	}, true
}

// countDistinctDates counts unique date spellings in the text.
func countDistinctDates(lower string) int {
	seen := make(map[string]bool)
	for _, m := range answerDatePattern.FindAllString(lower, -1) {
		seen[strings.Join(strings.Fields(m), " ")] = true
	}
	return len(seen)
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
