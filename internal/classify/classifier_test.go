// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"strings"
	"testing"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// --- rule reference extraction ---

func TestExtractRuleReference(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"What is the rights issue aggregation threshold under rule 7.19A?", "7.19A"},
		{"explain rule 7.19a please", "7.19A"},
		{"chapter 7 rule 19A requirements", "7.19A"},
		{"chapter 7, rule 19 requirements", "7.19"},
		{"chapter 7 rule 7.19A requirements", "7.19A"},
		{"when does rule 26 trigger a mandatory offer", "26"},
		{"rule 13.09 disclosure obligations", "13.09"},
		{"no reference here", ""},
		{"rule ABC is malformed", ""},
		{"rule 7.19.1.2 is out of grammar", "7.19"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := extractRuleReference(tt.query); got != tt.want {
				t.Errorf("extractRuleReference(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

// --- signal composition ---

func TestClassifyWhitewashImpliesGeneralOffer(t *testing.T) {
	s := Classify("Can we apply for a whitewash waiver?")
	if !s.IsWhitewash {
		t.Error("IsWhitewash should be set")
	}
	if !s.IsGeneralOffer {
		t.Error("whitewash query must also set IsGeneralOffer")
	}
	if s.QueryType() != types.QueryWhitewash {
		t.Errorf("QueryType() = %q, want whitewash", s.QueryType())
	}
}

func TestClassifyCorporateAction(t *testing.T) {
	tests := []struct {
		query  string
		action types.CorporateActionType
	}{
		{"rights issue timetable", types.ActionRightsIssue},
		{"open offer acceptance", types.ActionOpenOffer},
		{"share consolidation approval", types.ActionShareConsolidation},
		{"board lot change procedures", types.ActionBoardLotChange},
		{"change of company name steps", types.ActionCompanyNameChange},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s := Classify(tt.query)
			if !s.IsCorporateAction {
				t.Error("IsCorporateAction should be set")
			}
			if s.CorporateActionType != tt.action {
				t.Errorf("CorporateActionType = %q, want %q", s.CorporateActionType, tt.action)
			}
		})
	}
}

func TestClassifyGeneralOfferMarkers(t *testing.T) {
	for _, q := range []string{
		"when is a general offer required",
		"mandatory offer threshold",
		"does rule 26 apply here",
		"Takeovers Code obligations",
	} {
		t.Run(q, func(t *testing.T) {
			if s := Classify(q); !s.IsGeneralOffer {
				t.Errorf("Classify(%q).IsGeneralOffer = false, want true", q)
			}
		})
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	lower := Classify("whitewash waiver under RULE 7.19A for a RIGHTS ISSUE")
	if !lower.IsWhitewash || !lower.IsCorporateAction {
		t.Error("classification should ignore case")
	}
	if lower.RuleReference != "7.19A" {
		t.Errorf("RuleReference = %q, want 7.19A", lower.RuleReference)
	}
}

func TestClassifyExampleQuery(t *testing.T) {
	s := Classify("What is the rights issue aggregation threshold under rule 7.19A?")
	if s.RuleReference != "7.19A" {
		t.Errorf("RuleReference = %q, want 7.19A", s.RuleReference)
	}
	if !s.IsCorporateAction {
		t.Error("IsCorporateAction should be set")
	}
	if s.CorporateActionType != types.ActionRightsIssue {
		t.Errorf("CorporateActionType = %q, want rights-issue", s.CorporateActionType)
	}
}

// --- term extraction ---

func TestExtractTermsVocabularyOrder(t *testing.T) {
	terms := ExtractTerms("timetable for a rights issue with nil-paid rights trading")
	wantFirst := "rights issue"
	if len(terms) == 0 || terms[0] != wantFirst {
		t.Fatalf("terms = %v, want %q first", terms, wantFirst)
	}
	if !containsTerm(terms, "nil-paid rights") || !containsTerm(terms, "timetable") {
		t.Errorf("terms = %v, missing vocabulary hits", terms)
	}
}

func TestExtractTermsDerivedAggregationRule(t *testing.T) {
	terms := ExtractTerms("does the 50% aggregation limit apply to this rights issue")
	if !containsTerm(terms, "7.19A") {
		t.Errorf("terms = %v, want derived 7.19A token", terms)
	}
}

func TestExtractTermsNoDerivedRuleWithoutRightsIssue(t *testing.T) {
	terms := ExtractTerms("aggregation of connected transactions")
	if containsTerm(terms, "7.19A") {
		t.Errorf("terms = %v, 7.19A should require a rights issue mention", terms)
	}
}

func TestExtractTermsDateTokensAppendTimetable(t *testing.T) {
	tests := []string{
		"shares go ex on 12 May",
		"record date is 2026-05-12",
		"dispatch on 12/5/2026",
	}
	for _, q := range tests {
		t.Run(q, func(t *testing.T) {
			if !containsTerm(ExtractTerms(q), "timetable") {
				t.Errorf("ExtractTerms(%q) should append timetable", q)
			}
		})
	}
}

func TestExtractTermsFallsBackToRawQuery(t *testing.T) {
	q := "something entirely unrelated to finance"
	terms := ExtractTerms(q)
	if len(terms) != 1 || terms[0] != q {
		t.Errorf("terms = %v, want the raw query as single term", terms)
	}
}

func TestExtractTermsNoDuplicates(t *testing.T) {
	terms := ExtractTerms("rights issue timetable and rights issue record date timetable")
	seen := make(map[string]bool)
	for _, term := range terms {
		if seen[term] {
			t.Errorf("duplicate term %q in %v", term, terms)
		}
		seen[term] = true
	}
}

func TestHasTimetableTerm(t *testing.T) {
	if !HasTimetableTerm([]string{"rights issue", "timetable"}) {
		t.Error("want true for timetable term")
	}
	if HasTimetableTerm([]string{"rights issue"}) {
		t.Error("want false without timetable term")
	}
}

func containsTerm(terms []string, want string) bool {
	for _, t := range terms {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
