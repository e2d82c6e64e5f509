// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// QueryType is the closed set of regulatory question shapes recognized by
// the engine. Strategy selection in the orchestrator and checklist dispatch
// in the validator both switch exhaustively on this type.
// Per prd001-classification R2.1.
type QueryType string

const (
	QueryRightsIssue        QueryType = "rights-issue"
	QueryOpenOffer          QueryType = "open-offer"
	QueryTakeoverOffer      QueryType = "takeover-offer"
	QueryWhitewash          QueryType = "whitewash"
	QueryTradingArrangement QueryType = "trading-arrangement"
	QueryGeneral            QueryType = "general"
)

// ParseQueryType maps a free-form label to a QueryType. Unrecognized labels
// fall back to QueryGeneral rather than erroring, since the validator treats
// the label as an optional hint.
func ParseQueryType(label string) QueryType {
	switch QueryType(label) {
	case QueryRightsIssue, QueryOpenOffer, QueryTakeoverOffer,
		QueryWhitewash, QueryTradingArrangement:
		return QueryType(label)
	default:
		return QueryGeneral
	}
}

// CorporateActionType identifies the corporate action a query is about.
// Per prd001-classification R1.4.
type CorporateActionType string

const (
	ActionRightsIssue        CorporateActionType = "rights-issue"
	ActionOpenOffer          CorporateActionType = "open-offer"
	ActionShareConsolidation CorporateActionType = "share-consolidation"
	ActionBoardLotChange     CorporateActionType = "board-lot-change"
	ActionCompanyNameChange  CorporateActionType = "company-name-change"
)

// QuerySignals is the ephemeral classification result for one query.
// Created fresh per query, consumed immediately by the orchestrator, never
// persisted. Per prd001-classification R1.1-R1.5.
type QuerySignals struct {
	// IsWhitewash reports a whitewash-waiver question. A whitewash query is
	// always also a general-offer query.
	IsWhitewash bool `json:"is_whitewash"`

	// IsGeneralOffer reports a general/mandatory-offer question.
	IsGeneralOffer bool `json:"is_general_offer"`

	// IsTradingArrangement reports a trading-arrangement question.
	IsTradingArrangement bool `json:"is_trading_arrangement"`

	// IsCorporateAction reports a corporate-action question.
	IsCorporateAction bool `json:"is_corporate_action"`

	// RuleReference is the normalized rule number extracted from the query
	// (e.g. "7.19A"), or empty when none was found or the captured tokens
	// failed grammar validation.
	RuleReference string `json:"rule_reference,omitempty"`

	// CorporateActionType identifies the specific corporate action when
	// IsCorporateAction is set.
	CorporateActionType CorporateActionType `json:"corporate_action_type,omitempty"`

	// FinancialTerms is the ordered set of domain-salient terms extracted
	// from the query, used for fallback search and relevance scoring.
	FinancialTerms []string `json:"financial_terms"`
}

// QueryType derives the closed query-type variant from the boolean signals.
// Whitewash outranks general offer; a recognized corporate action outranks
// a bare trading-arrangement flag.
func (s QuerySignals) QueryType() QueryType {
	switch {
	case s.IsWhitewash:
		return QueryWhitewash
	case s.IsGeneralOffer:
		return QueryTakeoverOffer
	case s.CorporateActionType == ActionRightsIssue:
		return QueryRightsIssue
	case s.CorporateActionType == ActionOpenOffer:
		return QueryOpenOffer
	case s.IsTradingArrangement:
		return QueryTradingArrangement
	default:
		return QueryGeneral
	}
}
