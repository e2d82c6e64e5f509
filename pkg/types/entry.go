// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the regulatory Q&A engine.
// Implements: prd002-retrieval (RegulatoryEntry, RankedContext);
//
//	prd001-classification (QuerySignals, QueryType);
//	prd005-validation (CompletenessVerdict, Confidence).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "time"

// Category classifies a regulatory entry by the body of rules it belongs to.
// Per prd004-corpus-store R1.1.
type Category string

const (
	CategoryPrimaryRules      Category = "primary-rules"
	CategoryTakeoverRules     Category = "takeover-rules"
	CategoryGuidance          Category = "guidance"
	CategoryPrecedents        Category = "precedents"
	CategoryReferenceDocument Category = "reference-document"
	CategoryOther             Category = "other"
)

// EntryStatus records the review state of a regulatory entry.
type EntryStatus string

const (
	StatusActive      EntryStatus = "active"
	StatusUnderReview EntryStatus = "under-review"
	StatusArchived    EntryStatus = "archived"
)

// RegulatoryEntry is a unit of retrievable regulatory knowledge.
// Two entries with identical (Title, Source) are the same candidate for
// deduplication purposes regardless of ID. Per prd002-retrieval R3.1.
type RegulatoryEntry struct {
	// ID is a unique, stable identifier for this entry.
	ID string `json:"id" yaml:"id"`

	// Title is a short human-readable name, searchable independently of content.
	Title string `json:"title" yaml:"title"`

	// Content is the free-text body of the entry.
	Content string `json:"content" yaml:"content"`

	// Category places the entry in the closed category enumeration.
	Category Category `json:"category" yaml:"category"`

	// Source is the citation string (document name or rule chapter).
	Source string `json:"source" yaml:"source"`

	// Section is an optional sub-reference (chapter or rule number).
	Section string `json:"section,omitempty" yaml:"section,omitempty"`

	// LastUpdated is the date the entry was last revised.
	LastUpdated time.Time `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`

	// Status records whether the entry is active, under review, or archived.
	Status EntryStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// DedupKey returns the (title, source) pair used to identify duplicate
// candidates across search strategies.
func (e RegulatoryEntry) DedupKey() string {
	return e.Title + "|" + e.Source
}
