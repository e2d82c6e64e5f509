// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// stubStore serves canned entries for every search method.
type stubStore struct {
	byCategory map[types.Category][]types.RegulatoryEntry
	byTitle    []types.RegulatoryEntry
	unscoped   []types.RegulatoryEntry
	err        error
}

func (s *stubStore) SearchByTitle(_ context.Context, _ string) ([]types.RegulatoryEntry, error) {
	return s.byTitle, s.err
}

func (s *stubStore) Search(_ context.Context, _ string, category types.Category) ([]types.RegulatoryEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byCategory[category], nil
}

func (s *stubStore) SearchAcrossCategories(_ context.Context, _ string) ([]types.RegulatoryEntry, error) {
	return s.unscoped, s.err
}

// stubGenerator returns a fixed draft and records what it was asked.
type stubGenerator struct {
	text       string
	gotQuery   string
	gotContext string
}

func (g *stubGenerator) Generate(_ context.Context, query, regulatoryContext string) (string, error) {
	g.gotQuery = query
	g.gotContext = regulatoryContext
	return g.text, nil
}

func primaryRuleEntry() types.RegulatoryEntry {
	return types.RegulatoryEntry{
		ID: "lr-7.24", Title: "Open Offer Requirements",
		Content:  "An open offer must be made pro rata. No nil-paid rights are issued.",
		Category: types.CategoryPrimaryRules, Source: "Listing Rules Chapter 7", Section: "7.24",
	}
}

func newTestEngine(store *stubStore, gen *stubGenerator) *Engine {
	if gen == nil {
		return New(store, nil, types.EngineConfig{}, nil)
	}
	return New(store, gen, types.EngineConfig{}, nil)
}

func TestGetContextFormatsRankedEntries(t *testing.T) {
	store := &stubStore{
		byCategory: map[types.Category][]types.RegulatoryEntry{
			types.CategoryPrimaryRules: {primaryRuleEntry()},
		},
	}
	e := newTestEngine(store, nil)

	rc, err := e.GetContext(context.Background(), "what are the open offer requirements under the listing rules")
	if err != nil {
		t.Fatal(err)
	}

	if len(rc.Entries) == 0 {
		t.Fatal("expected entries")
	}
	if !strings.Contains(rc.FormattedContext, "[Open Offer Requirements | Listing Rules Chapter 7]:") {
		t.Errorf("formatted context missing citation block: %q", rc.FormattedContext)
	}
	if rc.Reasoning == "" {
		t.Error("expected non-empty reasoning")
	}
}

func TestGetContextInjectsAggregationFallback(t *testing.T) {
	// The store knows nothing about aggregation, so the canonical rule entry
	// must be injected for a rights issue query.
	store := &stubStore{
		byCategory: map[types.Category][]types.RegulatoryEntry{
			types.CategoryPrimaryRules: {primaryRuleEntry()},
		},
	}
	e := newTestEngine(store, nil)

	rc, err := e.GetContext(context.Background(),
		"Does our rights issue need shareholder approval if we completed an open offer eight months ago?")
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, entry := range rc.Entries {
		if entry.ID == "fallback-rights-issue-aggregation" {
			found = true
		}
	}
	if !found {
		t.Errorf("aggregation fallback not injected; entries: %v", entryIDs(rc.Entries))
	}
}

func TestGetContextNotFoundSentinel(t *testing.T) {
	e := newTestEngine(&stubStore{}, nil)

	rc, err := e.GetContext(context.Background(), "what colour is the exchange building")
	if err != nil {
		t.Fatal(err)
	}

	if len(rc.Entries) != 0 {
		t.Errorf("expected no entries, got %v", entryIDs(rc.Entries))
	}
	if !strings.Contains(rc.FormattedContext, "No relevant regulatory provisions") {
		t.Errorf("formatted context = %q, want the not-found sentinel", rc.FormattedContext)
	}
}

func TestGetContextDeterministic(t *testing.T) {
	store := &stubStore{
		byCategory: map[types.Category][]types.RegulatoryEntry{
			types.CategoryPrimaryRules: {primaryRuleEntry()},
		},
		unscoped: []types.RegulatoryEntry{primaryRuleEntry()},
	}
	e := newTestEngine(store, nil)
	query := "open offer subscription requirements"

	first, err := e.GetContext(context.Background(), query)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		rc, err := e.GetContext(context.Background(), query)
		if err != nil {
			t.Fatal(err)
		}
		if rc.FormattedContext != first.FormattedContext {
			t.Fatalf("run %d produced different context", i)
		}
	}
}

func TestGetContextCapsEntries(t *testing.T) {
	var many []types.RegulatoryEntry
	for i := 0; i < 30; i++ {
		many = append(many, types.RegulatoryEntry{
			ID:       fmt.Sprintf("e-%d", i),
			Title:    fmt.Sprintf("Provision %d", i),
			Content:  "Listed issuers must comply.",
			Category: types.CategoryPrimaryRules,
			Source:   "Listing Rules",
		})
	}
	store := &stubStore{
		byCategory: map[types.Category][]types.RegulatoryEntry{
			types.CategoryPrimaryRules: many,
		},
	}
	e := New(store, nil, types.EngineConfig{
		Retrieval: types.RetrievalConfig{MaxResults: 3},
	}, nil)

	rc, err := e.GetContext(context.Background(), "continuing obligations for listed issuers")
	if err != nil {
		t.Fatal(err)
	}
	if len(rc.Entries) != 3 {
		t.Errorf("got %d entries, want 3", len(rc.Entries))
	}
}

func TestValidateAnswerParsesLabel(t *testing.T) {
	e := newTestEngine(&stubStore{}, nil)

	// An answer about mandatory offers is a framework conflict for an open
	// offer query, but fine for an unknown label.
	text := "A mandatory offer under Rule 26 of the Takeovers Code is required. Unlike a rights issue, an open offer under Chapter 7 has no nil-paid rights trading."

	verdict := e.ValidateAnswer(text, "open-offer")
	if verdict.IsComplete {
		t.Error("open-offer label should trigger the framework conflict check")
	}
	if verdict.Confidence != types.ConfidenceHigh {
		t.Errorf("confidence = %q, want high", verdict.Confidence)
	}

	verdict = e.ValidateAnswer(text, "something-else")
	if !verdict.IsComplete {
		t.Errorf("generic label should pass: %v", verdict.MissingElements)
	}
}

func TestAsk(t *testing.T) {
	store := &stubStore{
		byCategory: map[types.Category][]types.RegulatoryEntry{
			types.CategoryPrimaryRules: {primaryRuleEntry()},
		},
	}
	gen := &stubGenerator{
		text: "An open offer under Chapter 7 of the Listing Rules is made pro rata. Unlike a rights issue there are no nil-paid rights, so the entitlement cannot be traded.",
	}
	e := New(store, gen, types.EngineConfig{}, nil)

	query := "how does an open offer work"
	ans, err := e.Ask(context.Background(), query)
	if err != nil {
		t.Fatal(err)
	}

	if ans.Query != query {
		t.Errorf("Query = %q, want %q", ans.Query, query)
	}
	if gen.gotQuery != query {
		t.Errorf("generator got query %q, want %q", gen.gotQuery, query)
	}
	if !strings.Contains(gen.gotContext, "Open Offer Requirements") {
		t.Errorf("generator context missing retrieved entry: %q", gen.gotContext)
	}
	if ans.Text != gen.text {
		t.Errorf("Text = %q, want the generated draft", ans.Text)
	}
	if !ans.Verdict.IsComplete {
		t.Errorf("verdict incomplete: %v", ans.Verdict.MissingElements)
	}
}

func TestAskWithoutGenerator(t *testing.T) {
	e := New(&stubStore{}, nil, types.EngineConfig{}, nil)

	_, err := e.Ask(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error when no generator is configured")
	}
}

func entryIDs(entries []types.RegulatoryEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
