// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval executes category-specific and specialized searches
// against the regulatory knowledge store and assembles a deduplicated,
// relevance-ranked context for answer generation.
// Implements: prd002-retrieval (R1-R5), prd003-ranking (R1-R3);
//
//	docs/ARCHITECTURE § Retrieval.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

// Searcher is the read-only knowledge store interface consumed by retrieval
// strategies. An empty category means the search is unscoped.
type Searcher interface {
	SearchByTitle(ctx context.Context, title string) ([]types.RegulatoryEntry, error)
	Search(ctx context.Context, query string, category types.Category) ([]types.RegulatoryEntry, error)
	SearchAcrossCategories(ctx context.Context, query string) ([]types.RegulatoryEntry, error)
}

// Strategy is a single retrieval approach. Each strategy (rule-number lookup,
// category search, title search, keyword fallback) implements this interface
// per the Strategy pattern (R2.6).
type Strategy interface {
	Name() string

	// Authoritative strategies short-circuit the remaining strategies when
	// they yield at least one hit (R2.2).
	Authoritative() bool

	Search(ctx context.Context, store Searcher) ([]types.RegulatoryEntry, error)
}

const (
	defaultStrategyTimeout = 5 * time.Second
	defaultMaxConcurrent   = 4
	defaultMaxResults      = 10
)

// Orchestrator fans retrieval strategies out against an injected store.
type Orchestrator struct {
	store Searcher
	cfg   types.RetrievalConfig
}

// NewOrchestrator builds an orchestrator around a store, applying defaults
// for unset config values.
func NewOrchestrator(store Searcher, cfg types.RetrievalConfig) *Orchestrator {
	if cfg.StrategyTimeout <= 0 {
		cfg.StrategyTimeout = defaultStrategyTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return &Orchestrator{store: store, cfg: cfg}
}

// MaxResults exposes the configured ranked-list cap for callers assembling
// the final context.
func (o *Orchestrator) MaxResults() int {
	return o.cfg.MaxResults
}

// Retrieve executes the strategies for a query in fixed priority order and
// returns the merged raw results, unranked and not yet deduplicated (R2.1).
//
// Authoritative strategies run first and short-circuit everything else on a
// hit. The remaining strategies fan out concurrently with a bounded worker
// count; each carries its own timeout, and a failed or timed-out strategy
// contributes an empty result rather than aborting siblings (R2.3-R2.5).
// Results are merged in strategy priority order regardless of completion
// order so retrieval is deterministic for an unchanged store. If every
// strategy fails the store is considered unreachable and one aggregated
// error is returned.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, signals types.QuerySignals, w io.Writer) ([]types.RegulatoryEntry, error) {
	strategies := BuildStrategies(query, signals)

	var errs []error
	attempted := 0

	rest := strategies
	for len(rest) > 0 && rest[0].Authoritative() {
		s := rest[0]
		rest = rest[1:]
		attempted++

		entries, err := o.runStrategy(ctx, s)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fmt.Fprintf(w, "warning: strategy %s failed: %v\n", s.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if len(entries) > 0 {
			return entries, nil
		}
	}

	perStrategy := make([][]types.RegulatoryEntry, len(rest))
	strategyErrs := make([]error, len(rest))

	sem := make(chan struct{}, o.cfg.MaxConcurrent)
	var wg sync.WaitGroup
	for i, s := range rest {
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			perStrategy[i], strategyErrs[i] = o.runStrategy(ctx, s)
		}(i, s)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var merged []types.RegulatoryEntry
	for i, s := range rest {
		attempted++
		if err := strategyErrs[i]; err != nil {
			fmt.Fprintf(w, "warning: strategy %s failed: %v\n", s.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		merged = append(merged, perStrategy[i]...)
	}

	// Last resort: unscoped search across every category (R2.4 stage 4).
	if len(merged) == 0 {
		unscoped := &crossCategoryStrategy{query: query, terms: signals.FinancialTerms}
		attempted++
		entries, err := o.runStrategy(ctx, unscoped)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fmt.Fprintf(w, "warning: strategy %s failed: %v\n", unscoped.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", unscoped.Name(), err))
		}
		merged = append(merged, entries...)
	}

	if len(merged) == 0 && len(errs) == attempted && attempted > 0 {
		return nil, fmt.Errorf("knowledge store unreachable: %w", errors.Join(errs...))
	}

	return merged, nil
}

// runStrategy executes one strategy under its individual timeout.
func (o *Orchestrator) runStrategy(ctx context.Context, s Strategy) ([]types.RegulatoryEntry, error) {
	sctx, cancel := context.WithTimeout(ctx, o.cfg.StrategyTimeout)
	defer cancel()
	return s.Search(sctx, o.store)
}
