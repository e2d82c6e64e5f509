// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package regstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

const selectColumns = `id, title, content, category, source, section, last_updated, status`

// SearchByTitle returns active entries whose title contains the given text,
// case-insensitively (R2.2). Results are ordered by title so repeated calls
// are stable.
func (s *Store) SearchByTitle(ctx context.Context, title string) ([]types.RegulatoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+`
		 FROM entries
		 WHERE title LIKE ? ESCAPE '\' AND status != ?
		 ORDER BY title
		 LIMIT ?`,
		"%"+escapeLike(title)+"%", string(types.StatusArchived), s.maxResults,
	)
	if err != nil {
		return nil, fmt.Errorf("querying by title: %w", err)
	}
	return scanEntries(rows)
}

// Search runs a full-text search over titles and contents, optionally scoped
// to one category (R2.1, R2.3). An empty category leaves the search unscoped.
// Results are ordered by FTS rank.
func (s *Store) Search(ctx context.Context, query string, category types.Category) ([]types.RegulatoryEntry, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT e.id, e.title, e.content, e.category, e.source, e.section, e.last_updated, e.status
		 FROM entries_fts
		 JOIN entries e ON e.rowid = entries_fts.rowid
		 WHERE entries_fts MATCH ? AND e.status != ?`)
	args = append(args, match, string(types.StatusArchived))

	if category != "" {
		qb.WriteString(` AND e.category = ?`)
		args = append(args, string(category))
	}

	qb.WriteString(` ORDER BY entries_fts.rank LIMIT ?`)
	args = append(args, s.maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	return scanEntries(rows)
}

// SearchAcrossCategories runs the full-text search with no category scope
// (R2.4).
func (s *Store) SearchAcrossCategories(ctx context.Context, query string) ([]types.RegulatoryEntry, error) {
	return s.Search(ctx, query, "")
}

// ftsQuery rewrites free text into an FTS5 match expression. Each token is
// quoted to neutralize FTS operator characters, and tokens are joined with OR
// so any hit qualifies; ranking happens downstream over the merged results.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `"'`)
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		tokens = append(tokens, `"`+f+`"`)
	}
	return strings.Join(tokens, " OR ")
}

// escapeLike escapes LIKE wildcards in user-supplied title fragments.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanEntries(rows *sql.Rows) ([]types.RegulatoryEntry, error) {
	defer rows.Close()

	var entries []types.RegulatoryEntry
	for rows.Next() {
		var (
			e           types.RegulatoryEntry
			category    string
			status      sql.NullString
			lastUpdated sql.NullString
			source      sql.NullString
			section     sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Content, &category,
			&source, &section, &lastUpdated, &status,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		e.Category = types.Category(category)
		if source.Valid {
			e.Source = source.String
		}
		if section.Valid {
			e.Section = section.String
		}
		if status.Valid {
			e.Status = types.EntryStatus(status.String)
		}
		if lastUpdated.Valid && lastUpdated.String != "" {
			if t, err := time.Parse(time.RFC3339, lastUpdated.String); err == nil {
				e.LastUpdated = t
			}
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
