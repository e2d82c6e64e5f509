// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package regstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the full corpus to corpus/index/export.yaml (R5.1),
// optionally scoped to one category (R5.3).
func (s *Store) ExportYAML(ctx context.Context, category types.Category) error {
	entries, err := s.exportEntries(ctx, category)
	if err != nil {
		return err
	}

	path := filepath.Join(s.corpusDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the full corpus to corpus/index/export.json (R5.2),
// optionally scoped to one category (R5.3).
func (s *Store) ExportJSON(ctx context.Context, category types.Category) error {
	entries, err := s.exportEntries(ctx, category)
	if err != nil {
		return err
	}

	path := filepath.Join(s.corpusDir, indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, category types.Category) ([]types.RegulatoryEntry, error) {
	var (
		qb   = `SELECT ` + selectColumns + ` FROM entries`
		args []any
	)
	if category != "" {
		qb += ` WHERE category = ?`
		args = append(args, string(category))
	}
	qb += ` ORDER BY category, id LIMIT ?`
	args = append(args, exportLimit)

	rows, err := s.db.QueryContext(ctx, qb, args...)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return scanEntries(rows)
}
