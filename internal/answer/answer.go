// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer drafts regulatory answers from retrieved context.
// Implements: prd006-answering (R1-R4);
//
//	docs/ARCHITECTURE § Answer Generation.
package answer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Generator abstracts the Generative AI API so tests can supply a mock.
// Each implementation drafts one answer from the formatted regulatory
// context. Per Strategy pattern (prd006-answering R1.2).
type Generator interface {
	Generate(ctx context.Context, query, regulatoryContext string) (string, error)
}

// Save writes a drafted answer to outputDir as a timestamped Markdown file
// and returns the path (R4.1). The query is included as a heading so saved
// answers are self-describing.
func Save(outputDir, query, text string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := fmt.Sprintf("answer-%s.md", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(outputDir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n", query, text)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing answer: %w", err)
	}
	return path, nil
}
