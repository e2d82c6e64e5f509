// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yinhse00/SmartFinAI-sub003/internal/regstore"
	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the regulatory corpus (store, search, export)",
	Long: `Corpus manages a local SQLite knowledge store built from regulatory
entry YAML files. Use subcommands to index entries, search them, or export.`,
}

// --- store subcommand ---

var corpusStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest regulatory entries into the corpus store",
	Long: `Store reads entry YAML files from corpus/entries/, ingests them into
a SQLite database with FTS5 indexing over titles and contents. Unchanged
files are skipped on subsequent runs.`,
	RunE: runCorpusStore,
}

func runCorpusStore(cmd *cobra.Command, args []string) error {
	store, err := regstore.NewStore(corpusConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d corpus file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var corpusSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the corpus with full-text search",
	Long: `Search runs an FTS5 full-text search over entry titles and contents,
optionally scoped to one category. Use --title to match titles only.`,
	RunE: runCorpusSearch,
}

func runCorpusSearch(cmd *cobra.Command, args []string) error {
	store, err := regstore.NewStore(corpusConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search query required")
	}

	var results []types.RegulatoryEntry
	titleOnly, _ := cmd.Flags().GetBool("title")
	category, _ := cmd.Flags().GetString("category")

	if titleOnly {
		results, err = store.SearchByTitle(context.Background(), query)
	} else {
		results, err = store.Search(context.Background(), query, types.Category(category))
	}
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []types.RegulatoryEntry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-45s  %-18s  %-25s  %s\n",
		"Rank", "Title", "Category", "Source", "Section")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 105))

	for i, e := range results {
		title := e.Title
		if len(title) > 45 {
			title = title[:42] + "..."
		}
		source := e.Source
		if len(source) > 25 {
			source = source[:22] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-45s  %-18s  %-25s  %s\n",
			i+1, title, e.Category, source, e.Section)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus to YAML or JSON",
	Long: `Export writes the full corpus (or one category) to
corpus/index/export.yaml or export.json.`,
	RunE: runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	category, _ := cmd.Flags().GetString("category")

	store, err := regstore.NewStore(corpusConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), types.Category(category)); err != nil {
			return err
		}
		fmt.Println("Exported to corpus/index/export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background(), types.Category(category)); err != nil {
			return err
		}
		fmt.Println("Exported to corpus/index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func corpusConfig(cmd *cobra.Command) types.CorpusConfig {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	if corpusDir == "" {
		corpusDir = "corpus"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.CorpusConfig{
		CorpusDir:  corpusDir,
		MaxResults: maxResults,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	corpusCmd.PersistentFlags().String("corpus-dir", "corpus", "base directory for the corpus (contains entries/, index/)")
	corpusCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	corpusSearchCmd.Flags().String("category", "", "scope the search to one category")
	corpusSearchCmd.Flags().Bool("title", false, "match titles only instead of full text")
	corpusSearchCmd.Flags().Bool("json", false, "output results as JSON")

	corpusExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	corpusExportCmd.Flags().String("category", "", "export only one category")

	corpusCmd.AddCommand(corpusStoreCmd)
	corpusCmd.AddCommand(corpusSearchCmd)
	corpusCmd.AddCommand(corpusExportCmd)
	rootCmd.AddCommand(corpusCmd)
}
